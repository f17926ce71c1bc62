package http

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"github.com/hrcore/hr-engine-go/internal/handler/http/middleware"
	"github.com/hrcore/hr-engine-go/internal/pkg/jwt"
)

func NewRouter(JWTService jwt.Service, leaveHandler LeaveHandler, payrollHandler PayrollHandler) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "hr-engine"),
		slog.String("version", "v1.0.0"),
		slog.String("env", "development"),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService.JWTAuth()))

			r.Route("/leave", func(r chi.Router) {
				r.Route("/balances", func(r chi.Router) {
					r.Get("/", leaveHandler.GetBalances)

					// HR only
					r.Group(func(r chi.Router) {
						r.Use(middleware.RequireHR)
						r.Post("/initialize", leaveHandler.InitializeBalances)
						r.Post("/initialize-year", leaveHandler.InitializeYear)
					})
				})

				r.With(middleware.RequireHR).Get("/sick-cycle-report", leaveHandler.SickCycleReport)

				r.Route("/requests", func(r chi.Router) {
					r.Post("/", leaveHandler.SubmitRequest)
					r.Get("/", leaveHandler.ListRequests)
					r.Post("/{id}/cancel", leaveHandler.CancelRequest)

					// HR only
					r.Group(func(r chi.Router) {
						r.Use(middleware.RequireHR)
						r.Post("/{id}/approve", leaveHandler.ApproveRequest)
						r.Post("/{id}/reject", leaveHandler.RejectRequest)
					})
				})
			})

			r.Route("/payroll", func(r chi.Router) {
				r.Route("/runs", func(r chi.Router) {
					r.Get("/{runID}/payslip/{employeeID}", payrollHandler.GetPayslip)

					// HR only
					r.Group(func(r chi.Router) {
						r.Use(middleware.RequireHR)
						r.Post("/", payrollHandler.ProcessRun)
						r.Get("/", payrollHandler.ListRuns)
						r.Get("/{id}", payrollHandler.GetRun)
					})
				})

				r.With(middleware.RequireHR).
					Put("/line-items/{id}/payment-status", payrollHandler.UpdatePaymentStatus)
			})
		})
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok\n"))
	})

	return r
}
