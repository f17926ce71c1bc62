package main

import (
	"fmt"
	"net/http"

	"github.com/hrcore/hr-engine-go/internal/config"
	"github.com/hrcore/hr-engine-go/internal/domain/leave"
	appHTTP "github.com/hrcore/hr-engine-go/internal/handler/http"
	"github.com/hrcore/hr-engine-go/internal/pkg/database"
	"github.com/hrcore/hr-engine-go/internal/pkg/jwt"
	"github.com/hrcore/hr-engine-go/internal/repository/postgresql"
	leaveService "github.com/hrcore/hr-engine-go/internal/service/leave"
	payrollService "github.com/hrcore/hr-engine-go/internal/service/payroll"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	dsn := cfg.DatabaseURL()
	db, err := database.NewPostgreSQLDB(dsn)
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}

	employeeRepo := postgresql.NewEmployeeRepository(db)
	leaveBalanceRepo := postgresql.NewLeaveBalanceRepository(db)
	leaveRequestRepo := postgresql.NewLeaveRequestRepository(db)
	payrollRepo := postgresql.NewPayrollRepository(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	policy := leave.DefaultPolicy()

	balanceSvc := leaveService.NewBalanceService(db, leaveBalanceRepo, employeeRepo, policy)
	cycleSvc := leaveService.NewCycleService(leaveBalanceRepo, employeeRepo, policy)
	requestSvc := leaveService.NewRequestService(db, leaveRequestRepo, leaveBalanceRepo, employeeRepo, cycleSvc, policy)

	taxCalculator := payrollService.NewTaxCalculator()
	runSvc := payrollService.NewRunService(db, payrollRepo, employeeRepo, taxCalculator, nil)
	payslipSvc := payrollService.NewPayslipService(payrollRepo, employeeRepo)

	leaveHandler := appHTTP.NewLeaveHandler(balanceSvc, cycleSvc, requestSvc)
	payrollHandler := appHTTP.NewPayrollHandler(runSvc, payslipSvc)

	router := appHTTP.NewRouter(JWTService, leaveHandler, payrollHandler)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
