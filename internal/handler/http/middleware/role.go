package middleware

import (
	"net/http"

	"github.com/go-chi/jwtauth/v5"
	"github.com/hrcore/hr-engine-go/internal/domain/actor"
	"github.com/hrcore/hr-engine-go/internal/handler/http/response"
)

// RequireHR requires hr or admin role
func RequireHR(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, claims, err := jwtauth.FromContext(r.Context())
		if err != nil {
			response.Forbidden(w, "HR access required")
			return
		}

		roleStr, ok := claims["role"].(string)
		if !ok {
			response.Forbidden(w, "HR access required")
			return
		}

		role := actor.Role(roleStr)
		if role != actor.RoleHR && role != actor.RoleAdmin {
			response.Forbidden(w, "HR access required")
			return
		}

		next.ServeHTTP(w, r)
	})
}
