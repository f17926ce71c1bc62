package http

import (
	"net/http"

	"github.com/go-chi/jwtauth/v5"
	"github.com/hrcore/hr-engine-go/internal/domain/actor"
)

// actorFromRequest reads the authenticated caller out of the verified token.
// Claims are only interpreted here; services receive the actor explicitly.
func actorFromRequest(r *http.Request) (actor.Actor, bool) {
	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		return actor.Actor{}, false
	}

	employeeID, ok := claims["employee_id"].(string)
	if !ok || employeeID == "" {
		return actor.Actor{}, false
	}
	role, ok := claims["role"].(string)
	if !ok {
		return actor.Actor{}, false
	}

	return actor.Actor{EmployeeID: employeeID, Role: actor.Role(role)}, true
}
