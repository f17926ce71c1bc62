package actor

// Role as carried in the access-token claims. Authorization decisions live at
// the transport boundary; the core only records who acted.
type Role string

const (
	RoleEmployee Role = "employee"
	RoleHR       Role = "hr"
	RoleAdmin    Role = "admin"
)

// Actor identifies the authenticated caller of a mutating core operation.
// It is always passed explicitly; the core never reads session state.
type Actor struct {
	EmployeeID string
	Role       Role
}

// CanApprove reports whether the role is HR/admin capable.
func (a Actor) CanApprove() bool {
	return a.Role == RoleHR || a.Role == RoleAdmin
}
