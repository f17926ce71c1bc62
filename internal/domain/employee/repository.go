package employee

import "context"

// Repository - read-only view over the roster owned by the surrounding suite.
type Repository interface {
	GetByID(ctx context.Context, id string) (Employee, error)
	ListActive(ctx context.Context) ([]Employee, error)
	ListActiveByDepartment(ctx context.Context, department string) ([]Employee, error)
}
