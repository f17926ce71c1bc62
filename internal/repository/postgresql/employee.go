package postgresql

import (
	"context"

	"github.com/hrcore/hr-engine-go/internal/domain/employee"
	"github.com/hrcore/hr-engine-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type employeeRepositoryImpl struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.Repository {
	return &employeeRepositoryImpl{db: db}
}

const employeeColumns = `
	id, full_name, department, employment_status, hire_date,
	base_salary, allowances, other_deductions, created_at, updated_at
`

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var e employee.Employee
	err := row.Scan(
		&e.ID, &e.FullName, &e.Department, &e.Status, &e.HireDate,
		&e.BaseSalary, &e.Allowances, &e.OtherDeductions, &e.CreatedAt, &e.UpdatedAt,
	)
	return e, err
}

// GetByID implements employee.Repository.
func (r *employeeRepositoryImpl) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	q := database.GetQuerier(ctx, r.db)

	query := `
		SELECT ` + employeeColumns + `
		FROM employees
		WHERE id = $1
	`

	e, err := scanEmployee(q.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, err
	}
	return e, nil
}

// ListActive implements employee.Repository.
func (r *employeeRepositoryImpl) ListActive(ctx context.Context) ([]employee.Employee, error) {
	q := database.GetQuerier(ctx, r.db)

	query := `
		SELECT ` + employeeColumns + `
		FROM employees
		WHERE employment_status = 'active'
		ORDER BY full_name
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	employees := make([]employee.Employee, 0)
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, e)
	}

	return employees, rows.Err()
}

// ListActiveByDepartment implements employee.Repository.
func (r *employeeRepositoryImpl) ListActiveByDepartment(ctx context.Context, department string) ([]employee.Employee, error) {
	q := database.GetQuerier(ctx, r.db)

	query := `
		SELECT ` + employeeColumns + `
		FROM employees
		WHERE employment_status = 'active' AND department = $1
		ORDER BY full_name
	`

	rows, err := q.Query(ctx, query, department)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	employees := make([]employee.Employee, 0)
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, e)
	}

	return employees, rows.Err()
}
