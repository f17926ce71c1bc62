package postgresql

import (
	"context"
	"time"

	"github.com/hrcore/hr-engine-go/internal/domain/payroll"
	"github.com/hrcore/hr-engine-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type payrollRepositoryImpl struct {
	db *database.DB
}

func NewPayrollRepository(db *database.DB) payroll.RunRepository {
	return &payrollRepositoryImpl{db: db}
}

// CreateRun implements payroll.RunRepository. department_scope is normalized
// to '' for the company-wide scope so the unique index on
// (month, year, department_scope) actually bites on NULL scopes.
func (r *payrollRepositoryImpl) CreateRun(ctx context.Context, run payroll.Run) (payroll.Run, error) {
	q := database.GetQuerier(ctx, r.db)

	scope := ""
	if run.DepartmentScope != nil {
		scope = *run.DepartmentScope
	}

	query := `
		INSERT INTO payroll_runs (
			id, month, year, department_scope, status,
			total_employees, total_gross_pay, total_deductions, total_net_pay,
			notes, created_at, updated_at
		) VALUES (
			gen_random_uuid(), $1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW()
		) RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		run.Month, run.Year, scope, string(run.Status),
		run.TotalEmployees, run.TotalGrossPay, run.TotalDeductions, run.TotalNetPay,
		run.Notes,
	).Scan(&run.ID, &run.CreatedAt, &run.UpdatedAt)

	if err != nil {
		if isUniqueViolation(err, "") {
			return payroll.Run{}, payroll.ErrDuplicateRun
		}
		return payroll.Run{}, err
	}

	return run, nil
}

// CreateLineItems implements payroll.RunRepository.
func (r *payrollRepositoryImpl) CreateLineItems(ctx context.Context, items []payroll.LineItem) error {
	q := database.GetQuerier(ctx, r.db)

	query := `
		INSERT INTO payroll_line_items (
			id, payroll_run_id, employee_id, gross_pay, allowances, paye, uif,
			other_deductions, total_deductions, net_pay, payment_status,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), NOW())
	`

	for _, item := range items {
		if _, err := q.Exec(ctx, query,
			item.ID, item.PayrollRunID, item.EmployeeID,
			item.GrossPay, item.Allowances, item.PAYE, item.UIF,
			item.OtherDeductions, item.TotalDeductions, item.NetPay,
			string(item.PaymentStatus),
		); err != nil {
			return err
		}
	}

	return nil
}

// SealRun implements payroll.RunRepository.
func (r *payrollRepositoryImpl) SealRun(ctx context.Context, run payroll.Run) (payroll.Run, error) {
	q := database.GetQuerier(ctx, r.db)

	query := `
		UPDATE payroll_runs
		SET status = $2, total_employees = $3, total_gross_pay = $4,
			total_deductions = $5, total_net_pay = $6,
			processed_at = $7, processed_by = $8, updated_at = NOW()
		WHERE id = $1 AND status = $9
		RETURNING updated_at
	`

	err := q.QueryRow(ctx, query,
		run.ID, string(payroll.RunStatusProcessed),
		run.TotalEmployees, run.TotalGrossPay, run.TotalDeductions, run.TotalNetPay,
		run.ProcessedAt, run.ProcessedBy,
		string(payroll.RunStatusDraft),
	).Scan(&run.UpdatedAt)

	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.Run{}, payroll.ErrRunSealed
		}
		return payroll.Run{}, err
	}

	run.Status = payroll.RunStatusProcessed
	return run, nil
}

func scanRun(row pgx.Row) (payroll.Run, error) {
	var run payroll.Run
	var scope string
	err := row.Scan(
		&run.ID, &run.Month, &run.Year, &scope, &run.Status,
		&run.TotalEmployees, &run.TotalGrossPay, &run.TotalDeductions, &run.TotalNetPay,
		&run.ProcessedAt, &run.ProcessedBy, &run.Notes,
		&run.CreatedAt, &run.UpdatedAt,
	)
	if err != nil {
		return payroll.Run{}, err
	}
	if scope != "" {
		run.DepartmentScope = &scope
	}
	return run, nil
}

const runColumns = `
	id, month, year, department_scope, status,
	total_employees, total_gross_pay, total_deductions, total_net_pay,
	processed_at, processed_by, notes, created_at, updated_at
`

// GetRunByID implements payroll.RunRepository.
func (r *payrollRepositoryImpl) GetRunByID(ctx context.Context, id string) (payroll.Run, error) {
	q := database.GetQuerier(ctx, r.db)

	query := `
		SELECT ` + runColumns + `
		FROM payroll_runs
		WHERE id = $1
	`

	run, err := scanRun(q.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.Run{}, payroll.ErrRunNotFound
		}
		return payroll.Run{}, err
	}
	return run, nil
}

// ListRuns implements payroll.RunRepository.
func (r *payrollRepositoryImpl) ListRuns(ctx context.Context, filter payroll.RunFilter) ([]payroll.Run, error) {
	q := database.GetQuerier(ctx, r.db)

	query := `
		SELECT ` + runColumns + `
		FROM payroll_runs
		WHERE ($1::int IS NULL OR month = $1)
		AND ($2::int IS NULL OR year = $2)
		AND ($3::text IS NULL OR status = $3)
		ORDER BY year DESC, month DESC, department_scope
	`

	var status *string
	if filter.Status != nil {
		s := string(*filter.Status)
		status = &s
	}

	rows, err := q.Query(ctx, query, filter.Month, filter.Year, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := make([]payroll.Run, 0)
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}

	return runs, rows.Err()
}

const lineItemColumns = `
	li.id, li.payroll_run_id, li.employee_id, li.gross_pay, li.allowances,
	li.paye, li.uif, li.other_deductions, li.total_deductions, li.net_pay,
	li.payment_status, li.payment_date, li.payment_reference,
	li.created_at, li.updated_at,
	e.full_name AS employee_name
`

func scanLineItem(row pgx.Row) (payroll.LineItem, error) {
	var item payroll.LineItem
	err := row.Scan(
		&item.ID, &item.PayrollRunID, &item.EmployeeID, &item.GrossPay, &item.Allowances,
		&item.PAYE, &item.UIF, &item.OtherDeductions, &item.TotalDeductions, &item.NetPay,
		&item.PaymentStatus, &item.PaymentDate, &item.PaymentReference,
		&item.CreatedAt, &item.UpdatedAt,
		&item.EmployeeName,
	)
	return item, err
}

// GetLineItem implements payroll.RunRepository.
func (r *payrollRepositoryImpl) GetLineItem(ctx context.Context, id string) (payroll.LineItem, error) {
	q := database.GetQuerier(ctx, r.db)

	query := `
		SELECT ` + lineItemColumns + `
		FROM payroll_line_items li
		JOIN employees e ON li.employee_id = e.id
		WHERE li.id = $1
	`

	item, err := scanLineItem(q.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.LineItem{}, payroll.ErrLineItemNotFound
		}
		return payroll.LineItem{}, err
	}
	return item, nil
}

// GetLineItemByRunEmployee implements payroll.RunRepository.
func (r *payrollRepositoryImpl) GetLineItemByRunEmployee(ctx context.Context, runID, employeeID string) (payroll.LineItem, error) {
	q := database.GetQuerier(ctx, r.db)

	query := `
		SELECT ` + lineItemColumns + `
		FROM payroll_line_items li
		JOIN employees e ON li.employee_id = e.id
		WHERE li.payroll_run_id = $1 AND li.employee_id = $2
	`

	item, err := scanLineItem(q.QueryRow(ctx, query, runID, employeeID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.LineItem{}, payroll.ErrLineItemNotFound
		}
		return payroll.LineItem{}, err
	}
	return item, nil
}

// ListLineItems implements payroll.RunRepository.
func (r *payrollRepositoryImpl) ListLineItems(ctx context.Context, runID string) ([]payroll.LineItem, error) {
	q := database.GetQuerier(ctx, r.db)

	query := `
		SELECT ` + lineItemColumns + `
		FROM payroll_line_items li
		JOIN employees e ON li.employee_id = e.id
		WHERE li.payroll_run_id = $1
		ORDER BY e.full_name
	`

	rows, err := q.Query(ctx, query, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]payroll.LineItem, 0)
	for rows.Next() {
		item, err := scanLineItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

// UpdatePaymentStatus implements payroll.RunRepository. Only pending line
// items can move; settled payments miss the guard.
func (r *payrollRepositoryImpl) UpdatePaymentStatus(ctx context.Context, id string, status payroll.PaymentStatus, paymentDate *time.Time, paymentReference *string) error {
	q := database.GetQuerier(ctx, r.db)

	query := `
		UPDATE payroll_line_items
		SET payment_status = $2, payment_date = $3, payment_reference = $4,
			updated_at = NOW()
		WHERE id = $1 AND payment_status = $5
	`

	result, err := q.Exec(ctx, query, id, string(status), paymentDate, paymentReference, string(payroll.PaymentStatusPending))
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		if _, err := r.GetLineItem(ctx, id); err != nil {
			return err
		}
		return payroll.ErrPaymentSettled
	}

	return nil
}
