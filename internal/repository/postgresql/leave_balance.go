package postgresql

import (
	"context"

	"github.com/hrcore/hr-engine-go/internal/domain/leave"
	"github.com/hrcore/hr-engine-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type leaveBalanceRepositoryImpl struct {
	db *database.DB
}

func NewLeaveBalanceRepository(db *database.DB) leave.BalanceRepository {
	return &leaveBalanceRepositoryImpl{db: db}
}

// Create implements leave.BalanceRepository. The unique index on
// (employee_id, leave_type, year) turns a duplicate insert into
// ErrAlreadyInitialized so bulk callers can skip instead of abort.
func (r *leaveBalanceRepositoryImpl) Create(ctx context.Context, balance leave.Balance) (leave.Balance, error) {
	q := database.GetQuerier(ctx, r.db)

	query := `
		INSERT INTO leave_balances (
			id, employee_id, leave_type, year, total_days, used_days,
			created_at, updated_at
		) VALUES (
			gen_random_uuid(), $1, $2, $3, $4, $5, NOW(), NOW()
		) RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		balance.EmployeeID, string(balance.LeaveType), balance.Year,
		balance.TotalDays, balance.UsedDays,
	).Scan(&balance.ID, &balance.CreatedAt, &balance.UpdatedAt)

	if err != nil {
		if isUniqueViolation(err, "") {
			return leave.Balance{}, leave.ErrAlreadyInitialized
		}
		return leave.Balance{}, err
	}

	return balance, nil
}

// GetByEmployeeTypeYear implements leave.BalanceRepository.
func (r *leaveBalanceRepositoryImpl) GetByEmployeeTypeYear(ctx context.Context, employeeID string, leaveType leave.Type, year int) (leave.Balance, error) {
	q := database.GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, leave_type, year, total_days, used_days,
			   created_at, updated_at
		FROM leave_balances
		WHERE employee_id = $1 AND leave_type = $2 AND year = $3
	`

	var b leave.Balance
	err := q.QueryRow(ctx, query, employeeID, string(leaveType), year).Scan(
		&b.ID, &b.EmployeeID, &b.LeaveType, &b.Year, &b.TotalDays, &b.UsedDays,
		&b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return leave.Balance{}, leave.ErrBalanceNotFound
		}
		return leave.Balance{}, err
	}
	return b, nil
}

// GetByEmployeeYear implements leave.BalanceRepository.
func (r *leaveBalanceRepositoryImpl) GetByEmployeeYear(ctx context.Context, employeeID string, year int) ([]leave.Balance, error) {
	q := database.GetQuerier(ctx, r.db)

	query := `
		SELECT lb.id, lb.employee_id, lb.leave_type, lb.year, lb.total_days,
			   lb.used_days, lb.created_at, lb.updated_at,
			   e.full_name AS employee_name
		FROM leave_balances lb
		JOIN employees e ON lb.employee_id = e.id
		WHERE lb.employee_id = $1 AND lb.year = $2
		ORDER BY lb.leave_type
	`

	rows, err := q.Query(ctx, query, employeeID, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	balances := make([]leave.Balance, 0)
	for rows.Next() {
		var b leave.Balance
		if err := rows.Scan(
			&b.ID, &b.EmployeeID, &b.LeaveType, &b.Year, &b.TotalDays,
			&b.UsedDays, &b.CreatedAt, &b.UpdatedAt,
			&b.EmployeeName,
		); err != nil {
			return nil, err
		}
		balances = append(balances, b)
	}

	return balances, rows.Err()
}

// SickUsageInYears implements leave.BalanceRepository. Years without a row
// contribute zero.
func (r *leaveBalanceRepositoryImpl) SickUsageInYears(ctx context.Context, employeeID string, fromYear, toYear int) (decimal.Decimal, error) {
	q := database.GetQuerier(ctx, r.db)

	query := `
		SELECT COALESCE(SUM(used_days), 0)
		FROM leave_balances
		WHERE employee_id = $1 AND leave_type = 'sick' AND year BETWEEN $2 AND $3
	`

	var used decimal.Decimal
	if err := q.QueryRow(ctx, query, employeeID, fromYear, toYear).Scan(&used); err != nil {
		return decimal.Zero, err
	}
	return used, nil
}

// Consume implements leave.BalanceRepository. The ceiling lives in the WHERE
// clause so two concurrent approvals for the same key cannot both pass the
// check and over-consume.
func (r *leaveBalanceRepositoryImpl) Consume(ctx context.Context, employeeID string, leaveType leave.Type, year int, days decimal.Decimal, capped bool) error {
	q := database.GetQuerier(ctx, r.db)

	query := `
		UPDATE leave_balances
		SET used_days = used_days + $4, updated_at = NOW()
		WHERE employee_id = $1 AND leave_type = $2 AND year = $3
	`
	if capped {
		query += ` AND used_days + $4 <= total_days`
	}

	result, err := q.Exec(ctx, query, employeeID, string(leaveType), year, days)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		if _, err := r.GetByEmployeeTypeYear(ctx, employeeID, leaveType, year); err != nil {
			return err
		}
		return leave.ErrInsufficientBalance
	}

	return nil
}

// ConsumeSick implements leave.BalanceRepository. The subquery re-checks the
// cycle-wide cap inside the same statement, so the 3-year invariant holds
// even under concurrent approvals.
func (r *leaveBalanceRepositoryImpl) ConsumeSick(ctx context.Context, employeeID string, year int, days decimal.Decimal, cycleStart, cycleEnd int, allowance decimal.Decimal) error {
	q := database.GetQuerier(ctx, r.db)

	query := `
		UPDATE leave_balances
		SET used_days = used_days + $2, updated_at = NOW()
		WHERE employee_id = $1 AND leave_type = 'sick' AND year = $3
		AND used_days + $2 <= total_days
		AND (
			SELECT COALESCE(SUM(used_days), 0)
			FROM leave_balances
			WHERE employee_id = $1 AND leave_type = 'sick'
			AND year BETWEEN $4 AND $5
		) + $2 <= $6
	`

	result, err := q.Exec(ctx, query, employeeID, days, year, cycleStart, cycleEnd, allowance)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		if _, err := r.GetByEmployeeTypeYear(ctx, employeeID, leave.TypeSick, year); err != nil {
			return err
		}
		return leave.ErrInsufficientBalance
	}

	return nil
}

// Release implements leave.BalanceRepository. A release that would drive
// used_days negative misses the guard and surfaces as an invariant violation,
// aborting the enclosing transaction.
func (r *leaveBalanceRepositoryImpl) Release(ctx context.Context, employeeID string, leaveType leave.Type, year int, days decimal.Decimal) error {
	q := database.GetQuerier(ctx, r.db)

	query := `
		UPDATE leave_balances
		SET used_days = used_days - $4, updated_at = NOW()
		WHERE employee_id = $1 AND leave_type = $2 AND year = $3
		AND used_days - $4 >= 0
	`

	result, err := q.Exec(ctx, query, employeeID, string(leaveType), year, days)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		if _, err := r.GetByEmployeeTypeYear(ctx, employeeID, leaveType, year); err != nil {
			return err
		}
		return leave.ErrBalanceInvariant
	}

	return nil
}
