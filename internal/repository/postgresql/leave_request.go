package postgresql

import (
	"context"
	"time"

	"github.com/hrcore/hr-engine-go/internal/domain/leave"
	"github.com/hrcore/hr-engine-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type leaveRequestRepositoryImpl struct {
	db *database.DB
}

func NewLeaveRequestRepository(db *database.DB) leave.RequestRepository {
	return &leaveRequestRepositoryImpl{db: db}
}

// Create implements leave.RequestRepository.
func (r *leaveRequestRepositoryImpl) Create(ctx context.Context, request leave.Request) (leave.Request, error) {
	q := database.GetQuerier(ctx, r.db)

	query := `
		INSERT INTO leave_requests (
			id, employee_id, leave_type, start_date, end_date, number_of_days,
			status, reason, submitted_at, created_at, updated_at
		) VALUES (
			gen_random_uuid(), $1, $2, $3, $4, $5, $6, $7, NOW(), NOW(), NOW()
		) RETURNING id, submitted_at, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		request.EmployeeID, string(request.LeaveType), request.StartDate, request.EndDate,
		request.NumberOfDays, string(request.Status), request.Reason,
	).Scan(&request.ID, &request.SubmittedAt, &request.CreatedAt, &request.UpdatedAt)

	if err != nil {
		return leave.Request{}, err
	}

	return request, nil
}

// GetByID implements leave.RequestRepository.
func (r *leaveRequestRepositoryImpl) GetByID(ctx context.Context, id string) (leave.Request, error) {
	q := database.GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, leave_type, start_date, end_date, number_of_days,
			   status, reason, approver_id, rejection_reason, decided_at,
			   submitted_at, created_at, updated_at
		FROM leave_requests
		WHERE id = $1
	`

	var req leave.Request
	err := q.QueryRow(ctx, query, id).Scan(
		&req.ID, &req.EmployeeID, &req.LeaveType, &req.StartDate, &req.EndDate, &req.NumberOfDays,
		&req.Status, &req.Reason, &req.ApproverID, &req.RejectionReason, &req.DecidedAt,
		&req.SubmittedAt, &req.CreatedAt, &req.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return leave.Request{}, leave.ErrRequestNotFound
		}
		return leave.Request{}, err
	}
	return req, nil
}

// List implements leave.RequestRepository.
func (r *leaveRequestRepositoryImpl) List(ctx context.Context, filter leave.RequestFilter) ([]leave.Request, error) {
	q := database.GetQuerier(ctx, r.db)

	query := `
		SELECT lr.id, lr.employee_id, lr.leave_type, lr.start_date, lr.end_date,
			   lr.number_of_days, lr.status, lr.reason, lr.approver_id,
			   lr.rejection_reason, lr.decided_at, lr.submitted_at,
			   lr.created_at, lr.updated_at,
			   e.full_name AS employee_name
		FROM leave_requests lr
		JOIN employees e ON lr.employee_id = e.id
		WHERE ($1::text IS NULL OR lr.employee_id = $1)
		AND ($2::text IS NULL OR lr.status = $2)
		ORDER BY lr.submitted_at DESC
	`

	var employeeID, status *string
	if filter.EmployeeID != nil {
		employeeID = filter.EmployeeID
	}
	if filter.Status != nil {
		s := string(*filter.Status)
		status = &s
	}

	rows, err := q.Query(ctx, query, employeeID, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	requests := make([]leave.Request, 0)
	for rows.Next() {
		var req leave.Request
		if err := rows.Scan(
			&req.ID, &req.EmployeeID, &req.LeaveType, &req.StartDate, &req.EndDate,
			&req.NumberOfDays, &req.Status, &req.Reason, &req.ApproverID,
			&req.RejectionReason, &req.DecidedAt, &req.SubmittedAt,
			&req.CreatedAt, &req.UpdatedAt,
			&req.EmployeeName,
		); err != nil {
			return nil, err
		}
		requests = append(requests, req)
	}

	return requests, rows.Err()
}

// Transition implements leave.RequestRepository. The WHERE clause pins the
// current status, so a request already moved to a terminal state cannot be
// moved again.
func (r *leaveRequestRepositoryImpl) Transition(ctx context.Context, id string, from, to leave.RequestStatus, approverID *string, rejectionReason *string, decidedAt time.Time) error {
	q := database.GetQuerier(ctx, r.db)

	query := `
		UPDATE leave_requests
		SET status = $3, approver_id = $4, rejection_reason = $5,
			decided_at = $6, updated_at = NOW()
		WHERE id = $1 AND status = $2
	`

	result, err := q.Exec(ctx, query, id, string(from), string(to), approverID, rejectionReason, decidedAt)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return leave.ErrAlreadyProcessed
	}

	return nil
}
