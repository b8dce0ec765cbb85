package request

import (
	"context"
	"database/sql"
	"time"
)

// StatusUpdate carries one guarded state change. FromVersion is the version
// the caller read; the update matches zero rows when someone else moved the
// request first.
type StatusUpdate struct {
	ID             string
	FromVersion    int
	Status         Status
	CurrentLevel   int
	FinalDecidedBy *string
	FinalDecidedAt *time.Time
}

//go:generate mockgen -source=request_repo.go -destination=mock/request_repo_mock.go -package=mock

type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, lr *LeaveRequest) error
	FindByID(ctx context.Context, id string) (*LeaveRequest, error)
	FindByIDForUpdate(ctx context.Context, id string) (*LeaveRequest, error)
	UpdateStatus(ctx context.Context, u StatusUpdate) (int64, error)
	ListByEmployee(ctx context.Context, employeeID string) ([]LeaveRequest, error)
	ListByStatus(ctx context.Context, status Status) ([]LeaveRequest, error)
	HasOverlappingPeriod(ctx context.Context, employeeID string, startDate, endDate time.Time, excludeID *string) (bool, error)
	DeleteCreated(ctx context.Context, id string) (int64, error)
}

type repository struct {
	db *sql.DB
	tx *sql.Tx
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

const requestColumns = `
	id::text,
	request_number,
	employee_id::text,
	leave_type,
	start_date,
	end_date,
	days_requested,
	COALESCE(reason, ''),
	status,
	current_level,
	version,
	final_decided_by::text,
	final_decided_at,
	created_at,
	updated_at
`

func (r *repository) Create(ctx context.Context, lr *LeaveRequest) error {
	query := `
        INSERT INTO leave_requests (
            id, request_number, employee_id, leave_type, start_date, end_date,
            days_requested, reason, status, current_level, version
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, NULLIF($8, ''), $9, $10, $11)
    `

	exec := r.execer()
	_, err := exec.ExecContext(
		ctx, query,
		lr.ID, lr.RequestNumber, lr.EmployeeID, lr.LeaveType,
		lr.StartDate, lr.EndDate, lr.DaysRequested, lr.Reason,
		string(lr.Status), lr.CurrentLevel, lr.Version,
	)
	return err
}

func (r *repository) FindByID(ctx context.Context, id string) (*LeaveRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM leave_requests WHERE id = $1`
	return r.scanOne(r.querier().QueryRowContext(ctx, query, id))
}

// FindByIDForUpdate takes the per-request row lock. NOWAIT makes a losing
// racer fail immediately with SQLSTATE 55P03 instead of queueing behind the
// winner.
func (r *repository) FindByIDForUpdate(ctx context.Context, id string) (*LeaveRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM leave_requests WHERE id = $1 FOR UPDATE NOWAIT`
	return r.scanOne(r.querier().QueryRowContext(ctx, query, id))
}

func (r *repository) UpdateStatus(ctx context.Context, u StatusUpdate) (int64, error) {
	query := `
UPDATE leave_requests
SET
	status = $3,
	current_level = $4,
	final_decided_by = $5,
	final_decided_at = $6,
	version = version + 1,
	updated_at = NOW()
WHERE id = $1 AND version = $2
`

	res, err := r.execer().ExecContext(
		ctx, query,
		u.ID, u.FromVersion, string(u.Status), u.CurrentLevel,
		u.FinalDecidedBy, u.FinalDecidedAt,
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *repository) ListByEmployee(ctx context.Context, employeeID string) ([]LeaveRequest, error) {
	query := `
SELECT ` + requestColumns + `
FROM leave_requests
WHERE employee_id = $1
ORDER BY created_at DESC
`
	return r.list(ctx, query, employeeID)
}

func (r *repository) ListByStatus(ctx context.Context, status Status) ([]LeaveRequest, error) {
	query := `
SELECT ` + requestColumns + `
FROM leave_requests
WHERE status = $1
ORDER BY created_at ASC
`
	return r.list(ctx, query, string(status))
}

// HasOverlappingPeriod reports whether any live request of the employee
// touches the period. REJECTED rows don't block, and neither do CREATED
// rows: those never entered the chain (a failed engine handoff must not
// block the employee's retry).
func (r *repository) HasOverlappingPeriod(ctx context.Context, employeeID string, startDate, endDate time.Time, excludeID *string) (bool, error) {
	query := `
SELECT EXISTS (
	SELECT 1 FROM leave_requests
	WHERE employee_id = $1
		AND status NOT IN ($2, $3)
		AND NOT (end_date < $4 OR start_date > $5)
		AND ($6::uuid IS NULL OR id <> $6::uuid)
)
`

	var exists bool
	err := r.querier().QueryRowContext(
		ctx, query,
		employeeID, string(StatusRejected), string(StatusCreated), startDate, endDate, excludeID,
	).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

// DeleteCreated removes a request that never entered the chain. The status
// guard makes it a no-op for anything the engine already picked up.
func (r *repository) DeleteCreated(ctx context.Context, id string) (int64, error) {
	query := `DELETE FROM leave_requests WHERE id = $1 AND status = $2`

	res, err := r.execer().ExecContext(ctx, query, id, string(StatusCreated))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *repository) list(ctx context.Context, query string, args ...any) ([]LeaveRequest, error) {
	rows, err := r.querier().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]LeaveRequest, 0)
	for rows.Next() {
		lr, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *lr)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return out, nil
}

func (r *repository) scanOne(row *sql.Row) (*LeaveRequest, error) {
	return scanRequest(row)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRequest(row rowScanner) (*LeaveRequest, error) {
	var lr LeaveRequest
	var status string
	err := row.Scan(
		&lr.ID,
		&lr.RequestNumber,
		&lr.EmployeeID,
		&lr.LeaveType,
		&lr.StartDate,
		&lr.EndDate,
		&lr.DaysRequested,
		&lr.Reason,
		&status,
		&lr.CurrentLevel,
		&lr.Version,
		&lr.FinalDecidedBy,
		&lr.FinalDecidedAt,
		&lr.CreatedAt,
		&lr.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	lr.Status = Status(status)
	return &lr, nil
}

func (r *repository) execer() interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
} {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

func (r *repository) querier() interface {
	QueryContext(context.Context, string, ...any) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...any) *sql.Row
} {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}
