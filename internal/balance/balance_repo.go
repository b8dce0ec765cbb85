package balance

import (
	"context"
	"database/sql"
)

//go:generate mockgen -source=balance_repo.go -destination=mock/balance_repo_mock.go -package=mock

type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Find(ctx context.Context, employeeID string, year int) (*LeaveBalance, error)
	FindForUpdate(ctx context.Context, employeeID string, year int) (*LeaveBalance, error)
	ApplyDeduction(ctx context.Context, employeeID string, year, days int, actorID string) (int64, error)
	Upsert(ctx context.Context, b *LeaveBalance) error
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

const balanceColumns = `
	id::text,
	employee_id::text,
	year,
	total_days,
	used_days,
	remaining_days,
	adjusted_by::text,
	adjusted_at,
	created_at,
	updated_at
`

func (r *repository) Find(ctx context.Context, employeeID string, year int) (*LeaveBalance, error) {
	query := `SELECT ` + balanceColumns + ` FROM leave_balances WHERE employee_id = $1 AND year = $2`
	return r.scanOne(ctx, query, employeeID, year)
}

// FindForUpdate locks the balance row so concurrent deductions for the same
// employee serialize. Waiting is fine here; the request row lock already
// broke the tie between decisions.
func (r *repository) FindForUpdate(ctx context.Context, employeeID string, year int) (*LeaveBalance, error) {
	query := `SELECT ` + balanceColumns + ` FROM leave_balances WHERE employee_id = $1 AND year = $2 FOR UPDATE`
	return r.scanOne(ctx, query, employeeID, year)
}

// ApplyDeduction moves days from remaining to used in one guarded update.
// Zero affected rows means the row is missing or the remaining balance is
// smaller than the deduction; the caller disambiguates.
func (r *repository) ApplyDeduction(ctx context.Context, employeeID string, year, days int, actorID string) (int64, error) {
	query := `
UPDATE leave_balances
SET
	used_days = used_days + $3,
	remaining_days = remaining_days - $3,
	adjusted_by = $4,
	adjusted_at = NOW(),
	updated_at = NOW()
WHERE employee_id = $1 AND year = $2 AND remaining_days >= $3
`

	res, err := r.execer().ExecContext(ctx, query, employeeID, year, days, actorID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Upsert creates or resets a year allocation. used_days is preserved;
// remaining is recomputed from the new total.
func (r *repository) Upsert(ctx context.Context, b *LeaveBalance) error {
	query := `
INSERT INTO leave_balances (
	id, employee_id, year, total_days, used_days, remaining_days, adjusted_by, adjusted_at
) VALUES ($1, $2, $3, $4, 0, $4, $5, NOW())
ON CONFLICT (employee_id, year) DO UPDATE
SET
	total_days = EXCLUDED.total_days,
	remaining_days = EXCLUDED.total_days - leave_balances.used_days,
	adjusted_by = EXCLUDED.adjusted_by,
	adjusted_at = NOW(),
	updated_at = NOW()
`

	_, err := r.execer().ExecContext(ctx, query, b.ID, b.EmployeeID, b.Year, b.TotalDays, b.AdjustedBy)
	return err
}

func (r *repository) scanOne(ctx context.Context, query string, args ...any) (*LeaveBalance, error) {
	var b LeaveBalance
	err := r.querier().QueryRowContext(ctx, query, args...).Scan(
		&b.ID,
		&b.EmployeeID,
		&b.Year,
		&b.TotalDays,
		&b.UsedDays,
		&b.RemainingDays,
		&b.AdjustedBy,
		&b.AdjustedAt,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
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
	QueryRowContext(context.Context, string, ...any) *sql.Row
} {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}
