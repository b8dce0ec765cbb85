package approval

import (
	"context"
	"database/sql"
)

//go:generate mockgen -source=approval_repo.go -destination=mock/approval_repo_mock.go -package=mock

type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Record(ctx context.Context, a Approval) error
	Exists(ctx context.Context, requestID string, levelCode LevelRole, approverID string) (bool, error)
	HistoryFor(ctx context.Context, requestID string) ([]Approval, error)
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

// Record inserts one vote. The unique index on (request_id, level_code,
// approver_id) makes a second vote fail with SQLSTATE 23505.
func (r *repository) Record(ctx context.Context, a Approval) error {
	query := `
        INSERT INTO approvals (
            id, request_id, level_code, level_rank, approver_id, decision, comment, decided_at
        ) VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), $8)
    `

	exec := r.execer()
	_, err := exec.ExecContext(
		ctx, query,
		a.ID, a.RequestID, string(a.LevelCode), a.LevelRank,
		a.ApproverID, string(a.Decision), a.Comment, a.DecidedAt,
	)
	return err
}

func (r *repository) Exists(ctx context.Context, requestID string, levelCode LevelRole, approverID string) (bool, error) {
	query := `
SELECT EXISTS (
	SELECT 1 FROM approvals
	WHERE request_id = $1 AND level_code = $2 AND approver_id = $3
)
`
	var exists bool
	err := r.querier().QueryRowContext(ctx, query, requestID, string(levelCode), approverID).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

func (r *repository) HistoryFor(ctx context.Context, requestID string) ([]Approval, error) {
	query := `
SELECT
	id::text,
	request_id::text,
	level_code,
	level_rank,
	approver_id::text,
	decision,
	COALESCE(comment, ''),
	decided_at
FROM approvals
WHERE request_id = $1
ORDER BY decided_at ASC, level_rank ASC
`

	rows, err := r.querier().QueryContext(ctx, query, requestID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	history := make([]Approval, 0, len(Levels))
	for rows.Next() {
		var a Approval
		var levelCode, decision string
		if err := rows.Scan(
			&a.ID,
			&a.RequestID,
			&levelCode,
			&a.LevelRank,
			&a.ApproverID,
			&decision,
			&a.Comment,
			&a.DecidedAt,
		); err != nil {
			return nil, err
		}
		a.LevelCode = LevelRole(levelCode)
		a.Decision = DecisionKind(decision)
		history = append(history, a)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return history, nil
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
