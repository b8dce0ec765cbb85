package audit

import (
	"context"
	"database/sql"
)

//go:generate mockgen -source=audit_repo.go -destination=mock/audit_repo_mock.go -package=mock

// Repository appends and reads audit entries. There is no update or delete
// statement anywhere in this package.
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Record(ctx context.Context, e Entry) error
	ListByEntity(ctx context.Context, entityType, entityID string, limit int) ([]Entry, error)
	ListRecent(ctx context.Context, limit, offset int) ([]Entry, error)
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

func (r *repository) Record(ctx context.Context, e Entry) error {
	query := `
        INSERT INTO audit_entries (
            id, actor_id, action, entity_type, entity_id, old_value, new_value, request_id
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
    `

	exec := r.execer()
	_, err := exec.ExecContext(
		ctx, query,
		e.ID, e.ActorID, e.Action, e.EntityType, e.EntityID,
		e.OldValue, e.NewValue, e.RequestID,
	)
	return err
}

const auditColumns = `
	id::text,
	actor_id::text,
	action,
	entity_type,
	entity_id::text,
	COALESCE(old_value, 'null'::jsonb),
	COALESCE(new_value, 'null'::jsonb),
	COALESCE(request_id, ''),
	created_at
`

func (r *repository) ListByEntity(ctx context.Context, entityType, entityID string, limit int) ([]Entry, error) {
	query := `
SELECT ` + auditColumns + `
FROM audit_entries
WHERE entity_type = $1 AND entity_id = $2
ORDER BY created_at DESC
LIMIT $3
`
	return r.list(ctx, query, entityType, entityID, limit)
}

func (r *repository) ListRecent(ctx context.Context, limit, offset int) ([]Entry, error) {
	query := `
SELECT ` + auditColumns + `
FROM audit_entries
ORDER BY created_at DESC
LIMIT $1 OFFSET $2
`
	return r.list(ctx, query, limit, offset)
}

func (r *repository) list(ctx context.Context, query string, args ...any) ([]Entry, error) {
	rows, err := r.querier().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]Entry, 0)
	for rows.Next() {
		var e Entry
		if err := rows.Scan(
			&e.ID,
			&e.ActorID,
			&e.Action,
			&e.EntityType,
			&e.EntityID,
			&e.OldValue,
			&e.NewValue,
			&e.RequestID,
			&e.CreatedAt,
		); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
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
} {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}
