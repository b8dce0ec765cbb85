package audit_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/Amserna/admin/internal/audit"
)

type fakeAuditRepository struct {
	listByEntityFn func(ctx context.Context, entityType, entityID string, limit int) ([]audit.Entry, error)
	listRecentFn   func(ctx context.Context, limit, offset int) ([]audit.Entry, error)
}

func (f *fakeAuditRepository) WithTx(tx *sql.Tx) audit.Repository { return f }

func (f *fakeAuditRepository) Record(ctx context.Context, e audit.Entry) error { return nil }

func (f *fakeAuditRepository) ListByEntity(ctx context.Context, entityType, entityID string, limit int) ([]audit.Entry, error) {
	if f.listByEntityFn != nil {
		return f.listByEntityFn(ctx, entityType, entityID, limit)
	}
	return nil, nil
}

func (f *fakeAuditRepository) ListRecent(ctx context.Context, limit, offset int) ([]audit.Entry, error) {
	if f.listRecentFn != nil {
		return f.listRecentFn(ctx, limit, offset)
	}
	return nil, nil
}

func sampleEntry(entityID string) audit.Entry {
	return audit.Entry{
		ID:         uuid.New().String(),
		ActorID:    uuid.New().String(),
		Action:     audit.ActionDecisionRecorded,
		EntityType: "leave_request",
		EntityID:   entityID,
		OldValue:   []byte(`{"status":"PENDING_SERVICE_HEAD"}`),
		NewValue:   []byte(`{"status":"PENDING_HIERARCHY"}`),
		CreatedAt:  time.Now().UTC(),
	}
}

func TestAuditService_Export(t *testing.T) {
	ctx := context.Background()

	t.Run("success entity filter uses the entity listing", func(t *testing.T) {
		requestID := uuid.New().String()
		repo := &fakeAuditRepository{
			listByEntityFn: func(ctx context.Context, entityType, entityID string, limit int) ([]audit.Entry, error) {
				assert.Equal(t, "leave_request", entityType)
				assert.Equal(t, requestID, entityID)
				assert.Equal(t, 50, limit)
				return []audit.Entry{sampleEntry(requestID)}, nil
			},
			listRecentFn: func(ctx context.Context, limit, offset int) ([]audit.Entry, error) {
				t.Fatal("recent listing must not run when an entity filter is set")
				return nil, nil
			},
		}
		svc := audit.NewService(repo)

		entries, err := svc.Export(ctx, "leave_request", requestID, 50, 0)

		assert.NoError(t, err)
		assert.Len(t, entries, 1)
		assert.Equal(t, requestID, entries[0].EntityID)
		assert.JSONEq(t, `{"status":"PENDING_HIERARCHY"}`, string(entries[0].NewValue))
	})

	t.Run("success no filter falls back to recent entries", func(t *testing.T) {
		repo := &fakeAuditRepository{
			listRecentFn: func(ctx context.Context, limit, offset int) ([]audit.Entry, error) {
				assert.Equal(t, 20, limit)
				assert.Equal(t, 40, offset)
				return []audit.Entry{sampleEntry(uuid.New().String())}, nil
			},
		}
		svc := audit.NewService(repo)

		entries, err := svc.Export(ctx, "", "", 20, 40)

		assert.NoError(t, err)
		assert.Len(t, entries, 1)
	})

	t.Run("success out of range paging is clamped", func(t *testing.T) {
		repo := &fakeAuditRepository{
			listRecentFn: func(ctx context.Context, limit, offset int) ([]audit.Entry, error) {
				assert.Equal(t, 200, limit)
				assert.Equal(t, 0, offset)
				return nil, nil
			},
		}
		svc := audit.NewService(repo)

		_, err := svc.Export(ctx, "", "", 10000, -5)

		assert.NoError(t, err)
	})

	t.Run("negative repository failure surfaces", func(t *testing.T) {
		repo := &fakeAuditRepository{
			listRecentFn: func(ctx context.Context, limit, offset int) ([]audit.Entry, error) {
				return nil, assert.AnError
			},
		}
		svc := audit.NewService(repo)

		_, err := svc.Export(ctx, "", "", 10, 0)

		assert.ErrorIs(t, err, assert.AnError)
	})
}
