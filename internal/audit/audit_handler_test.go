package audit_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/Amserna/admin/internal/audit"
)

type apiMeta struct {
	Total    int64 `json:"total"`
	Page     int   `json:"page"`
	PageSize int   `json:"pageSize"`
}

type apiEnvelope struct {
	Ok    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Meta  *apiMeta        `json:"meta"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type fakeAuditService struct {
	exportFn func(ctx context.Context, entityType, entityID string, limit, offset int) ([]audit.EntryResponse, error)
}

func (f *fakeAuditService) Export(ctx context.Context, entityType, entityID string, limit, offset int) ([]audit.EntryResponse, error) {
	return f.exportFn(ctx, entityType, entityID, limit, offset)
}

func TestAuditHandler_Export(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("success returns entries with pagination meta", func(t *testing.T) {
		entityID := uuid.New().String()
		svc := &fakeAuditService{
			exportFn: func(ctx context.Context, entityType, eid string, limit, offset int) ([]audit.EntryResponse, error) {
				assert.Equal(t, "leave_request", entityType)
				assert.Equal(t, entityID, eid)
				assert.Equal(t, 2, limit)
				assert.Equal(t, 4, offset)
				return []audit.EntryResponse{
					{ID: uuid.New().String(), Action: audit.ActionDecisionRecorded},
					{ID: uuid.New().String(), Action: audit.ActionRequestEnqueued},
				}, nil
			},
		}
		handler := audit.NewHandler(svc)

		router := gin.New()
		router.GET("/audit", handler.Export)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet,
			"/audit?entity_type=leave_request&entity_id="+entityID+"&limit=2&offset=4", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		var env apiEnvelope
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
		assert.True(t, env.Ok)
		if assert.NotNil(t, env.Meta) {
			assert.Equal(t, int64(2), env.Meta.Total)
			assert.Equal(t, 3, env.Meta.Page)
			assert.Equal(t, 2, env.Meta.PageSize)
		}
		var entries []audit.EntryResponse
		assert.NoError(t, json.Unmarshal(env.Data, &entries))
		assert.Len(t, entries, 2)
	})

	t.Run("negative malformed paging falls back to defaults", func(t *testing.T) {
		svc := &fakeAuditService{
			exportFn: func(ctx context.Context, entityType, eid string, limit, offset int) ([]audit.EntryResponse, error) {
				assert.Equal(t, 50, limit)
				assert.Equal(t, 0, offset)
				return []audit.EntryResponse{}, nil
			},
		}
		handler := audit.NewHandler(svc)

		router := gin.New()
		router.GET("/audit", handler.Export)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/audit?limit=-3&offset=-1", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		var env apiEnvelope
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
		if assert.NotNil(t, env.Meta) {
			assert.Equal(t, 1, env.Meta.Page)
			assert.Equal(t, 50, env.Meta.PageSize)
		}
	})
}
