package request_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/Amserna/admin/internal/request"
	requesterrors "github.com/Amserna/admin/internal/request/errors"
)

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type apiEnvelope struct {
	Ok    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Error *apiError       `json:"error"`
}

func decodeEnvelope(t *testing.T, body []byte) apiEnvelope {
	t.Helper()
	var env apiEnvelope
	err := json.Unmarshal(body, &env)
	assert.NoError(t, err)
	return env
}

type fakeRequestService struct {
	createFn         func(ctx context.Context, employeeID string, req request.CreateRequest) (request.Response, error)
	getMineFn        func(ctx context.Context, employeeID string) ([]request.Response, error)
	getByIDFn        func(ctx context.Context, actorID, actorRole, id string) (request.DetailResponse, error)
	pendingForRoleFn func(ctx context.Context, actorRole string) ([]request.Response, error)
}

func (f *fakeRequestService) Create(ctx context.Context, employeeID string, req request.CreateRequest) (request.Response, error) {
	return f.createFn(ctx, employeeID, req)
}

func (f *fakeRequestService) GetMine(ctx context.Context, employeeID string) ([]request.Response, error) {
	return f.getMineFn(ctx, employeeID)
}

func (f *fakeRequestService) GetByID(ctx context.Context, actorID, actorRole, id string) (request.DetailResponse, error) {
	return f.getByIDFn(ctx, actorID, actorRole, id)
}

func (f *fakeRequestService) PendingForRole(ctx context.Context, actorRole string) ([]request.Response, error) {
	return f.pendingForRoleFn(ctx, actorRole)
}

func TestRequestHandler_Create(t *testing.T) {
	t.Run("success returns 201 with the enqueued request", func(t *testing.T) {
		actorID := uuid.New().String()

		svc := &fakeRequestService{
			createFn: func(ctx context.Context, employeeID string, req request.CreateRequest) (request.Response, error) {
				assert.Equal(t, actorID, employeeID)
				assert.Equal(t, "ANNUAL", req.LeaveType)
				return request.Response{
					ID:            uuid.New().String(),
					RequestNumber: "LR-2026-0001",
					EmployeeID:    employeeID,
					Status:        string(request.StatusPendingServiceHead),
					CurrentLevel:  1,
					Version:       2,
				}, nil
			},
		}

		h := request.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		body := `{"leave_type":"ANNUAL","start_date":"2026-03-02","end_date":"2026-03-06","reason":"family trip"}`
		c.Request = httptest.NewRequest(http.MethodPost, "/requests", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Set("actor_id", actorID)

		h.Create(c)

		assert.Equal(t, http.StatusCreated, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.True(t, env.Ok)
		var got request.Response
		assert.NoError(t, json.Unmarshal(env.Data, &got))
		assert.Equal(t, "LR-2026-0001", got.RequestNumber)
		assert.Equal(t, string(request.StatusPendingServiceHead), got.Status)
	})

	t.Run("negative leave type outside the allowed set", func(t *testing.T) {
		svc := &fakeRequestService{
			createFn: func(ctx context.Context, employeeID string, req request.CreateRequest) (request.Response, error) {
				t.Fatal("service must not run on validation failure")
				return request.Response{}, nil
			},
		}

		h := request.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		body := `{"leave_type":"SABBATICAL","start_date":"2026-03-02","end_date":"2026-03-06"}`
		c.Request = httptest.NewRequest(http.MethodPost, "/requests", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Set("actor_id", uuid.New().String())

		h.Create(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.False(t, env.Ok)
	})

	t.Run("negative overlap error surfaces as 409", func(t *testing.T) {
		svc := &fakeRequestService{
			createFn: func(ctx context.Context, employeeID string, req request.CreateRequest) (request.Response, error) {
				return request.Response{}, requesterrors.ErrLeaveOverlap
			},
		}

		h := request.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		body := `{"leave_type":"ANNUAL","start_date":"2026-03-02","end_date":"2026-03-06"}`
		c.Request = httptest.NewRequest(http.MethodPost, "/requests", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Set("actor_id", uuid.New().String())

		h.Create(c)

		assert.Equal(t, http.StatusConflict, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.False(t, env.Ok)
	})
}

func TestRequestHandler_GetByID(t *testing.T) {
	t.Run("success passes actor identity through", func(t *testing.T) {
		actorID := uuid.New().String()
		requestID := uuid.New().String()

		svc := &fakeRequestService{
			getByIDFn: func(ctx context.Context, aid, role, id string) (request.DetailResponse, error) {
				assert.Equal(t, actorID, aid)
				assert.Equal(t, "SERVICE_HEAD", role)
				assert.Equal(t, requestID, id)
				return request.DetailResponse{Request: request.Response{ID: id}}, nil
			},
		}

		h := request.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/requests/"+requestID, nil)
		c.Params = gin.Params{{Key: "id", Value: requestID}}
		c.Set("actor_id", actorID)
		c.Set("role", "SERVICE_HEAD")

		h.GetByID(c)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("negative not the owner", func(t *testing.T) {
		svc := &fakeRequestService{
			getByIDFn: func(ctx context.Context, aid, role, id string) (request.DetailResponse, error) {
				return request.DetailResponse{}, requesterrors.ErrNotRequestOwner
			},
		}

		h := request.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/requests/abc", nil)
		c.Params = gin.Params{{Key: "id", Value: "abc"}}
		c.Set("actor_id", uuid.New().String())
		c.Set("role", "EMPLOYEE")

		h.GetByID(c)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestRequestHandler_Pending(t *testing.T) {
	t.Run("success lists the role inbox", func(t *testing.T) {
		svc := &fakeRequestService{
			pendingForRoleFn: func(ctx context.Context, actorRole string) ([]request.Response, error) {
				assert.Equal(t, "HR", actorRole)
				return []request.Response{{ID: uuid.New().String(), Status: string(request.StatusPendingHRDecision)}}, nil
			},
		}

		h := request.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/requests/pending", nil)
		c.Set("role", "HR")

		h.Pending(c)

		assert.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.True(t, env.Ok)
	})
}
