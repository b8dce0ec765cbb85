package balance_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/Amserna/admin/internal/balance"
	balanceerrors "github.com/Amserna/admin/internal/balance/errors"
	mock_balance "github.com/Amserna/admin/internal/balance/mock"
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

func TestBalanceHandler_Get(t *testing.T) {
	employeeID := uuid.New().String()

	t.Run("success year query is forwarded", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		svc := mock_balance.NewMockService(ctrl)
		svc.EXPECT().
			Get(gomock.Any(), employeeID, "EMPLOYEE", employeeID, 2025).
			Return(balance.Response{EmployeeID: employeeID, Year: 2025, RemainingDays: 12}, nil)

		h := balance.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/balances/"+employeeID+"?year=2025", nil)
		c.Params = gin.Params{{Key: "employeeID", Value: employeeID}}
		c.Set("actor_id", employeeID)
		c.Set("role", "EMPLOYEE")

		h.Get(c)

		assert.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.True(t, env.Ok)
		var got balance.Response
		assert.NoError(t, json.Unmarshal(env.Data, &got))
		assert.Equal(t, 12, got.RemainingDays)
	})

	t.Run("negative foreign balance is forbidden", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		svc := mock_balance.NewMockService(ctrl)
		svc.EXPECT().
			Get(gomock.Any(), gomock.Any(), "EMPLOYEE", employeeID, 0).
			Return(balance.Response{}, balanceerrors.ErrNotBalanceOwner)

		h := balance.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/balances/"+employeeID, nil)
		c.Params = gin.Params{{Key: "employeeID", Value: employeeID}}
		c.Set("actor_id", uuid.New().String())
		c.Set("role", "EMPLOYEE")

		h.Get(c)

		assert.Equal(t, http.StatusForbidden, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.False(t, env.Ok)
	})
}

func TestBalanceHandler_Grant(t *testing.T) {
	employeeID := uuid.New().String()
	actorID := uuid.New().String()

	t.Run("success grants a yearly allocation", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		svc := mock_balance.NewMockService(ctrl)
		svc.EXPECT().
			Grant(gomock.Any(), actorID, employeeID, balance.GrantRequest{Year: 2026, TotalDays: 30}).
			Return(balance.Response{EmployeeID: employeeID, Year: 2026, TotalDays: 30, RemainingDays: 30}, nil)

		h := balance.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		body := `{"year":2026,"total_days":30}`
		c.Request = httptest.NewRequest(http.MethodPut, "/balances/"+employeeID, strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Params = gin.Params{{Key: "employeeID", Value: employeeID}}
		c.Set("actor_id", actorID)
		c.Set("role", "HR")

		h.Grant(c)

		assert.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.True(t, env.Ok)
	})

	t.Run("negative missing year fails validation", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		svc := mock_balance.NewMockService(ctrl)

		h := balance.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		body := `{"total_days":30}`
		c.Request = httptest.NewRequest(http.MethodPut, "/balances/"+employeeID, strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Params = gin.Params{{Key: "employeeID", Value: employeeID}}
		c.Set("actor_id", actorID)
		c.Set("role", "HR")

		h.Grant(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.False(t, env.Ok)
	})
}
