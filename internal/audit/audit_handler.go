package audit

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Amserna/admin/internal/shared/apperror"
	"github.com/Amserna/admin/internal/shared/response"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("audit.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("audit.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) Export(c *gin.Context) {
	entityType := c.Query("entity_type")
	entityID := c.Query("entity_id")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if limit < 1 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	resp, err := h.service.Export(c.Request.Context(), entityType, entityID, limit, offset)
	if err != nil {
		httpErr := apperror.ToHTTP(err)
		h.logger.Warn("audit export request failed",
			zap.Int("status", httpErr.Status),
			zap.String("code", httpErr.Code),
		)
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
		return
	}

	meta := response.NewPaginationMeta(int64(len(resp)), offset/limit+1, limit)
	response.Success(c, http.StatusOK, resp, &meta)
}
