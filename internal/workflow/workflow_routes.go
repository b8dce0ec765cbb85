package workflow

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/Amserna/admin/internal/middleware"
	"github.com/Amserna/admin/internal/rbac"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
	rdb *redis.Client,
	jwtSecret string,
) {
	decisions := r.Group("/requests")
	decisions.Use(middleware.AuthMiddleware(jwtSecret))
	{
		decisions.POST("/:id/decision",
			middleware.RBACAuthorize(rbacService, "decision", "create"),
			middleware.RateLimitByActor(rate.Limit(5), 10),
			middleware.Idempotency(rdb),
			handler.Decide,
		)
	}
}
