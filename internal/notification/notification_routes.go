package notification

import (
	"github.com/gin-gonic/gin"

	"github.com/Amserna/admin/internal/middleware"
	"github.com/Amserna/admin/internal/rbac"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
	jwtSecret string,
) {
	notifications := r.Group("/notifications")
	notifications.Use(middleware.AuthMiddleware(jwtSecret))
	{
		notifications.GET("", middleware.RBACAuthorize(rbacService, "notification", "read"), handler.ListMine)
		notifications.POST("/:id/read", middleware.RBACAuthorize(rbacService, "notification", "read"), handler.MarkRead)
	}
}
