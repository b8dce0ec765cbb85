package request

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
	requests := r.Group("/requests")
	requests.Use(middleware.AuthMiddleware(jwtSecret))
	{
		requests.POST("", middleware.RBACAuthorize(rbacService, "leave_request", "create"), handler.Create)
		requests.GET("", middleware.RBACAuthorize(rbacService, "leave_request", "read"), handler.GetMine)
		requests.GET("/pending", middleware.RBACAuthorize(rbacService, "decision", "create"), handler.Pending)
		requests.GET("/:id", middleware.RBACAuthorize(rbacService, "leave_request", "read"), handler.GetByID)
	}
}
