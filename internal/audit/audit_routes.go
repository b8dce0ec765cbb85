package audit

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
	entries := r.Group("/audit")
	entries.Use(middleware.AuthMiddleware(jwtSecret))
	{
		entries.GET("/entries", middleware.RBACAuthorize(rbacService, "audit", "read"), handler.Export)
	}
}
