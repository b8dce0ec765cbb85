package balance

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
	balances := r.Group("/balances")
	balances.Use(middleware.AuthMiddleware(jwtSecret))
	{
		balances.GET("/:employeeID", middleware.RBACAuthorize(rbacService, "balance", "read"), handler.Get)
		balances.PUT("/:employeeID", middleware.RBACAuthorize(rbacService, "balance", "manage"), handler.Grant)
	}
}
