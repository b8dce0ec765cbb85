package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/Amserna/admin/internal/shared/apperror"
	"github.com/Amserna/admin/internal/shared/response"
)

// RBACService is a local interface so this package does not depend on the
// rbac package directly.
type RBACService interface {
	Enforce(role, resource, action string) (bool, error)
}

func RBACAuthorize(service RBACService, resource, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString("role")
		if role == "" {
			abortWith(c, apperror.ErrUnauthorized)
			return
		}

		allowed, err := service.Enforce(role, resource, action)
		if err != nil {
			abortWith(c, apperror.ErrInternal)
			return
		}

		if !allowed {
			httpErr := apperror.ToHTTP(apperror.ErrForbidden)
			response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message,
				map[string]string{"required": resource + ":" + action},
			)
			c.Abort()
			return
		}

		c.Next()
	}
}
