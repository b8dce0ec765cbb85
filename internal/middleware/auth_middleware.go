package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/Amserna/admin/internal/shared/apperror"
	"github.com/Amserna/admin/internal/shared/contextutil"
	"github.com/Amserna/admin/internal/shared/response"
)

func abortWith(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
	c.Abort()
}

// AuthMiddleware verifies the bearer token and loads the actor identity and
// role into the gin context and the request context. Token issuance lives in
// the identity system, not here.
func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		tokenString, found := strings.CutPrefix(authHeader, "Bearer ")
		if !found {
			tokenString = ""
		}

		if tokenString == "" {
			if cookie, err := c.Cookie("access_token"); err == nil {
				tokenString = cookie
			}
		}

		if tokenString == "" {
			abortWith(c, apperror.ErrUnauthorized)
			return
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method")
			}
			return []byte(secret), nil
		})

		if err != nil {
			code := "INVALID_TOKEN"
			if strings.Contains(err.Error(), "expired") {
				code = "TOKEN_EXPIRED"
			}
			abortWith(c, apperror.Wrap(err, code, "token is not valid", http.StatusUnauthorized))
			return
		}
		if !token.Valid {
			abortWith(c, apperror.New("INVALID_TOKEN", "token is not valid", http.StatusUnauthorized))
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			abortWith(c, apperror.New("INVALID_TOKEN", "invalid token claims", http.StatusUnauthorized))
			return
		}

		actorID, ok := claims["actor_id"].(string)
		if !ok || actorID == "" {
			abortWith(c, apperror.New("INVALID_TOKEN", "actor id not found in token", http.StatusUnauthorized))
			return
		}

		role, _ := claims["role"].(string)
		if role == "" {
			abortWith(c, apperror.New("INVALID_TOKEN", "role not found in token", http.StatusUnauthorized))
			return
		}

		c.Set("actor_id", actorID)
		c.Set("role", role)

		ctx := contextutil.WithActorID(c.Request.Context(), actorID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
