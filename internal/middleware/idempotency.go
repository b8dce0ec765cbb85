package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const idempotencyLockTTL = 30 * time.Second

// Idempotency short-circuits a duplicated POST carrying the same
// Idempotency-Key while the first copy is still in flight. The approval
// ledger's unique index remains the real guard against double votes; this
// only saves the duplicate a round trip into the engine.
func Idempotency(rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		idempKey := c.GetHeader("Idempotency-Key")
		if idempKey == "" || c.Request.Method != http.MethodPost || rdb == nil {
			c.Next()
			return
		}

		actorID := c.GetString("actor_id")
		lockKey := fmt.Sprintf("idemp:%s:%s:%s:lock", c.FullPath(), actorID, idempKey)

		// Short expiry so a crashed server releases the lock by itself.
		isNew, err := rdb.SetNX(c.Request.Context(), lockKey, "locked", idempotencyLockTTL).Result()
		if err != nil {
			// Redis being down must not block decisions.
			c.Next()
			return
		}

		if !isNew {
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{
				"code":    "PROCESSING",
				"message": "An identical request is already being processed",
			})
			return
		}

		c.Next()

		_ = rdb.Del(c.Request.Context(), lockKey).Err()
	}
}
