package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"unipress.io/engagement/pkg/response"
)

// RateLimit enforces a per-actor cooldown on one action. The lock is a
// redis SetNX with the cooldown as TTL; a second request inside the window is
// rejected with the remaining wait. A nil client disables limiting.
func RateLimit(rdb *redis.Client, action string, cooldown time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rdb == nil {
			c.Next()
			return
		}

		actorID, err := response.GetActorID(c)
		if err != nil {
			// Identity resolution happens earlier in the chain; without an
			// actor there is nothing to key the cooldown on.
			c.Next()
			return
		}

		key := fmt.Sprintf("rate_limit:%s:%s", actorID, action)
		ok, err := rdb.SetNX(c.Request.Context(), key, "locked", cooldown).Result()
		if err != nil {
			// Redis trouble must not block writes; the store still enforces
			// its own constraints.
			c.Next()
			return
		}
		if !ok {
			ttl, _ := rdb.TTL(c.Request.Context(), key).Result()
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":       "too many requests, slow down",
				"retry_after": int(ttl.Seconds()),
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
