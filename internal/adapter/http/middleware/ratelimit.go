package middleware

import (
	"fmt"
	"time"

	"custodial-ledger/internal/core/ports"
	"custodial-ledger/pkg/apperror"
	"custodial-ledger/pkg/response"

	"github.com/gin-gonic/gin"
)

// RateLimit enforces a fixed-window limit per caller. Authenticated requests
// are keyed by user id, the rest by client IP. When the store is down
// requests pass; availability beats strictness here.
func RateLimit(store ports.RateLimitStore, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP()
		if id, ok := UserID(c); ok {
			key = id.String()
		}
		key = fmt.Sprintf("%s:%s", key, c.FullPath())

		count, err := store.Increment(c.Request.Context(), key, window)
		if err != nil {
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", limit))
		remaining := int64(limit) - count
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", remaining))

		if count > int64(limit) {
			response.Error(c, apperror.ErrRateLimitExceeded())
			c.Abort()
			return
		}
		c.Next()
	}
}
