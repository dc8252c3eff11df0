// internal/interfaces/http/middleware/rate_limit.go
package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const rateLimitWindow = time.Minute

// RateCounter is the part of the Redis client the limiter needs
type RateCounter interface {
	Incr(ctx context.Context, key string) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
}

// RateLimit allows limit requests per client IP per minute using a Redis
// fixed window. Requests pass when Redis is unavailable.
func RateLimit(counter RateCounter, limit int, logger *logrus.Logger) gin.HandlerFunc {
	log := logger.WithField("component", "rate_limit")

	return func(c *gin.Context) {
		if limit <= 0 {
			c.Next()
			return
		}

		window := time.Now().Truncate(rateLimitWindow)
		key := fmt.Sprintf("rate_limit:%s:%d", c.ClientIP(), window.Unix())

		ctx, cancel := context.WithTimeout(c.Request.Context(), 500*time.Millisecond)
		defer cancel()

		current, err := counter.Incr(ctx, key).Result()
		if err != nil {
			log.WithError(err).Warn("Rate limiter unavailable, allowing request")
			c.Next()
			return
		}
		if current == 1 {
			if err := counter.Expire(ctx, key, rateLimitWindow).Err(); err != nil {
				log.WithError(err).Warn("Failed to set rate limit expiry")
			}
		}

		remaining := int64(limit) - current
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(window.Add(rateLimitWindow).Unix(), 10))

		if current > int64(limit) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "Rate limit exceeded",
				"retry_after": int(time.Until(window.Add(rateLimitWindow)).Seconds()) + 1,
			})
			return
		}

		c.Next()
	}
}
