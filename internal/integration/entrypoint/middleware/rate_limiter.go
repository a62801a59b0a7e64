package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	domainerror "github.com/cdr-billing/backend/internal/domain/error"
	"github.com/cdr-billing/backend/internal/integration/entrypoint/dto"
)

const (
	// DefaultRateLimitAttempts is the default number of allowed attempts per window.
	DefaultRateLimitAttempts = 5
	// DefaultRateLimitWindow is the default time window for rate limiting.
	DefaultRateLimitWindow = 1 * time.Minute
)

// RateLimiter provides IP-based fixed-window rate limiting backed by redis,
// so the limit holds across replicas.
type RateLimiter struct {
	client      *redis.Client
	maxAttempts int
	window      time.Duration
}

// NewRateLimiter creates a new rate limiter instance.
func NewRateLimiter(client *redis.Client, maxAttempts int, window time.Duration) *RateLimiter {
	if maxAttempts <= 0 {
		maxAttempts = DefaultRateLimitAttempts
	}
	if window <= 0 {
		window = DefaultRateLimitWindow
	}
	return &RateLimiter{
		client:      client,
		maxAttempts: maxAttempts,
		window:      window,
	}
}

// Middleware returns a Gin middleware handler that enforces the rate limit.
// Redis outages fail open: a broken limiter must not take the API down.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		clientIP := c.ClientIP()
		if clientIP == "" {
			clientIP = c.Request.RemoteAddr
		}

		key := fmt.Sprintf("ratelimit:%s:%s", c.FullPath(), clientIP)
		ctx := c.Request.Context()

		attempts, err := rl.client.Incr(ctx, key).Result()
		if err != nil {
			slog.Warn("rate limiter unavailable, allowing request", "error", err)
			c.Next()
			return
		}
		if attempts == 1 {
			if err := rl.client.Expire(ctx, key, rl.window).Err(); err != nil {
				slog.Warn("failed to set rate limit window", "error", err)
			}
		}

		if attempts > int64(rl.maxAttempts) {
			c.JSON(http.StatusTooManyRequests, dto.ErrorResponse{
				Error: "Too many requests. Please try again later.",
				Code:  string(domainerror.ErrCodeRateLimitExceeded),
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
