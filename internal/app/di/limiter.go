package di

import (
	"time"

	"github.com/redis/go-redis/v9"

	"taskhub_backend/internal/platform/ratelimit"
)

// NewLoginLimiter creates the limiter guarding the login endpoint.
// If Redis is available, the count is shared across instances.
// Otherwise, it falls back to an in-process token bucket.
func NewLoginLimiter(rdb *redis.Client, limit int, window time.Duration) ratelimit.Limiter {
	if rdb != nil {
		return ratelimit.NewRedisLimiter(rdb, limit, window, "ratelimit:login")
	}
	return ratelimit.NewLocalLimiter(limit, window)
}
