// Package ratelimit limits requests per client with a redis fixed window,
// falling back to in-process token buckets when redis is unavailable.
package ratelimit

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"taskhub_backend/internal/platform/http/response"
)

// Limiter reports whether one more request for key is allowed.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// RedisLimiter counts requests per key in fixed windows shared by all instances.
type RedisLimiter struct {
	rdb       *redis.Client
	limit     int64
	window    time.Duration
	namespace string
}

// NewRedisLimiter allows limit requests per window. namespace defaults to "ratelimit".
func NewRedisLimiter(rdb *redis.Client, limit int, window time.Duration, namespace string) *RedisLimiter {
	if namespace == "" {
		namespace = "ratelimit"
	}
	return &RedisLimiter{rdb: rdb, limit: int64(limit), window: window, namespace: namespace}
}

// Allow increments the counter for key and sets its expiry if it has none.
// Both commands run in one MULTI so a counter never outlives its window.
// ExpireNX needs Redis 7 or later.
func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	k := fmt.Sprintf("%s:%s", l.namespace, key)
	var incr *redis.IntCmd
	if _, err := l.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, k)
		pipe.ExpireNX(ctx, k, l.window)
		return nil
	}); err != nil {
		return false, fmt.Errorf("count %s: %w", k, err)
	}
	return incr.Val() <= l.limit, nil
}

// LocalLimiter keeps one token bucket per key in memory.
// A bucket idle for a whole window is full again, so it is dropped.
type LocalLimiter struct {
	mu        sync.Mutex
	limiters  map[string]*localEntry
	rate      rate.Limit
	burst     int
	window    time.Duration
	lastSweep time.Time
	now       func() time.Time
}

type localEntry struct {
	lim  *rate.Limiter
	seen time.Time
}

// NewLocalLimiter allows limit requests per window with bursts up to limit.
func NewLocalLimiter(limit int, window time.Duration) *LocalLimiter {
	if limit <= 0 {
		limit = 1
	}
	return &LocalLimiter{
		limiters:  make(map[string]*localEntry),
		rate:      rate.Every(window / time.Duration(limit)),
		burst:     limit,
		window:    window,
		lastSweep: time.Now(),
		now:       time.Now,
	}
}

func (l *LocalLimiter) Allow(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) >= l.window {
		l.sweep(now)
	}
	e, ok := l.limiters[key]
	if !ok {
		e = &localEntry{lim: rate.NewLimiter(l.rate, l.burst)}
		l.limiters[key] = e
	}
	e.seen = now
	return e.lim.AllowN(now, 1), nil
}

// sweep removes buckets idle for at least one window. Callers hold mu.
func (l *LocalLimiter) sweep(now time.Time) {
	for k, e := range l.limiters {
		if now.Sub(e.seen) >= l.window {
			delete(l.limiters, k)
		}
	}
	l.lastSweep = now
}

// Middleware limits requests per client IP. When the limiter itself fails the
// request is let through.
func Middleware(limiter Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		ok, err := limiter.Allow(c.Request.Context(), ip)
		if err != nil {
			slog.Warn("rate limiter unavailable", "error", err, "remote_addr", ip)
			c.Next()
			return
		}
		if !ok {
			slog.Warn("rate limit exceeded", "path", c.FullPath(), "remote_addr", ip)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, response.ErrorResponse{Error: "rate limit exceeded"})
			return
		}
		c.Next()
	}
}
