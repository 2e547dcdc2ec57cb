package server

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/julianstephens/compoundverse/internal/logger"
)

// Decision is the outcome of one rate limit check.
type Decision struct {
	Allowed    bool
	Count      int64
	RetryAfter time.Duration
}

// Limiter counts requests per key in fixed windows.
type Limiter interface {
	Allow(ctx context.Context, key string) (Decision, error)
}

type windowCounter struct {
	count   int64
	resetAt time.Time
}

// MemoryLimiter is a process-local fixed window limiter.
type MemoryLimiter struct {
	mu       sync.Mutex
	limit    int64
	window   time.Duration
	now      func() time.Time
	counters map[string]*windowCounter
}

func NewMemoryLimiter(limit int, window time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		limit:    int64(limit),
		window:   window,
		now:      time.Now,
		counters: make(map[string]*windowCounter),
	}
}

func (l *MemoryLimiter) Allow(_ context.Context, key string) (Decision, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if len(l.counters) > 4096 {
		l.sweep(now)
	}

	c, ok := l.counters[key]
	if !ok || !now.Before(c.resetAt) {
		c = &windowCounter{resetAt: now.Add(l.window)}
		l.counters[key] = c
	}
	c.count++

	d := Decision{Allowed: c.count <= l.limit, Count: c.count}
	if !d.Allowed {
		d.RetryAfter = c.resetAt.Sub(now)
	}
	return d, nil
}

// sweep drops expired windows. Must be called with the lock held.
func (l *MemoryLimiter) sweep(now time.Time) {
	for key, c := range l.counters {
		if !now.Before(c.resetAt) {
			delete(l.counters, key)
		}
	}
}

// RedisLimiter shares fixed windows across server instances: INCR the key
// and set its expiry on the first hit of a window.
type RedisLimiter struct {
	client *redis.Client
	limit  int64
	window time.Duration
	prefix string
}

func NewRedisLimiter(client *redis.Client, limit int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{client: client, limit: int64(limit), window: window, prefix: "compoundverse:rate_limit"}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (Decision, error) {
	k := fmt.Sprintf("%s:%s", l.prefix, key)

	count, err := l.client.Incr(ctx, k).Result()
	if err != nil {
		return Decision{}, err
	}
	if count == 1 {
		if err := l.client.Expire(ctx, k, l.window).Err(); err != nil {
			return Decision{}, err
		}
	}

	d := Decision{Allowed: count <= l.limit, Count: count}
	if !d.Allowed {
		ttl, err := l.client.TTL(ctx, k).Result()
		if err != nil || ttl < 0 {
			ttl = l.window
		}
		d.RetryAfter = ttl
	}
	return d, nil
}

// RateLimit rejects requests over the limit with 429. Limiter errors let the
// request through.
func RateLimit(limiter Limiter, metrics *Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()

		d, err := limiter.Allow(c.Request.Context(), ip)
		if err != nil {
			logger.Warn("Rate limiter unavailable, allowing request", "ip", ip, "error", err)
			c.Next()
			return
		}

		if !d.Allowed {
			retry := int(math.Ceil(d.RetryAfter.Seconds()))
			metrics.RateLimited.Inc()
			c.Header("Retry-After", strconv.Itoa(retry))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "too many requests",
				"retry_after": retry,
			})
			return
		}
		c.Next()
	}
}
