package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryLimiterFixedWindow(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	l := NewMemoryLimiter(3, time.Minute)
	l.now = func() time.Time { return now }
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		d, err := l.Allow(ctx, "1.2.3.4")
		require.NoError(t, err)
		assert.True(t, d.Allowed, "request %d", i)
	}

	now = now.Add(20 * time.Second)
	d, err := l.Allow(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Equal(t, 40*time.Second, d.RetryAfter)

	d, _ = l.Allow(ctx, "5.6.7.8")
	assert.True(t, d.Allowed, "other keys have their own window")

	now = now.Add(40 * time.Second)
	d, _ = l.Allow(ctx, "1.2.3.4")
	assert.True(t, d.Allowed, "window resets")
	assert.Equal(t, int64(1), d.Count)
}

func TestMemoryLimiterSweep(t *testing.T) {
	now := time.Now()
	l := NewMemoryLimiter(1, time.Second)
	l.now = func() time.Time { return now }

	l.Allow(context.Background(), "a")
	now = now.Add(2 * time.Second)
	l.sweep(now)
	assert.Empty(t, l.counters)
}

type brokenLimiter struct{}

func (brokenLimiter) Allow(context.Context, string) (Decision, error) {
	return Decision{}, errors.New("connection refused")
}

func TestRateLimitFailsOpen(t *testing.T) {
	metrics := NewMetrics()
	r := gin.New()
	r.GET("/", RateLimit(brokenLimiter{}, metrics), func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 5; i++ {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	}
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.RateLimited))
}

// TestRedisLimiter runs against a real Redis.
// Example: REDIS_TEST_ADDR=localhost:6379
func TestRedisLimiter(t *testing.T) {
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR not set, skipping Redis integration test")
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	defer client.Close()
	ctx := context.Background()
	require.NoError(t, client.Ping(ctx).Err())

	l := NewRedisLimiter(client, 2, time.Minute)
	key := "test-" + uuid.NewString()
	defer client.Del(ctx, l.prefix+":"+key)

	for i := 0; i < 2; i++ {
		d, err := l.Allow(ctx, key)
		require.NoError(t, err)
		assert.True(t, d.Allowed)
	}
	d, err := l.Allow(ctx, key)
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Greater(t, d.RetryAfter, time.Duration(0))
	assert.LessOrEqual(t, d.RetryAfter, time.Minute)
}
