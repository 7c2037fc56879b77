package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMiniRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func TestCheckRateLimit_NilRedis(t *testing.T) {
	allowed, err := CheckRateLimit(context.Background(), nil, "test", "1", 1, time.Minute)
	assert.ErrorIs(t, err, errNoRedis)
	assert.False(t, allowed)
}

func TestCheckRateLimit_FixedWindow(t *testing.T) {
	mr, rdb := newMiniRedis(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		allowed, err := CheckRateLimit(ctx, rdb, "create_post", "user:1", 2, time.Minute)
		require.NoError(t, err)
		assert.True(t, allowed, "request %d should pass", i+1)
	}

	allowed, err := CheckRateLimit(ctx, rdb, "create_post", "user:1", 2, time.Minute)
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.Greater(t, mr.TTL("rl:create_post:user:1"), time.Duration(0))

	// A different caller has its own window.
	allowed, err = CheckRateLimit(ctx, rdb, "create_post", "user:2", 2, time.Minute)
	require.NoError(t, err)
	assert.True(t, allowed)

	mr.FastForward(time.Minute + time.Second)
	allowed, err = CheckRateLimit(ctx, rdb, "create_post", "user:1", 2, time.Minute)
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestLocalLimiter_Allow(t *testing.T) {
	l := NewLocalLimiter(2, time.Hour)
	assert.True(t, l.Allow("a"))
	assert.True(t, l.Allow("a"))
	assert.False(t, l.Allow("a"))
	assert.True(t, l.Allow("b"))
}

func hit(t *testing.T, app *fiber.App) int {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/limited", nil))
	require.NoError(t, err)
	_ = resp.Body.Close()
	return resp.StatusCode
}

func limitedApp(h fiber.Handler) *fiber.App {
	app := fiber.New()
	app.Post("/limited", h, func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})
	return app
}

func TestRateLimit_Middleware(t *testing.T) {
	t.Run("bypassed in test env", func(t *testing.T) {
		t.Setenv("APP_ENV", "test")
		app := limitedApp(RateLimit(nil, 1, time.Minute, "bypass"))
		assert.Equal(t, http.StatusNoContent, hit(t, app))
		assert.Equal(t, http.StatusNoContent, hit(t, app))
	})

	t.Run("redis backed", func(t *testing.T) {
		t.Setenv("APP_ENV", "production")
		_, rdb := newMiniRedis(t)
		app := limitedApp(RateLimit(rdb, 1, time.Minute, "redis"))
		assert.Equal(t, http.StatusNoContent, hit(t, app))
		assert.Equal(t, http.StatusTooManyRequests, hit(t, app))
	})

	t.Run("local fallback without redis", func(t *testing.T) {
		t.Setenv("APP_ENV", "production")
		app := limitedApp(RateLimit(nil, 1, time.Hour, "local"))
		assert.Equal(t, http.StatusNoContent, hit(t, app))
		assert.Equal(t, http.StatusTooManyRequests, hit(t, app))
	})

	t.Run("fail open", func(t *testing.T) {
		t.Setenv("APP_ENV", "production")
		app := limitedApp(RateLimitWithPolicy(nil, 1, time.Hour, FailOpen, "open"))
		assert.Equal(t, http.StatusNoContent, hit(t, app))
		assert.Equal(t, http.StatusNoContent, hit(t, app))
	})

	t.Run("fail closed", func(t *testing.T) {
		t.Setenv("APP_ENV", "production")
		app := limitedApp(RateLimitWithPolicy(nil, 1, time.Hour, FailClosed, "closed"))
		assert.Equal(t, http.StatusServiceUnavailable, hit(t, app))
	})
}
