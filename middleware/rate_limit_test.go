package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingLimiter struct{}

func (failingLimiter) Allow(context.Context, string) (bool, int, error) {
	return false, 0, errors.New("connection refused")
}

func limitedRouter(l Limiter, rpm int) *gin.Engine {
	router := gin.New()
	router.POST("/login", RateLimit(l, rpm, nil), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router
}

func TestMemoryLimiterBurst(t *testing.T) {
	l := NewMemoryLimiter(3)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		allowed, _, err := l.Allow(ctx, "10.0.0.1")
		assert.NoError(t, err)
		assert.True(t, allowed, "request %d", i)
	}

	allowed, remaining, err := l.Allow(ctx, "10.0.0.1")
	assert.NoError(t, err)
	assert.False(t, allowed)
	assert.Equal(t, 0, remaining)

	allowed, _, _ = l.Allow(ctx, "10.0.0.2")
	assert.True(t, allowed, "keys are limited independently")
}

func TestMemoryLimiterSweepsIdleBuckets(t *testing.T) {
	clock := time.Date(2030, 3, 10, 9, 0, 0, 0, time.UTC)
	l := NewMemoryLimiter(1)
	l.now = func() time.Time { return clock }
	ctx := context.Background()

	for _, ip := range []string{"10.0.0.1", "10.0.0.2", "10.0.0.3"} {
		_, _, err := l.Allow(ctx, ip)
		require.NoError(t, err)
	}
	assert.Len(t, l.buckets, 3)

	clock = clock.Add(5 * time.Minute)
	_, _, _ = l.Allow(ctx, "10.0.0.3")

	clock = clock.Add(memoryIdleTTL - time.Minute)
	allowed, _, err := l.Allow(ctx, "10.0.0.4")
	require.NoError(t, err)
	assert.True(t, allowed)
	assert.Len(t, l.buckets, 2, "only the recently seen and the new key remain")
	assert.Contains(t, l.buckets, "10.0.0.3")
	assert.Contains(t, l.buckets, "10.0.0.4")
}

func TestRateLimitRejectsOverLimit(t *testing.T) {
	router := limitedRouter(NewMemoryLimiter(2), 2)

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", nil))
		codes = append(codes, w.Code)
		if w.Code == http.StatusTooManyRequests {
			assert.Equal(t, "60", w.Header().Get("Retry-After"))
			assert.Contains(t, w.Body.String(), "too many requests")
		}
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestRateLimitSetsHeaders(t *testing.T) {
	router := limitedRouter(NewMemoryLimiter(5), 5)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", nil))

	assert.Equal(t, "5", w.Header().Get("X-RateLimit-Limit"))
	assert.NotEmpty(t, w.Header().Get("X-RateLimit-Remaining"))
}

func TestRateLimitFailsOpen(t *testing.T) {
	router := limitedRouter(failingLimiter{}, 1)

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}
}

func TestRateLimitNilLimiter(t *testing.T) {
	router := limitedRouter(nil, 1)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
