package middleware

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type countingLimiter struct {
	keys []string
	hits map[string]int
	err  error
}

func (l *countingLimiter) Allow(_ context.Context, key string, limit int, _ time.Duration) (bool, int, error) {
	if l.err != nil {
		return false, 0, l.err
	}
	if l.hits == nil {
		l.hits = map[string]int{}
	}
	l.keys = append(l.keys, key)
	l.hits[key]++
	remaining := limit - l.hits[key]
	if remaining < 0 {
		return false, 0, nil
	}
	return true, remaining, nil
}

func testKey(scope, subject string) string { return scope + "|" + subject }

func newLimitedEngine(cfg RateLimitConfig, limiter RateLimiter) *gin.Engine {
	r := gin.New()
	r.GET("/generate", RateLimit(cfg, limiter, testKey), func(c *gin.Context) { c.Status(http.StatusNoContent) })
	return r
}

func TestRateLimit(t *testing.T) {
	limiter := &countingLimiter{}
	r := newLimitedEngine(RateLimitConfig{Enabled: true, Limit: 2, Window: 30 * time.Second, Scope: "generate"}, limiter)

	w := do(r, "/generate", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "1", w.Header().Get("X-RateLimit-Remaining"))

	assert.Equal(t, http.StatusNoContent, do(r, "/generate", nil).Code)

	w = do(r, "/generate", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "30", w.Header().Get("Retry-After"))
	assert.Contains(t, w.Body.String(), "Too many requests")

	assert.Equal(t, "generate|192.0.2.1:/generate", limiter.keys[0])
}

func TestRateLimit_DisabledOrFailing(t *testing.T) {
	limiter := &countingLimiter{}
	r := newLimitedEngine(RateLimitConfig{Enabled: false, Limit: 1}, limiter)
	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusNoContent, do(r, "/generate", nil).Code)
	}
	assert.Empty(t, limiter.keys)

	r = newLimitedEngine(RateLimitConfig{Enabled: true, Limit: 1}, &countingLimiter{err: errors.New("redis down")})
	assert.Equal(t, http.StatusNoContent, do(r, "/generate", nil).Code, "limiter errors let requests through")
}
