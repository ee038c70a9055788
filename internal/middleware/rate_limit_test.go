package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akeen90/nutrasafe-beta-sub001/internal/logger"
	"github.com/akeen90/nutrasafe-beta-sub001/internal/testhelpers"
)

func limitedRouter(rl *RateLimiter, userID uuid.UUID) *gin.Engine {
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if userID != uuid.Nil {
			c.Set(ContextUserID, userID)
		}
		c.Next()
	})
	r.Use(rl.Middleware())
	r.POST("/analysis", func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func postAnalysis(r *gin.Engine) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/analysis", nil))
	return w
}

func TestNilRateLimiterPassesThrough(t *testing.T) {
	var rl *RateLimiter
	assert.Nil(t, NewAnalysisRateLimiter(nil, 10, time.Minute, logger.Nop()))

	r := limitedRouter(rl, uuid.New())
	for i := 0; i < 3; i++ {
		w := postAnalysis(r)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Header().Get("X-RateLimit-Limit"))
	}
}

func TestRateLimiterFailsOpen(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer func() { _ = client.Close() }()

	rl := NewRateLimiter(client, RateLimitConfig{Window: time.Minute, Limit: 1}, logger.Nop())
	w := postAnalysis(limitedRouter(rl, uuid.New()))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "rate limit check failed", w.Header().Get("X-RateLimit-Error"))
}

func TestRateLimiterWithRedis(t *testing.T) {
	client := testhelpers.SetupRedis(t)
	rl := NewAnalysisRateLimiter(client, 2, time.Minute, logger.Nop())
	require.NotNil(t, rl)

	userID := uuid.New()
	r := limitedRouter(rl, userID)

	w := postAnalysis(r)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "1", w.Header().Get("X-RateLimit-Remaining"))

	w = postAnalysis(r)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))

	w = postAnalysis(r)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))

	remaining, _, err := rl.Remaining(context.Background(), userID.String())
	require.NoError(t, err)
	assert.Equal(t, 0, remaining)

	// Another user has their own budget.
	w = postAnalysis(limitedRouter(rl, uuid.New()))
	assert.Equal(t, http.StatusOK, w.Code)

	remaining, _, err = rl.Remaining(context.Background(), uuid.NewString())
	require.NoError(t, err)
	assert.Equal(t, 2, remaining)
}
