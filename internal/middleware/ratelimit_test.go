package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newLimitedRouter(limiter gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(limiter)
	router.GET("/ping", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router
}

func get(router *gin.Engine, remoteAddr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.RemoteAddr = remoteAddr
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestServiceRateLimitMiddlewareCapsAggregateLoad(t *testing.T) {
	router := newLimitedRouter(ServiceRateLimitMiddleware(1, 3))

	// The burst admits the first three requests regardless of client.
	for i := 0; i < 3; i++ {
		w := get(router, "10.0.0.1:1234")
		assert.Equal(t, http.StatusOK, w.Code)
	}

	// The fourth is rejected even from a different client, the limiter
	// is shared across the whole service.
	w := get(router, "10.0.0.2:1234")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestRateLimitMiddlewareIsPerClient(t *testing.T) {
	router := newLimitedRouter(RateLimitMiddleware(RateLimiterConfig{
		RequestsPerSecond: 1,
		BurstSize:         2,
	}))

	for i := 0; i < 2; i++ {
		w := get(router, "10.0.0.1:1234")
		assert.Equal(t, http.StatusOK, w.Code)
	}
	w := get(router, "10.0.0.1:1234")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	// A different client gets its own bucket.
	w = get(router, "10.0.0.2:1234")
	assert.Equal(t, http.StatusOK, w.Code)
}
