package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"taskvault/internal/middleware"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

func setupRateLimitedRouter(r rate.Limit, burst int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.RateLimiter(r, burst))
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	return router
}

func TestRateLimiterAllowsWithinBurst(t *testing.T) {
	router := setupRateLimitedRouter(rate.Limit(1), 3)

	for i := 0; i < 3; i++ {
		req, _ := http.NewRequest("GET", "/ping", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("Request %d expected status %d, got %d", i, http.StatusOK, w.Code)
		}
	}
}

func TestRateLimiterRejectsBeyondBurst(t *testing.T) {
	router := setupRateLimitedRouter(rate.Limit(0.001), 1)

	req, _ := http.NewRequest("GET", "/ping", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("First request expected status %d, got %d", http.StatusOK, w.Code)
	}

	req, _ = http.NewRequest("GET", "/ping", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusTooManyRequests {
		t.Errorf("Second request expected status %d, got %d", http.StatusTooManyRequests, w.Code)
	}
}
