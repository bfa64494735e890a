package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"taskvault/internal/middleware"

	"github.com/gin-gonic/gin"
)

func TestRecoveryWithLog(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(middleware.RecoveryWithLog())
	router.GET("/panic", func(c *gin.Context) {
		panic("boom")
	})

	req, _ := http.NewRequest("GET", "/panic", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("Expected status %d, got %d", http.StatusInternalServerError, w.Code)
	}
	if strings.Contains(w.Body.String(), "boom") {
		t.Error("Panic detail must not reach the client")
	}
}
