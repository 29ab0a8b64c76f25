package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/huangang/codebook/backend/pkg/logger"
)

func TestRequestID(t *testing.T) {
	router := gin.New()
	router.Use(RequestID())
	router.GET("/id", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(logger.RequestIDKey))
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/id", nil)
	router.ServeHTTP(w, req)

	generated := w.Header().Get(RequestIDHeader)
	if len(generated) != 36 {
		t.Errorf("expected a generated uuid, got %q", generated)
	}
	if w.Body.String() != generated {
		t.Errorf("context id %q does not match header %q", w.Body.String(), generated)
	}

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/id", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	router.ServeHTTP(w, req)

	if got := w.Header().Get(RequestIDHeader); got != "abc-123" {
		t.Errorf("expected caller id to be propagated, got %q", got)
	}
}
