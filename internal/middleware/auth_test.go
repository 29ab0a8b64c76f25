package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/huangang/codebook/backend/internal/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
	utils.SetJWTSecret("test-secret-for-middleware-testing")
}

func whoamiRouter(mw ...gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.Use(mw...)
	router.GET("/whoami", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": GetUserID(c), "username": GetUsername(c)})
	})
	return router
}

func TestAuthRequired(t *testing.T) {
	valid, _ := utils.GenerateToken(1, "testuser", "user", 24)

	tests := []struct {
		name     string
		header   string
		expected int
	}{
		{"no header", "", http.StatusUnauthorized},
		{"no scheme", "InvalidToken", http.StatusUnauthorized},
		{"basic scheme", "Basic token123", http.StatusUnauthorized},
		{"empty bearer", "Bearer", http.StatusUnauthorized},
		{"bad token", "Bearer invalid.jwt.token", http.StatusUnauthorized},
		{"valid token", "Bearer " + valid, http.StatusOK},
	}

	router := whoamiRouter(AuthRequired())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req, _ := http.NewRequest("GET", "/whoami", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			router.ServeHTTP(w, req)

			if w.Code != tt.expected {
				t.Errorf("expected status %d, got %d", tt.expected, w.Code)
			}
		})
	}
}

func TestOptionalAuth(t *testing.T) {
	valid, _ := utils.GenerateToken(7, "ada", "user", 24)

	tests := []struct {
		name     string
		header   string
		expected string
	}{
		{"anonymous", "", `{"user_id":0,"username":""}`},
		{"bad token is ignored", "Bearer nope", `{"user_id":0,"username":""}`},
		{"valid token", "Bearer " + valid, `{"user_id":7,"username":"ada"}`},
	}

	router := whoamiRouter(OptionalAuth())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req, _ := http.NewRequest("GET", "/whoami", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			router.ServeHTTP(w, req)

			if w.Code != http.StatusOK {
				t.Fatalf("expected status 200, got %d", w.Code)
			}
			if w.Body.String() != tt.expected {
				t.Errorf("body = %s, expected %s", w.Body.String(), tt.expected)
			}
		})
	}
}

func TestAdminRequired(t *testing.T) {
	tests := []struct {
		name     string
		role     string
		expected int
	}{
		{"no role", "", http.StatusForbidden},
		{"user role", "user", http.StatusForbidden},
		{"admin role", "admin", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.Use(func(c *gin.Context) {
				if tt.role != "" {
					c.Set(ContextRole, tt.role)
				}
				c.Next()
			})
			router.Use(AdminRequired())
			router.GET("/admin", func(c *gin.Context) {
				c.Status(http.StatusOK)
			})

			w := httptest.NewRecorder()
			req, _ := http.NewRequest("GET", "/admin", nil)
			router.ServeHTTP(w, req)

			if w.Code != tt.expected {
				t.Errorf("expected status %d, got %d", tt.expected, w.Code)
			}
		})
	}
}

func TestPrincipalGetters(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	if GetUserID(c) != 0 || GetUsername(c) != "" || GetRole(c) != "" {
		t.Error("getters should return zero values without a principal")
	}

	c.Set(ContextUserID, uint(42))
	c.Set(ContextUsername, "testuser")
	c.Set(ContextRole, "admin")

	if id := GetUserID(c); id != 42 {
		t.Errorf("expected 42, got %d", id)
	}
	if name := GetUsername(c); name != "testuser" {
		t.Errorf("expected %q, got %q", "testuser", name)
	}
	if role := GetRole(c); role != "admin" {
		t.Errorf("expected %q, got %q", "admin", role)
	}
}
