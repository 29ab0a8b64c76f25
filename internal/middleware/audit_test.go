package middleware

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRouteInfo(t *testing.T) {
	tests := []struct {
		path, method   string
		module, action string
	}{
		{"/api/projects/:id/reviews", "POST", "Projects", "Create"},
		{"/api/profiles/:id", "PATCH", "Profiles", "Update"},
		{"/api/projects/:id", "PUT", "Projects", "Update"},
		{"/api/projects/:id", "DELETE", "Projects", "Delete"},
		{"/api/notifications/:id/read", "OPTIONS", "Notifications", "OPTIONS"},
		{"/api/system-logs", "POST", "System Logs", "Create"},
		{"", "POST", "Unknown", "Create"},
	}

	for _, tt := range tests {
		module, action := parseRouteInfo(tt.path, tt.method)
		assert.Equal(t, tt.module, module, tt.path)
		assert.Equal(t, tt.action, action, tt.path)
	}
}

func TestMaskSensitiveFields(t *testing.T) {
	body := `{"username":"ada","password": "hunter2","bio":"token talk"}`
	masked := maskSensitiveFields(body)

	assert.Equal(t, `{"username":"ada","password": "***","bio":"token talk"}`, masked)
	assert.Equal(t, `{"vote":"up"}`, maskSensitiveFields(`{"vote":"up"}`))
}

func TestFormatAuditMessage(t *testing.T) {
	assert.Equal(t, "[Audit] ada POST /api/projects -> OK", formatAuditMessage("ada", "POST", "/api/projects", 201))
	assert.Equal(t, "[Audit] ada DELETE /api/projects/3 -> Failed", formatAuditMessage("ada", "DELETE", "/api/projects/3", 403))
}
