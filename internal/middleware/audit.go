package middleware

import (
	"bytes"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/huangang/codebook/backend/internal/services"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const auditBodyLimit = 2000

var sensitiveKeys = []string{"password", "secret", "token", "access_token"}

// AuditLog records authenticated write requests to system_logs once the
// handler has run. Anonymous requests and reads are not audited.
func AuditLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		method := c.Request.Method
		if _, ok := auditActions[method]; !ok {
			c.Next()
			return
		}

		var bodySnippet string
		if c.Request.Body != nil {
			bodyBytes, _ := io.ReadAll(c.Request.Body)
			c.Request.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))
			bodySnippet = string(bodyBytes)
			if len(bodySnippet) > auditBodyLimit {
				bodySnippet = bodySnippet[:auditBodyLimit] + "...[truncated]"
			}
			bodySnippet = maskSensitiveFields(bodySnippet)
		}

		c.Next()

		userID := GetUserID(c)
		if userID == 0 {
			return
		}
		status := c.Writer.Status()
		module, action := parseRouteInfo(c.FullPath(), method)

		services.LogInfo(module, action, formatAuditMessage(GetUsername(c), method, c.Request.URL.Path, status),
			&userID, c.ClientIP(), c.Request.UserAgent(), map[string]interface{}{
				"method":     method,
				"path":       c.Request.URL.Path,
				"status":     status,
				"body":       bodySnippet,
				"request_id": c.Writer.Header().Get(RequestIDHeader),
				"audit":      true,
			})
	}
}

var auditActions = map[string]string{
	http.MethodPost:   "Create",
	http.MethodPut:    "Update",
	http.MethodPatch:  "Update",
	http.MethodDelete: "Delete",
}

// parseRouteInfo maps a gin route pattern to a module and action,
// e.g. "/api/projects/:id/reviews" + "POST" gives ("Projects", "Create").
func parseRouteInfo(fullPath, method string) (module, action string) {
	path := strings.TrimPrefix(fullPath, "/api/")
	module, _, _ = strings.Cut(path, "/")
	if module == "" {
		module = "unknown"
	}
	module = cases.Title(language.Und).String(strings.ReplaceAll(module, "-", " "))

	action, ok := auditActions[method]
	if !ok {
		action = method
	}
	return module, action
}

func formatAuditMessage(username, method, path string, status int) string {
	outcome := "Failed"
	if status >= 200 && status < 300 {
		outcome = "OK"
	}
	return "[Audit] " + username + " " + method + " " + path + " -> " + outcome
}

func maskSensitiveFields(body string) string {
	for _, key := range sensitiveKeys {
		body = maskJSONValue(body, key)
	}
	return body
}

// maskJSONValue is a best-effort mask of the string value following "key".
func maskJSONValue(body, key string) string {
	idx := strings.Index(strings.ToLower(body), "\""+key+"\"")
	if idx == -1 {
		return body
	}

	rest := idx + len(key) + 2
	colonIdx := strings.Index(body[rest:], ":")
	if colonIdx == -1 {
		return body
	}
	valueStart := rest + colonIdx + 1
	for valueStart < len(body) && (body[valueStart] == ' ' || body[valueStart] == '\t') {
		valueStart++
	}
	if valueStart >= len(body) || body[valueStart] != '"' {
		return body
	}

	endQuote := strings.Index(body[valueStart+1:], "\"")
	if endQuote == -1 {
		return body
	}
	return body[:valueStart+1] + "***" + body[valueStart+1+endQuote:]
}
