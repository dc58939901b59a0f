package middleware

import (
	"net/http"
	"strings"

	"github.com/SscSPs/ledger_engine/internal/utils"
	"github.com/gin-gonic/gin"
)

// untrackedPaths are never reported to PostHog.
var untrackedPaths = map[string]bool{
	"/health": true,
}

// PosthogMiddleware reports successful API calls to PostHog as "ledger_<route>" events.
// Calls are attributed to the authenticated principal, or the client IP when auth is off.
func PosthogMiddleware(posthogClient *utils.PosthogClientWrapper) gin.HandlerFunc {
	return func(c *gin.Context) {
		if posthogClient == nil || !posthogClient.IsInitialized() || untrackedPaths[c.Request.URL.Path] {
			c.Next()
			return
		}

		c.Next()

		if len(c.Errors) > 0 || c.Writer.Status() >= http.StatusBadRequest {
			return
		}

		eventName := routeEventName(c.FullPath())
		if eventName == "" {
			return
		}

		props := map[string]any{
			"method":      c.Request.Method,
			"route":       c.FullPath(),
			"status_code": c.Writer.Status(),
		}
		// Only route identifiers are reported; amounts and descriptions stay in the ledger.
		if len(c.Params) > 0 {
			params := make(map[string]string, len(c.Params))
			for _, param := range c.Params {
				params[param.Key] = param.Value
			}
			props["params"] = params
		}

		posthogClient.Enqueue(distinctID(c), eventName, props)
	}
}

// routeEventName turns "/api/v1/journals/:journalID/reverse" into "ledger_journals_reverse".
func routeEventName(fullPath string) string {
	if fullPath == "" {
		return ""
	}
	parts := []string{"ledger"}
	for _, seg := range strings.Split(strings.Trim(fullPath, "/"), "/") {
		if seg == "" || seg == "api" || (len(seg) == 2 && seg[0] == 'v') || strings.HasPrefix(seg, ":") || strings.HasPrefix(seg, "*") {
			continue
		}
		parts = append(parts, seg)
	}
	return strings.Join(parts, "_")
}

func distinctID(c *gin.Context) string {
	if principal, ok := GetPrincipalFromContext(c); ok {
		return principal
	}
	return "ip:" + c.ClientIP()
}
