package middleware

import (
	"context"
	"log/slog"

	"github.com/gin-gonic/gin"
)

// principalKey stores the authenticated caller's identity.
const principalKey = contextKey("principal")

// setPrincipal records the caller in both the gin and request contexts
// and re-scopes the request logger to it.
func setPrincipal(c *gin.Context, principal string) {
	c.Set(string(principalKey), principal)

	ctx := context.WithValue(c.Request.Context(), principalKey, principal)
	logger := GetLoggerFromCtx(ctx).With(slog.String("principal", principal))
	c.Set(string(loggerKey), logger)
	c.Request = c.Request.WithContext(WithLogger(ctx, logger))
}

// GetPrincipalFromContext retrieves the authenticated caller from the Gin context.
func GetPrincipalFromContext(c *gin.Context) (string, bool) {
	if v, exists := c.Get(string(principalKey)); exists {
		principal, ok := v.(string)
		return principal, ok
	}
	return GetPrincipalFromCtx(c.Request.Context())
}

// GetPrincipalFromCtx retrieves the authenticated caller from a standard context.
func GetPrincipalFromCtx(ctx context.Context) (string, bool) {
	principal, ok := ctx.Value(principalKey).(string)
	return principal, ok && principal != ""
}
