// Package demo implements the read-only showcase mode: the library is
// seeded at startup and every write is refused.
package demo

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Message is shown to clients whose write was refused.
const Message = "This library is read-only in demo mode"

// CodeReadOnly is the machine-readable error code of a refused write.
const CodeReadOnly = "READ_ONLY"

// ContextKeyDemoMode holds the demo flag for template rendering.
const ContextKeyDemoMode = "demo_mode"

// Flasher stores a one-shot message for the next page render.
type Flasher interface {
	Flash(r *http.Request, msg string)
}

// Middleware blocks library writes in demo mode.
// Read-only operations (GET) are always allowed.
type Middleware struct {
	enabled bool
	flashes Flasher
}

// NewMiddleware creates a demo mode middleware. flashes may be nil.
func NewMiddleware(enabled bool, flashes Flasher) *Middleware {
	return &Middleware{enabled: enabled, flashes: flashes}
}

// IsEnabled returns whether demo mode is active.
func (m *Middleware) IsEnabled() bool {
	return m.enabled
}

// Handler returns a Gin middleware that blocks write operations.
func (m *Middleware) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !m.enabled {
			c.Next()
			return
		}

		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}

		if m.isAllowedPath(c.Request.URL.Path) {
			c.Next()
			return
		}

		m.respondBlocked(c)
	}
}

// isAllowedPath lists the non-GET paths that only touch the visitor's own
// session, never the library.
func (m *Middleware) isAllowedPath(path string) bool {
	allowedPaths := []string{
		"/theme/toggle",
	}

	for _, allowed := range allowedPaths {
		if path == allowed {
			return true
		}
	}
	return false
}

// respondBlocked answers API clients with a 403 and sends browser form
// posts back to the page with a flash message.
func (m *Middleware) respondBlocked(c *gin.Context) {
	path := c.Request.URL.Path
	accept := c.GetHeader("Accept")
	if strings.HasPrefix(path, "/api/") || strings.Contains(accept, "application/json") || m.flashes == nil {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"error":     Message,
			"code":      CodeReadOnly,
			"demo_mode": true,
		})
		return
	}

	m.flashes.Flash(c.Request, Message)
	c.Redirect(http.StatusSeeOther, "/")
	c.Abort()
}

// InjectContext adds the demo flag to the request context.
func (m *Middleware) InjectContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(ContextKeyDemoMode, m.enabled)
		c.Next()
	}
}

// IsDemo reports whether the request was served in demo mode.
func IsDemo(c *gin.Context) bool {
	return c.GetBool(ContextKeyDemoMode)
}
