package handlers

import (
	"github.com/gin-gonic/gin"
	gomponents "maragu.dev/gomponents"

	"altheia/internal/middleware"
	"altheia/internal/views"
)

// render writes node as the response body.
func render(c *gin.Context, status int, node gomponents.Node) {
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(status)
	if err := node.Render(c.Writer); err != nil {
		_ = c.Error(err)
	}
}

// chrome builds the application shell for the user admitted by
// middleware.RequireAuth.
func (h *Handler) chrome(c *gin.Context, title, active string) views.Chrome {
	ch := views.Chrome{Title: title, Active: active, CSRF: middleware.CSRFToken(c)}
	if u, ok := middleware.CurrentUser(c); ok {
		ch.User = u
		ch.RoleName = h.policy.RoleName(u.Role)
		ch.Nav = h.policy.VisibleNavigationItems(u.Role)
	}
	return ch
}
