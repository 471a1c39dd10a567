package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	gomponents "maragu.dev/gomponents"

	"altheia/internal/access"
	"altheia/internal/logger"
	"altheia/internal/models"
	"altheia/internal/session"
	"altheia/internal/views"
)

// RequireAuth admits any authenticated session, initialising the Store
// first. Anonymous visitors are sent to the login page.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		store := Store(c)
		if err := store.Initialize(c.Request.Context()); err != nil {
			c.AbortWithStatus(http.StatusServiceUnavailable)
			return
		}

		state := store.State()
		if !apply(c, access.Evaluate(state, nil, access.Authenticated)) {
			return
		}

		c.Set(CtxKeyCurrentUser, state.User)
		ctx := logger.SetUser(c.Request.Context(), state.User.ID, string(state.User.Role))
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// PublicOnly keeps signed-in visitors away from pages such as the login
// form. Only the persisted snapshot is consulted; no API call is made.
func PublicOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		_, persisted := session.Persisted(Storage(c))
		if !apply(c, access.EvaluatePublicOnly(persisted)) {
			return
		}
		c.Next()
	}
}

// RequireAccess gates the route on req. It must run after RequireAuth.
func RequireAccess(p access.Policy, req access.Requirement) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !apply(c, access.Evaluate(Store(c).State(), p, req)) {
			return
		}
		c.Next()
	}
}

func RequireRole(p access.Policy, roles ...models.UserRole) gin.HandlerFunc {
	return RequireAccess(p, access.Roles(roles...))
}

func RequirePermission(p access.Policy, keys ...string) gin.HandlerFunc {
	return RequireAccess(p, access.Permissions(keys...))
}

// RequireRoute checks the request path against the role's route prefixes.
func RequireRoute(p access.Policy) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !apply(c, access.Evaluate(Store(c).State(), p, access.Route(c.Request.URL.Path))) {
			return
		}
		c.Next()
	}
}

// apply turns a decision into a response. It reports whether the chain may
// continue.
func apply(c *gin.Context, d access.Decision) bool {
	switch d.Kind {
	case access.Allow:
		return true
	case access.Pending:
		abortHTML(c, http.StatusOK, views.Pending())
	case access.Redirect:
		Redirect(c, d.Target)
		c.Abort()
	default:
		abortHTML(c, http.StatusForbidden, views.Forbidden())
	}
	return false
}

// Redirect answers with a redirect that leaves no history entry for the
// current URL: 303 after a form post, 302 otherwise.
func Redirect(c *gin.Context, target string) {
	status := http.StatusFound
	if c.Request.Method == http.MethodPost {
		status = http.StatusSeeOther
	}
	c.Redirect(status, target)
}

func abortHTML(c *gin.Context, status int, node gomponents.Node) {
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(status)
	_ = node.Render(c.Writer)
	c.Abort()
}
