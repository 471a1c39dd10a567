package middleware

import (
	"log/slog"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"altheia/internal/models"
	"altheia/internal/session"
)

const (
	ctxKeyStore   = "SessionStore"
	ctxKeyStorage = "SessionStorage"
	// CtxKeyCurrentUser is set by RequireAuth for handlers and views.
	CtxKeyCurrentUser = "CurrentUser"
)

// InjectSession builds the request's Store over the browser's cookie
// session. It does not initialise the Store: public pages must not wait on
// the API, so RequireAuth initialises on demand.
func InjectSession(auth session.Authenticator, cookie sessions.Options, log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		storage := session.NewCookieStorage(sessions.Default(c), cookie)
		ctx := c.Request.Context()
		store := session.NewStore(auth, storage,
			session.WithLogger(log),
			session.WithObserver(func(s models.Session) {
				args := []any{"authenticated", s.User != nil, "loading", s.Loading}
				if s.User != nil {
					args = append(args, "user_id", s.User.ID, "role", string(s.User.Role))
				}
				log.DebugContext(ctx, "session changed", args...)
			}),
		)

		c.Set(ctxKeyStorage, storage)
		c.Set(ctxKeyStore, store)

		c.Next()
	}
}

// Store returns the request's session store. It panics when InjectSession
// is not installed, which is a wiring bug.
func Store(c *gin.Context) *session.Store {
	return c.MustGet(ctxKeyStore).(*session.Store)
}

func Storage(c *gin.Context) session.Storage {
	return c.MustGet(ctxKeyStorage).(session.Storage)
}

// CurrentUser returns the user admitted by RequireAuth, if any.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get(CtxKeyCurrentUser)
	if !ok {
		return nil, false
	}
	u, ok := v.(*models.User)
	return u, ok && u != nil
}
