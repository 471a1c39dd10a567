package server

import (
	"context"
	"crypto/sha256"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/hkdf"

	"altheia/internal/access"
	"altheia/internal/apiclient"
	"altheia/internal/audit"
	"altheia/internal/config"
	"altheia/internal/handlers"
	"altheia/internal/middleware"
	"altheia/internal/models"
	"altheia/internal/policy"
	"altheia/internal/session"
)

const (
	sessionCookie = "altheia_session"
	sessionMaxAge = 7 * 24 * 60 * 60

	throttleSweep   = 5 * time.Minute
	throttleMaxIdle = 10 * time.Minute
)

// Backend is everything the router needs from the clinic API.
type Backend interface {
	session.Authenticator
	handlers.API
}

// cookieKeys derives the cookie signing and encryption keys from the
// configured secret.
func cookieKeys(secret string) (hashKey, blockKey []byte, err error) {
	r := hkdf.New(sha256.New, []byte(secret), nil, []byte("altheia session cookie"))
	hashKey = make([]byte, 32)
	blockKey = make([]byte, 32)
	if _, err := io.ReadFull(r, hashKey); err != nil {
		return nil, nil, fmt.Errorf("derive cookie keys: %w", err)
	}
	if _, err := io.ReadFull(r, blockKey); err != nil {
		return nil, nil, fmt.Errorf("derive cookie keys: %w", err)
	}
	return hashKey, blockKey, nil
}

// NewRouter wires the dashboard. Background housekeeping stops when ctx
// ends.
func NewRouter(ctx context.Context, cfg *config.Config, api Backend, log *slog.Logger) (*gin.Engine, error) {
	p := policy.Default
	h := handlers.New(api, p, audit.NewRecorder(log), log)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(log))

	hashKey, blockKey, err := cookieKeys(cfg.SessionSecret)
	if err != nil {
		return nil, err
	}
	cookieOpts := sessions.Options{
		Path:     "/",
		MaxAge:   sessionMaxAge,
		Secure:   cfg.CookieSecure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	store := cookie.NewStore(hashKey, blockKey)
	store.Options(cookieOpts)
	r.Use(sessions.Sessions(sessionCookie, store))
	r.Use(middleware.InjectSession(api, cookieOpts, log))
	r.Use(middleware.EnsureCSRF(cfg.CookieSecure), middleware.RequireCSRF())

	r.GET("/health", handlers.Health)
	r.GET("/", handlers.Index)

	throttle := middleware.NewThrottle(cfg.LoginRate, cfg.LoginBurst)
	go func() {
		ticker := time.NewTicker(throttleSweep)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				throttle.Sweep(throttleMaxIdle)
			}
		}
	}()

	public := r.Group("/", middleware.PublicOnly())
	public.GET("/login", handlers.ShowLogin)
	public.POST("/login", throttle.Middleware(), h.Login)
	public.GET("/register", handlers.ShowRegister)
	public.POST("/register", throttle.Middleware(), h.Register)

	// Logout must work for any session state, including a stale one.
	r.POST("/logout", h.Logout)

	auth := r.Group("/", middleware.RequireAuth(), middleware.RequireRoute(p))
	auth.GET("/dashboard", h.Dashboard)
	auth.GET("/profile", middleware.RequirePermission(p, "profile:read"), h.ShowProfile)
	auth.POST("/profile", middleware.RequirePermission(p, "profile:update"), h.UpdateProfile)

	auth.GET("/appointments", middleware.RequirePermission(p, "appointments:read"), h.Appointments)

	auth.GET("/patients", middleware.RequireAccess(p, access.StaffOnly), h.Patients)
	auth.GET("/patients/new", middleware.RequireRole(p, models.RoleReceptionist), h.ShowNewPatient)
	auth.POST("/patients/new", middleware.RequireRole(p, models.RoleReceptionist), h.NewPatient)

	auth.GET("/medical-records", middleware.RequirePermission(p, "medical_records:read"), h.MedicalRecords)
	auth.GET("/lab", middleware.RequireAccess(p, access.MedicalStaff), h.LabOrders)

	owner := auth.Group("/", middleware.RequireAccess(p, access.OwnerOnly))
	owner.GET("/clinic", h.Clinic)
	owner.GET("/staff", h.Staff)
	owner.GET("/staff/new", h.ShowNewStaff)
	owner.POST("/staff/new", h.NewStaff)

	return r, nil
}

// compile-time check that the HTTP client serves the router.
var _ Backend = (*apiclient.Client)(nil)
