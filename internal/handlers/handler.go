// Package handlers serves the dashboard pages. Handlers run behind the
// access middleware; they fetch what a page shows from the clinic API
// with the session's credentials and hand it to the views.
package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"altheia/internal/apiclient"
	"altheia/internal/audit"
	"altheia/internal/middleware"
	"altheia/internal/models"
	"altheia/internal/policy"
	"altheia/internal/views"
)

// API is the part of the clinic API client the pages use.
type API interface {
	RegisterPatient(ctx context.Context, req apiclient.PatientRegistration) error
	RegisterPhysician(ctx context.Context, req apiclient.PhysicianRegistration) error
	RegisterReceptionist(ctx context.Context, req apiclient.ReceptionistRegistration) error
	RegisterLabTechnician(ctx context.Context, req apiclient.LabTechnicianRegistration) error
	UpdateProfile(ctx context.Context, req apiclient.ProfileUpdate) (*models.User, error)

	Appointments(ctx context.Context) ([]models.Appointment, error)
	Patients(ctx context.Context) ([]models.Patient, error)
	Clinic(ctx context.Context) (*models.Clinic, error)
	Staff(ctx context.Context) ([]models.StaffMember, error)
	LabOrders(ctx context.Context) ([]models.LabOrder, error)
	MedicalRecords(ctx context.Context) ([]models.MedicalRecord, error)
}

type Handler struct {
	api    API
	policy *policy.Policy
	audit  *audit.Recorder
	log    *slog.Logger
}

func New(api API, p *policy.Policy, rec *audit.Recorder, log *slog.Logger) *Handler {
	return &Handler{api: api, policy: p, audit: rec, log: log}
}

// apiContext carries the session's access token to the API client.
func apiContext(c *gin.Context) context.Context {
	return middleware.Store(c).Context(c.Request.Context())
}

// fail answers a failed API call. A rejected token means the remote
// session is gone, so the local one is dropped too.
func (h *Handler) fail(c *gin.Context, op string, err error) {
	ctx := c.Request.Context()
	if errors.Is(err, apiclient.ErrUnauthorized) {
		if lerr := middleware.Store(c).Logout(ctx); lerr != nil {
			h.log.WarnContext(ctx, "drop expired session", "error", lerr)
		}
		middleware.Redirect(c, "/login")
		return
	}
	if errors.Is(err, apiclient.ErrForbidden) {
		render(c, http.StatusForbidden, views.Forbidden())
		return
	}

	h.log.ErrorContext(ctx, op, "error", err)
	render(c, http.StatusBadGateway, views.Error("Something went wrong", "The clinic service could not complete the request. Try again later."))
}

// formError turns an API error into a message for a form.
func formError(err error) string {
	var apiErr *apiclient.APIError
	switch {
	case errors.Is(err, apiclient.ErrUnauthorized):
		return "Invalid email or password."
	case errors.Is(err, apiclient.ErrConflict):
		return "An account with this email already exists."
	case errors.As(err, &apiErr) && apiErr.StatusCode < http.StatusInternalServerError && apiErr.Message != "":
		return apiErr.Message
	default:
		return "The clinic service is unavailable. Try again later."
	}
}

func (h *Handler) can(c *gin.Context, resource, action string) bool {
	u, ok := middleware.CurrentUser(c)
	return ok && h.policy.HasPermission(u.Role, resource, action)
}

func Health(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}
