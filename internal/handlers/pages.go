package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"altheia/internal/access"
	"altheia/internal/apiclient"
	"altheia/internal/audit"
	"altheia/internal/middleware"
	"altheia/internal/models"
	"altheia/internal/views"
)

func (h *Handler) Dashboard(c *gin.Context) {
	state := middleware.Store(c).State()

	// A failed fetch still renders the page, without the count. An expired
	// token does not.
	list, err := h.appointmentsIfAllowed(c)
	if errors.Is(err, apiclient.ErrUnauthorized) {
		h.fail(c, "dashboard appointments", err)
		return
	}
	if err != nil {
		h.log.WarnContext(c.Request.Context(), "dashboard appointments", "error", err)
	}

	render(c, http.StatusOK, views.Dashboard(h.chrome(c, "Overview", "dashboard"), state, h.policy, list))
}

func (h *Handler) Appointments(c *gin.Context) {
	list, err := h.api.Appointments(apiContext(c))
	if err != nil {
		h.fail(c, "list appointments", err)
		return
	}
	render(c, http.StatusOK, views.Appointments(h.chrome(c, "Appointments", "appointments"), list))
}

// Patients lists patients. Contact details are shown in clear only to
// roles that may edit patient records.
func (h *Handler) Patients(c *gin.Context) {
	list, err := h.api.Patients(apiContext(c))
	if err != nil {
		h.fail(c, "list patients", err)
		return
	}
	render(c, http.StatusOK, views.Patients(
		h.chrome(c, "Patients", "patients"),
		list,
		h.can(c, "patients", "update"),
		h.can(c, "patients", "create"),
	))
}

func (h *Handler) ShowNewPatient(c *gin.Context) {
	render(c, http.StatusOK, views.NewPatient(h.chrome(c, "New patient", "register-patient"), "", views.PatientForm{}))
}

// NewPatient registers a walk-in patient from the front desk.
func (h *Handler) NewPatient(c *gin.Context) {
	ch := h.chrome(c, "New patient", "register-patient")

	var form patientForm
	if err := c.ShouldBind(&form); err != nil {
		render(c, http.StatusBadRequest, views.NewPatient(ch, "Invalid form data.", form.echo()))
		return
	}
	if msg := form.validate(); msg != "" {
		render(c, http.StatusBadRequest, views.NewPatient(ch, msg, form.echo()))
		return
	}

	if err := h.api.RegisterPatient(apiContext(c), form.registration()); err != nil {
		render(c, http.StatusBadRequest, views.NewPatient(ch, formError(err), form.echo()))
		return
	}

	ev := audit.UserEvent(audit.ActionRegister, ch.User, c.ClientIP(), "patient "+strings.TrimSpace(form.Email))
	h.audit.Record(c.Request.Context(), ev)

	middleware.Redirect(c, "/patients")
}

func (h *Handler) LabOrders(c *gin.Context) {
	list, err := h.api.LabOrders(apiContext(c))
	if err != nil {
		h.fail(c, "list lab orders", err)
		return
	}
	render(c, http.StatusOK, views.LabOrders(h.chrome(c, "Lab orders", "lab"), list))
}

func (h *Handler) MedicalRecords(c *gin.Context) {
	list, err := h.api.MedicalRecords(apiContext(c))
	if err != nil {
		h.fail(c, "list medical records", err)
		return
	}
	render(c, http.StatusOK, views.MedicalRecords(h.chrome(c, "Medical records", "medical-records"), list))
}

func (h *Handler) appointmentsIfAllowed(c *gin.Context) ([]models.Appointment, error) {
	state := middleware.Store(c).State()
	if !access.Evaluate(state, h.policy, access.Permissions("appointments:read")).Allowed() {
		return nil, nil
	}
	return h.api.Appointments(apiContext(c))
}
