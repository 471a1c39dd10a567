package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"altheia/internal/access"
	"altheia/internal/apiclient"
	"altheia/internal/audit"
	"altheia/internal/middleware"
	"altheia/internal/session"
	"altheia/internal/views"
)

// Index sends visitors to the dashboard or the login page according to the
// persisted snapshot; the dashboard guard settles the rest.
func Index(c *gin.Context) {
	if _, ok := session.Persisted(middleware.Storage(c)); ok {
		c.Redirect(http.StatusFound, access.DashboardPath)
		return
	}
	c.Redirect(http.StatusFound, access.LoginPath)
}

func ShowLogin(c *gin.Context) {
	render(c, http.StatusOK, views.Login("", "", middleware.CSRFToken(c)))
}

type loginForm struct {
	Email    string `form:"email"`
	Password string `form:"password"`
}

func (h *Handler) Login(c *gin.Context) {
	var form loginForm
	if err := c.ShouldBind(&form); err != nil || strings.TrimSpace(form.Email) == "" || form.Password == "" {
		render(c, http.StatusBadRequest, views.Login("Enter your email and password.", form.Email, middleware.CSRFToken(c)))
		return
	}

	ctx := c.Request.Context()
	user, err := middleware.Store(c).Login(ctx, form.Email, form.Password)
	if err != nil {
		ev := audit.UserEvent(audit.ActionLoginFailed, nil, c.ClientIP(), err.Error())
		ev.Email = strings.TrimSpace(form.Email)
		h.audit.Record(ctx, ev)

		status := http.StatusUnauthorized
		if code := apiclient.StatusCode(err); code == 0 || code >= http.StatusInternalServerError {
			status = http.StatusBadGateway
		}
		render(c, status, views.Login(formError(err), form.Email, middleware.CSRFToken(c)))
		return
	}

	h.audit.Record(ctx, audit.UserEvent(audit.ActionLogin, user, c.ClientIP(), ""))

	target := h.policy.DashboardPath(user.Role)
	if target == "" {
		target = access.DashboardPath
	}
	middleware.Redirect(c, target)
}

// Logout always ends the local session, even when the API call fails.
func (h *Handler) Logout(c *gin.Context) {
	ctx := c.Request.Context()
	store := middleware.Store(c)
	if _, ok := session.Persisted(middleware.Storage(c)); ok {
		// Restores from the snapshot; no API call.
		if err := store.Initialize(ctx); err != nil {
			h.log.WarnContext(ctx, "restore session for logout", "error", err)
		}
	}
	user := store.User()

	if err := store.Logout(ctx); err != nil {
		h.log.WarnContext(ctx, "logout", "error", err)
	}
	if user != nil {
		h.audit.Record(ctx, audit.UserEvent(audit.ActionLogout, user, c.ClientIP(), ""))
	}

	middleware.Redirect(c, access.LoginPath)
}

type patientForm struct {
	Name        string `form:"name"`
	Email       string `form:"email"`
	Password    string `form:"password"`
	Phone       string `form:"phone"`
	DocumentID  string `form:"documentId"`
	DateOfBirth string `form:"dateOfBirth"`
	Gender      string `form:"gender"`
	Address     string `form:"address"`
}

func (f patientForm) echo() views.PatientForm {
	return views.PatientForm{
		Name:        f.Name,
		Email:       f.Email,
		Phone:       f.Phone,
		DocumentID:  f.DocumentID,
		DateOfBirth: f.DateOfBirth,
		Gender:      f.Gender,
		Address:     f.Address,
	}
}

func (f patientForm) registration() apiclient.PatientRegistration {
	return apiclient.PatientRegistration{
		Name:        strings.TrimSpace(f.Name),
		Email:       strings.TrimSpace(f.Email),
		Password:    f.Password,
		Phone:       strings.TrimSpace(f.Phone),
		DocumentID:  strings.TrimSpace(f.DocumentID),
		DateOfBirth: f.DateOfBirth,
		Gender:      f.Gender,
		Address:     strings.TrimSpace(f.Address),
	}
}

func (f patientForm) validate() string {
	switch {
	case strings.TrimSpace(f.Name) == "", strings.TrimSpace(f.Email) == "",
		strings.TrimSpace(f.Phone) == "", strings.TrimSpace(f.DocumentID) == "":
		return "Fill in all required fields."
	case len(f.Password) < 8:
		return "The password must be at least 8 characters long."
	}
	return ""
}

func ShowRegister(c *gin.Context) {
	render(c, http.StatusOK, views.Register("", views.PatientForm{}, middleware.CSRFToken(c)))
}

// Register is patient self-registration. It does not sign the patient in.
func (h *Handler) Register(c *gin.Context) {
	var form patientForm
	if err := c.ShouldBind(&form); err != nil {
		render(c, http.StatusBadRequest, views.Register("Invalid form data.", form.echo(), middleware.CSRFToken(c)))
		return
	}
	if msg := form.validate(); msg != "" {
		render(c, http.StatusBadRequest, views.Register(msg, form.echo(), middleware.CSRFToken(c)))
		return
	}

	ctx := c.Request.Context()
	if err := h.api.RegisterPatient(ctx, form.registration()); err != nil {
		h.log.InfoContext(ctx, "register patient", "error", err)
		render(c, http.StatusBadRequest, views.Register(formError(err), form.echo(), middleware.CSRFToken(c)))
		return
	}

	ev := audit.UserEvent(audit.ActionRegister, nil, c.ClientIP(), "self-registration")
	ev.Email = strings.TrimSpace(form.Email)
	h.audit.Record(ctx, ev)

	middleware.Redirect(c, access.LoginPath)
}
