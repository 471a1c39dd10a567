package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"altheia/internal/apiclient"
	"altheia/internal/audit"
	"altheia/internal/middleware"
	"altheia/internal/models"
	"altheia/internal/views"
)

func (h *Handler) Clinic(c *gin.Context) {
	clinic, err := h.api.Clinic(apiContext(c))
	if err != nil {
		h.fail(c, "get clinic", err)
		return
	}
	render(c, http.StatusOK, views.Clinic(h.chrome(c, "Clinic", "clinic"), clinic))
}

func (h *Handler) Staff(c *gin.Context) {
	list, err := h.api.Staff(apiContext(c))
	if err != nil {
		h.fail(c, "list staff", err)
		return
	}
	render(c, http.StatusOK, views.Staff(h.chrome(c, "Staff", "staff"), list, h.policy.RoleName, h.can(c, "staff", "create")))
}

func (h *Handler) ShowNewStaff(c *gin.Context) {
	render(c, http.StatusOK, views.NewStaff(h.chrome(c, "Add staff member", "staff"), "", views.StaffForm{}, h.policy.RoleName))
}

type staffForm struct {
	Role          string `form:"role"`
	Name          string `form:"name"`
	Email         string `form:"email"`
	Password      string `form:"password"`
	Phone         string `form:"phone"`
	DocumentID    string `form:"documentId"`
	Specialty     string `form:"specialty"`
	LicenseNumber string `form:"licenseNumber"`
}

func (f staffForm) echo() views.StaffForm {
	return views.StaffForm{
		Role:          f.Role,
		Name:          f.Name,
		Email:         f.Email,
		Phone:         f.Phone,
		DocumentID:    f.DocumentID,
		Specialty:     f.Specialty,
		LicenseNumber: f.LicenseNumber,
	}
}

func (f staffForm) validate() string {
	role := models.UserRole(f.Role)
	switch {
	case role != models.RolePhysician && role != models.RoleReceptionist && role != models.RoleLabTechnician:
		return "Choose a staff role."
	case strings.TrimSpace(f.Name) == "", strings.TrimSpace(f.Email) == "",
		strings.TrimSpace(f.Phone) == "", strings.TrimSpace(f.DocumentID) == "":
		return "Fill in all required fields."
	case len(f.Password) < 8:
		return "The password must be at least 8 characters long."
	case role != models.RoleReceptionist && (strings.TrimSpace(f.Specialty) == "" || strings.TrimSpace(f.LicenseNumber) == ""):
		return "Specialty and license number are required for this role."
	}
	return ""
}

// NewStaff lets the clinic owner register physicians, receptionists and
// lab technicians. Each role has its own registration endpoint.
func (h *Handler) NewStaff(c *gin.Context) {
	ch := h.chrome(c, "Add staff member", "staff")

	var form staffForm
	if err := c.ShouldBind(&form); err != nil {
		render(c, http.StatusBadRequest, views.NewStaff(ch, "Invalid form data.", form.echo(), h.policy.RoleName))
		return
	}
	if msg := form.validate(); msg != "" {
		render(c, http.StatusBadRequest, views.NewStaff(ch, msg, form.echo(), h.policy.RoleName))
		return
	}

	ctx := apiContext(c)
	name, email, phone, doc := strings.TrimSpace(form.Name), strings.TrimSpace(form.Email), strings.TrimSpace(form.Phone), strings.TrimSpace(form.DocumentID)

	var err error
	switch models.UserRole(form.Role) {
	case models.RolePhysician:
		err = h.api.RegisterPhysician(ctx, apiclient.PhysicianRegistration{
			Name: name, Email: email, Password: form.Password, Phone: phone, DocumentID: doc,
			Specialty: strings.TrimSpace(form.Specialty), LicenseNumber: strings.TrimSpace(form.LicenseNumber),
		})
	case models.RoleLabTechnician:
		err = h.api.RegisterLabTechnician(ctx, apiclient.LabTechnicianRegistration{
			Name: name, Email: email, Password: form.Password, Phone: phone, DocumentID: doc,
			Specialty: strings.TrimSpace(form.Specialty), LicenseNumber: strings.TrimSpace(form.LicenseNumber),
		})
	case models.RoleReceptionist:
		err = h.api.RegisterReceptionist(ctx, apiclient.ReceptionistRegistration{
			Name: name, Email: email, Password: form.Password, Phone: phone, DocumentID: doc,
		})
	}
	if err != nil {
		render(c, http.StatusBadRequest, views.NewStaff(ch, formError(err), form.echo(), h.policy.RoleName))
		return
	}

	h.audit.Record(c.Request.Context(), audit.UserEvent(audit.ActionRegister, ch.User, c.ClientIP(), form.Role+" "+email))

	middleware.Redirect(c, "/staff")
}
