package views

import (
	"strings"

	. "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"

	"altheia/internal/models"
)

func Clinic(c Chrome, clinic *models.Clinic) Node {
	row := func(label, value string) Node {
		return Div(Class("d-flex py-2 border-bottom"),
			Div(Class("col-3 text-bold"), Text(label)),
			Div(Class("col-9"), Text(value)),
		)
	}
	return appPage(c,
		Div(Class("Box p-3"),
			row("Name", clinic.Name),
			row("Address", clinic.Address),
			row("Phone", clinic.Phone),
			row("Email", clinic.Email),
			row("Hours", clinic.Hours),
			row("Services", strings.Join(clinic.Services, ", ")),
		),
	)
}

func Staff(c Chrome, list []models.StaffMember, roleName func(models.UserRole) string, canCreate bool) Node {
	rows := make([]Node, 0, len(list))
	for _, s := range list {
		label := roleName(s.Role)
		if label == "" {
			label = string(s.Role)
		}
		rows = append(rows, Tr(
			Td(Text(s.Name)),
			Td(Text(s.Email)),
			Td(Text(label)),
			Td(Text(s.Status)),
		))
	}
	return appPage(c,
		If(canCreate, Div(Class("mb-3"), A(Href("/staff/new"), Class("btn btn-primary"), Text("Add staff member")))),
		table([]string{"Name", "Email", "Role", "Status"}, rows, "No staff members."),
	)
}

type StaffForm struct {
	Role          string
	Name          string
	Email         string
	Phone         string
	DocumentID    string
	Specialty     string
	LicenseNumber string
}

// StaffRoles are the roles an owner can register from the dashboard.
var StaffRoles = []models.UserRole{models.RolePhysician, models.RoleReceptionist, models.RoleLabTechnician}

func NewStaff(c Chrome, errMsg string, f StaffForm, roleName func(models.UserRole) string) Node {
	opts := make([]Node, 0, len(StaffRoles))
	for _, r := range StaffRoles {
		opts = append(opts, option(string(r), roleName(r), f.Role))
	}
	return appPage(c,
		errorFlash(errMsg),
		Form(Method("post"), Action("/staff/new"),
			csrfField(c.CSRF),
			Div(Class("form-group"),
				Div(Class("form-group-header"), Label(For("role"), Text("Role"))),
				Div(Class("form-group-body"), Select(Class("form-select"), ID("role"), Name("role"), Group(opts))),
			),
			field("Full name", "name", "text", f.Name, true),
			field("Email", "email", "email", f.Email, true),
			field("Password", "password", "password", "", true),
			field("Phone", "phone", "tel", f.Phone, true),
			field("Document ID", "documentId", "text", f.DocumentID, true),
			field("Specialty", "specialty", "text", f.Specialty, false),
			field("License number", "licenseNumber", "text", f.LicenseNumber, false),
			Button(Type("submit"), Class("btn btn-primary mt-3"), Text("Register")),
		),
	)
}

func Profile(c Chrome, errMsg, notice string) Node {
	var name, email string
	if c.User != nil {
		name, email = c.User.Name, c.User.Email
	}
	return appPage(c,
		errorFlash(errMsg),
		If(notice != "", Div(Class("flash mb-3"), Text(notice))),
		Form(Method("post"), Action("/profile"),
			csrfField(c.CSRF),
			field("Full name", "name", "text", name, true),
			field("Email", "email", "email", email, true),
			field("Phone", "phone", "tel", "", false),
			Button(Type("submit"), Class("btn btn-primary mt-3"), Text("Save")),
		),
	)
}
