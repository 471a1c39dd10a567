package views

import (
	"fmt"

	. "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"

	"altheia/internal/access"
	"altheia/internal/models"
)

func card(title, body, href, cta string) Node {
	return Div(Class("Box mb-3"),
		Div(Class("Box-header"), H2(Class("Box-title"), Text(title))),
		Div(Class("Box-body"),
			P(Text(body)),
			If(href != "", A(Href(href), Class("btn btn-sm"), Text(cta))),
		),
	)
}

// Dashboard shows each role the widgets it may use. Appointments may be
// nil when the caller could not or need not load them.
func Dashboard(c Chrome, state models.Session, p access.Policy, appointments []models.Appointment) Node {
	name := ""
	if state.User != nil {
		name = state.User.Name
	}

	upcoming := 0
	for _, a := range appointments {
		if a.Status == "scheduled" {
			upcoming++
		}
	}

	return appPage(c,
		P(Class("f3 mb-4"), Text(fmt.Sprintf("Welcome back, %s.", name))),
		access.Gate(state, p, access.Permissions("appointments:read"), nil,
			card("Appointments", fmt.Sprintf("%d upcoming appointments.", upcoming), "/appointments", "View appointments"),
		),
		access.Gate(state, p, access.OwnerOnly, nil,
			card("Clinic", "Manage your clinic's details and staff.", "/clinic", "Open clinic settings"),
			card("Staff", "Register physicians, receptionists and lab technicians.", "/staff/new", "Add staff member"),
		),
		access.Gate(state, p, access.ReceptionistOnly, nil,
			card("Front desk", "Register a walk-in patient.", "/patients/new", "New patient"),
		),
		access.Gate(state, p, access.MedicalStaff, nil,
			card("Laboratory", "Review pending lab orders.", "/lab", "Open lab queue"),
		),
		access.Gate(state, p, access.PatientOnly, nil,
			card("Your records", "See your diagnoses and lab results.", "/medical-records", "Open records"),
		),
	)
}
