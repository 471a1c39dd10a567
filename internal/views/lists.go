package views

import (
	. "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"

	"altheia/internal/models"
)

const dateLayout = "2006-01-02 15:04"

func table(headers []string, rows []Node, empty string) Node {
	ths := make([]Node, 0, len(headers))
	for _, h := range headers {
		ths = append(ths, Th(Text(h)))
	}
	if len(rows) == 0 {
		rows = []Node{emptyRow(len(headers), empty)}
	}
	return Table(Class("width-full"),
		THead(Tr(Group(ths))),
		TBody(Group(rows)),
	)
}

func Appointments(c Chrome, list []models.Appointment) Node {
	rows := make([]Node, 0, len(list))
	for _, a := range list {
		rows = append(rows, Tr(
			Td(Text(a.Date.Format(dateLayout))),
			Td(Text(a.PatientName)),
			Td(Text(a.Physician)),
			Td(Text(a.Reason)),
			Td(Span(Class("Label"), Text(a.Status))),
		))
	}
	return appPage(c, table([]string{"Date", "Patient", "Physician", "Reason", "Status"}, rows, "No appointments."))
}

// Patients lists patient records. Document IDs and contact details are
// masked unless showContact is set.
func Patients(c Chrome, list []models.Patient, showContact, canCreate bool) Node {
	rows := make([]Node, 0, len(list))
	for _, p := range list {
		if !showContact {
			p = redactPatient(p)
		}
		rows = append(rows, Tr(
			Td(Text(p.Name)),
			Td(Text(p.DocumentID)),
			Td(Text(p.Email)),
			Td(Text(p.Phone)),
			Td(Text(p.DateOfBirth)),
		))
	}
	return appPage(c,
		If(canCreate, Div(Class("mb-3"), A(Href("/patients/new"), Class("btn btn-primary"), Text("New patient")))),
		table([]string{"Name", "Document", "Email", "Phone", "Date of birth"}, rows, "No patients."),
	)
}

func NewPatient(c Chrome, errMsg string, f PatientForm) Node {
	return appPage(c,
		errorFlash(errMsg),
		Form(Method("post"), Action("/patients/new"),
			csrfField(c.CSRF),
			patientFields(f),
			Button(Type("submit"), Class("btn btn-primary mt-3"), Text("Register patient")),
		),
	)
}

func LabOrders(c Chrome, list []models.LabOrder) Node {
	rows := make([]Node, 0, len(list))
	for _, o := range list {
		rows = append(rows, Tr(
			Td(Text(o.CreatedAt.Format(dateLayout))),
			Td(Text(o.PatientName)),
			Td(Text(o.Test)),
			Td(Text(o.OrderedBy)),
			Td(Span(Class("Label"), Text(o.Status))),
		))
	}
	return appPage(c, table([]string{"Ordered", "Patient", "Test", "Ordered by", "Status"}, rows, "No lab orders."))
}

func MedicalRecords(c Chrome, list []models.MedicalRecord) Node {
	rows := make([]Node, 0, len(list))
	for _, r := range list {
		rows = append(rows, Tr(
			Td(Text(r.CreatedAt.Format(dateLayout))),
			Td(Text(r.PatientName)),
			Td(Text(r.Physician)),
			Td(Text(r.Diagnosis)),
		))
	}
	return appPage(c, table([]string{"Date", "Patient", "Physician", "Diagnosis"}, rows, "No records."))
}
