package views

import (
	. "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"
)

func Login(errMsg, email, csrf string) Node {
	return bare("Sign in",
		H1(Class("h2 mb-3"), Text(brand)),
		P(Class("color-fg-muted mb-3"), Text("Sign in to your clinic dashboard.")),
		errorFlash(errMsg),
		Form(
			Method("post"), Action("/login"),
			csrfField(csrf),
			field("Email", "email", "email", email, true),
			field("Password", "password", "password", "", true),
			Button(Type("submit"), Class("btn btn-primary btn-block mt-3"), Text("Sign in")),
		),
		P(Class("mt-3"),
			Text("New patient? "),
			A(Href("/register"), Text("Create an account")),
		),
	)
}

// PatientForm holds the values echoed back into a registration form.
type PatientForm struct {
	Name        string
	Email       string
	Phone       string
	DocumentID  string
	DateOfBirth string
	Gender      string
	Address     string
}

func patientFields(f PatientForm) Node {
	return Group([]Node{
		field("Full name", "name", "text", f.Name, true),
		field("Email", "email", "email", f.Email, true),
		field("Password", "password", "password", "", true),
		field("Phone", "phone", "tel", f.Phone, true),
		field("Document ID", "documentId", "text", f.DocumentID, true),
		field("Date of birth", "dateOfBirth", "date", f.DateOfBirth, false),
		Div(
			Class("form-group"),
			Div(Class("form-group-header"), Label(For("gender"), Text("Gender"))),
			Div(Class("form-group-body"),
				Select(Class("form-select"), ID("gender"), Name("gender"),
					option("", "Prefer not to say", f.Gender),
					option("female", "Female", f.Gender),
					option("male", "Male", f.Gender),
					option("other", "Other", f.Gender),
				),
			),
		),
		field("Address", "address", "text", f.Address, false),
	})
}

func option(value, label, selected string) Node {
	return Option(Value(value), If(value == selected, Selected()), Text(label))
}

// Register is the public patient self-registration page.
func Register(errMsg string, f PatientForm, csrf string) Node {
	return bare("Create account",
		H1(Class("h2 mb-3"), Text("Create your patient account")),
		errorFlash(errMsg),
		Form(
			Method("post"), Action("/register"),
			csrfField(csrf),
			patientFields(f),
			Button(Type("submit"), Class("btn btn-primary btn-block mt-3"), Text("Create account")),
		),
		P(Class("mt-3"),
			Text("Already registered? "),
			A(Href("/login"), Text("Sign in")),
		),
	)
}

// Pending is shown while a session is still resolving; it polls by
// reloading itself.
func Pending() Node {
	return HTML(
		Lang("en"),
		head("Loading", Meta(Attr("http-equiv", "refresh"), Content("1"))),
		Body(Main(Class("container-sm p-6 text-center"),
			Span(Class("anim-rotate"), I(Attr("data-lucide", "loader-circle"))),
			P(Class("mt-2 color-fg-muted"), Text("Loading…")),
		)),
	)
}

func Forbidden() Node {
	return bare("Access denied",
		H1(Class("h2"), Text("Access denied")),
		P(Text("Your role does not have access to this page.")),
		A(Href("/dashboard"), Class("btn mt-3"), Text("Back to dashboard")),
	)
}

func Error(title, msg string) Node {
	return bare(title,
		H1(Class("h2"), Text(title)),
		P(Text(msg)),
		A(Href("/dashboard"), Class("btn mt-3"), Text("Back to dashboard")),
	)
}
