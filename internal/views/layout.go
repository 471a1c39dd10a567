// Package views renders the dashboard's HTML with gomponents. Views receive
// everything they show; they never look at the session themselves.
package views

import (
	"fmt"

	. "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"

	"altheia/internal/models"
)

const brand = "Altheia"

// Chrome is the per-request data the application shell needs.
type Chrome struct {
	Title    string
	Active   string // navigation item id
	User     *models.User
	RoleName string
	Nav      []models.NavigationItem
	CSRF     string
}

func head(title string, extra ...Node) Node {
	return Head(
		Meta(Charset("utf-8")),
		Meta(Name("viewport"), Content("width=device-width, initial-scale=1")),
		TitleEl(Text(title+" | "+brand)),
		Link(Rel("icon"), Href("data:,")),
		Link(Rel("stylesheet"), Href("https://cdn.jsdelivr.net/npm/@primer/css@22.1.0/dist/primer.min.css")),
		Script(Src("https://unpkg.com/lucide@latest/dist/umd/lucide.min.js")),
		Group(extra),
	)
}

func appPage(c Chrome, body ...Node) Node {
	nav := make([]Node, 0, len(c.Nav))
	for _, item := range c.Nav {
		className := "app-nav-link d-flex flex-items-center"
		if item.ID == c.Active {
			className += " active"
		}
		nav = append(nav, A(
			Href(item.Route),
			Class(className),
			I(Class("nav-icon"), Attr("data-lucide", item.Icon), Attr("aria-hidden", "true")),
			Span(Text(item.Label)),
			If(item.Badge != "", Span(Class("Counter ml-2"), Text(item.Badge))),
		))
	}

	userLabel := "unknown"
	if c.User != nil {
		userLabel = c.User.Name
		if userLabel == "" {
			userLabel = c.User.Email
		}
	}

	return HTML(
		Lang("en"),
		head(c.Title),
		Body(
			Main(Class("app-shell d-flex"),
				Aside(
					Class("app-sidebar p-3"),
					Div(Class("brand mb-3"), Strong(Text(brand))),
					Nav(Class("d-flex flex-column"), Group(nav)),
				),
				Div(
					Class("app-main flex-auto p-4"),
					Header(
						Class("d-flex flex-justify-between flex-items-center mb-4"),
						H1(Class("h2"), Text(c.Title)),
						Div(
							Class("d-flex flex-items-center"),
							Span(Class("mr-2"), Text(userLabel)),
							If(c.RoleName != "", Span(Class("Label mr-3"), Text(c.RoleName))),
							Form(Method("post"), Action("/logout"),
								csrfField(c.CSRF),
								Button(Type("submit"), Class("btn btn-sm"), Text("Sign out")),
							),
						),
					),
					Group(body),
				),
			),
			Script(Raw("lucide.createIcons();")),
		),
	)
}

// csrfField is the hidden form field checked by the CSRF middleware.
func csrfField(token string) Node {
	return Input(Type("hidden"), Name("csrf_token"), Value(token))
}

func bare(title string, body ...Node) Node {
	return HTML(
		Lang("en"),
		head(title),
		Body(Main(Class("container-sm p-6"), Group(body))),
	)
}

func errorFlash(msg string) Node {
	if msg == "" {
		return nil
	}
	return Div(Class("flash flash-error mb-3"), Text(msg))
}

func field(label, name, typ, value string, required bool) Node {
	return Div(
		Class("form-group"),
		Div(Class("form-group-header"), Label(For(name), Text(label))),
		Div(Class("form-group-body"),
			Input(
				Class("form-control"),
				ID(name), Name(name), Type(typ), Value(value),
				If(required, Required()),
			),
		),
	)
}

func emptyRow(cols int, msg string) Node {
	return Tr(Td(Attr("colspan", fmt.Sprint(cols)), Class("color-fg-muted"), Text(msg)))
}
