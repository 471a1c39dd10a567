// Package access decides what a guarded page may show. Every decision is a
// pure function of the session state, the role policy and a requirement;
// the gin middleware and view helpers only translate decisions into
// responses.
//
// This layer hides UI. The clinic API enforces authorization on its own.
package access

import (
	"altheia/internal/models"
)

const (
	LoginPath     = "/login"
	DashboardPath = "/dashboard"
)

type Kind int

const (
	// Deny renders the gate's fallback.
	Deny Kind = iota
	Allow
	// Pending means the session is still resolving; show a spinner.
	Pending
	Redirect
)

func (k Kind) String() string {
	switch k {
	case Allow:
		return "allow"
	case Pending:
		return "pending"
	case Redirect:
		return "redirect"
	default:
		return "deny"
	}
}

type Decision struct {
	Kind   Kind
	Target string // set for Redirect
}

func (d Decision) Allowed() bool { return d.Kind == Allow }

// Policy is the part of the role table the guards consult.
type Policy interface {
	HasAll(role models.UserRole, keys []string) bool
	CanAccessRoute(role models.UserRole, route string) bool
}

type Mode int

const (
	// Protected requires any authenticated session.
	Protected Mode = iota
	// RoleGated requires a session whose role and permissions match.
	RoleGated
)

// Requirement describes one gate. Empty Roles or Permissions impose no
// constraint of that kind.
type Requirement struct {
	Mode        Mode
	Roles       []models.UserRole
	Permissions []string // "resource:action"
	Route       string   // when set, the role must be able to reach it
}

// Evaluate applies req to the session state.
func Evaluate(state models.Session, policy Policy, req Requirement) Decision {
	if state.Loading {
		return Decision{Kind: Pending}
	}

	if state.User == nil {
		if req.Mode == Protected {
			return Decision{Kind: Redirect, Target: LoginPath}
		}
		return Decision{Kind: Deny}
	}

	if req.Mode == Protected {
		return Decision{Kind: Allow}
	}

	role := state.User.Role
	if !role.Valid() {
		return Decision{Kind: Deny}
	}

	if len(req.Roles) > 0 && !containsRole(req.Roles, role) {
		return Decision{Kind: Deny}
	}
	if len(req.Permissions) > 0 && !policy.HasAll(role, req.Permissions) {
		return Decision{Kind: Deny}
	}
	if req.Route != "" && !policy.CanAccessRoute(role, req.Route) {
		return Decision{Kind: Deny}
	}

	return Decision{Kind: Allow}
}

// EvaluatePublicOnly gates pages that only anonymous visitors should see,
// such as the login form. It trusts the persisted snapshot alone and never
// consults the API, so it may briefly disagree with the server.
func EvaluatePublicOnly(persisted bool) Decision {
	if persisted {
		return Decision{Kind: Redirect, Target: DashboardPath}
	}
	return Decision{Kind: Allow}
}

func containsRole(roles []models.UserRole, role models.UserRole) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}

func Roles(roles ...models.UserRole) Requirement {
	return Requirement{Mode: RoleGated, Roles: roles}
}

func Permissions(keys ...string) Requirement {
	return Requirement{Mode: RoleGated, Permissions: keys}
}

func Route(route string) Requirement {
	return Requirement{Mode: RoleGated, Route: route}
}

var (
	Authenticated     = Requirement{Mode: Protected}
	OwnerOnly         = Roles(models.RoleOwner)
	PhysicianOnly     = Roles(models.RolePhysician)
	LabTechnicianOnly = Roles(models.RoleLabTechnician)
	ReceptionistOnly  = Roles(models.RoleReceptionist)
	PatientOnly       = Roles(models.RolePatient)
	StaffOnly         = Roles(models.RoleOwner, models.RolePhysician, models.RoleLabTechnician, models.RoleReceptionist)
	MedicalStaff      = Roles(models.RolePhysician, models.RoleLabTechnician)
)
