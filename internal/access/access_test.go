package access

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomponents "maragu.dev/gomponents"
	html "maragu.dev/gomponents/html"

	"altheia/internal/models"
	"altheia/internal/policy"
)

func sessionOf(role models.UserRole) models.Session {
	return models.Session{User: &models.User{ID: "1", Name: "N", Email: "n@x.io", Role: role}}
}

func TestEvaluate_Protected(t *testing.T) {
	p := policy.Default

	assert.Equal(t, Decision{Kind: Pending}, Evaluate(models.Session{Loading: true}, p, Authenticated))
	assert.Equal(t, Decision{Kind: Redirect, Target: LoginPath}, Evaluate(models.Session{}, p, Authenticated))
	assert.Equal(t, Decision{Kind: Allow}, Evaluate(sessionOf(models.RolePatient), p, Authenticated))
}

func TestEvaluate_RolePresets(t *testing.T) {
	p := policy.Default
	patient := sessionOf(models.RolePatient)

	assert.Equal(t, Deny, Evaluate(patient, p, OwnerOnly).Kind)
	assert.Equal(t, Allow, Evaluate(patient, p, PatientOnly).Kind)
	assert.Equal(t, Deny, Evaluate(patient, p, StaffOnly).Kind)

	assert.Equal(t, Allow, Evaluate(sessionOf(models.RoleLabTechnician), p, MedicalStaff).Kind)
	assert.Equal(t, Deny, Evaluate(sessionOf(models.RoleReceptionist), p, MedicalStaff).Kind)
	assert.Equal(t, Allow, Evaluate(sessionOf(models.RoleReceptionist), p, StaffOnly).Kind)
}

func TestEvaluate_RoleGatedWithoutSession(t *testing.T) {
	assert.Equal(t, Deny, Evaluate(models.Session{}, policy.Default, OwnerOnly).Kind)
	assert.Equal(t, Pending, Evaluate(models.Session{Loading: true}, policy.Default, OwnerOnly).Kind)
}

func TestEvaluate_Permissions(t *testing.T) {
	p := policy.Default

	req := Permissions("staff:create")
	assert.True(t, Evaluate(sessionOf(models.RoleOwner), p, req).Allowed())
	assert.False(t, Evaluate(sessionOf(models.RolePhysician), p, req).Allowed())

	both := Requirement{Mode: RoleGated, Roles: []models.UserRole{models.RolePhysician}, Permissions: []string{"medical_records:update", "lab_orders:create"}}
	assert.True(t, Evaluate(sessionOf(models.RolePhysician), p, both).Allowed())

	both.Permissions = append(both.Permissions, "staff:read")
	assert.False(t, Evaluate(sessionOf(models.RolePhysician), p, both).Allowed())
}

func TestEvaluate_Route(t *testing.T) {
	p := policy.Default
	assert.True(t, Evaluate(sessionOf(models.RoleOwner), p, Route("/staff/new")).Allowed())
	assert.False(t, Evaluate(sessionOf(models.RolePatient), p, Route("/staff")).Allowed())
}

func TestEvaluate_UnknownRoleFailsClosed(t *testing.T) {
	s := sessionOf("admin")
	p := policy.Default

	assert.Equal(t, Deny, Evaluate(s, p, Roles("admin")).Kind)
	assert.Equal(t, Deny, Evaluate(s, p, Requirement{Mode: RoleGated}).Kind)
	assert.Equal(t, Deny, Evaluate(s, p, Permissions("profile:read")).Kind)
}

func TestEvaluatePublicOnly(t *testing.T) {
	assert.Equal(t, Decision{Kind: Redirect, Target: DashboardPath}, EvaluatePublicOnly(true))
	assert.Equal(t, Decision{Kind: Allow}, EvaluatePublicOnly(false))
}

func render(t *testing.T, n gomponents.Node) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, n.Render(&buf))
	return buf.String()
}

func TestGate(t *testing.T) {
	patient := sessionOf(models.RolePatient)
	secret := html.P(gomponents.Text("secret"))

	assert.Equal(t, "", render(t, Gate(patient, policy.Default, OwnerOnly, nil, secret)))
	assert.Equal(t, "<p>no</p>", render(t, Gate(patient, policy.Default, OwnerOnly, html.P(gomponents.Text("no")), secret)))
	assert.Equal(t, "<p>secret</p>", render(t, Gate(patient, policy.Default, PatientOnly, nil, secret)))
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "allow", Allow.String())
	assert.Equal(t, "deny", Deny.String())
	assert.Equal(t, "pending", Pending.String())
	assert.Equal(t, "redirect", Redirect.String())
}
