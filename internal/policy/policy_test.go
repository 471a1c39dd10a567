package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"altheia/internal/models"
)

func TestRoleName(t *testing.T) {
	for _, role := range models.Roles {
		assert.NotEmpty(t, RoleName(role), "role %s", role)
	}
	assert.Equal(t, "Clinic Owner", RoleName(models.RoleOwner))
	assert.Equal(t, "Lab Technician", RoleName(models.RoleLabTechnician))

	assert.Equal(t, "", RoleName("admin"))
	assert.Equal(t, "", RoleName(""))
}

func TestHasPermission_MatchesDeclaredSet(t *testing.T) {
	resources := []string{
		"appointments", "patients", "medical_records", "lab_orders",
		"lab_results", "clinic", "staff", "reports", "profile",
	}
	actions := []string{"read", "create", "update", "delete"}

	for _, role := range models.Roles {
		declared := map[string]bool{}
		for _, p := range Default.Permissions(role) {
			declared[p.Key()] = true
		}
		require.NotEmpty(t, declared, "role %s has no permissions", role)

		for _, res := range resources {
			for _, act := range actions {
				key := models.Permission{Resource: res, Action: act}.Key()
				assert.Equal(t, declared[key], HasPermission(role, res, act), "%s %s", role, key)
			}
		}
	}
}

func TestHasPermission_OutsideAllSets(t *testing.T) {
	for _, role := range models.Roles {
		assert.False(t, HasPermission(role, "billing", "read"))
		assert.False(t, HasPermission(role, "clinic", "delete"))
		assert.False(t, HasPermission(role, "clinic:read", ""))
	}
}

func TestHasPermission_UnknownRoleFailsClosed(t *testing.T) {
	assert.False(t, HasPermission("admin", "clinic", "read"))
	assert.False(t, HasPermission("", "appointments", "read"))
	assert.False(t, Default.HasAll("admin", nil))
}

func TestHasPermission_RoleSpecific(t *testing.T) {
	assert.True(t, HasPermission(models.RoleOwner, "staff", "create"))
	assert.False(t, HasPermission(models.RolePatient, "staff", "read"))
	assert.True(t, HasPermission(models.RolePhysician, "medical_records", "update"))
	assert.True(t, HasPermission(models.RoleLabTechnician, "lab_results", "create"))
	assert.False(t, HasPermission(models.RoleReceptionist, "medical_records", "read"))
}

func TestCanAccessRoute(t *testing.T) {
	tests := []struct {
		role  models.UserRole
		route string
		want  bool
	}{
		{models.RoleOwner, "/clinic", true},
		{models.RoleOwner, "/clinic/settings", true},
		{models.RoleOwner, "/clinicx", false},
		{models.RoleOwner, "/lab", false},
		{models.RolePatient, "/appointments?page=2", true},
		{models.RolePatient, "/staff", false},
		{models.RoleReceptionist, "/patients/new", true},
		{models.RoleLabTechnician, "/lab/orders/12", true},
		{models.RoleLabTechnician, "/appointments", false},
		{models.RolePhysician, "/patients/../staff", false},
		{models.RolePhysician, "patients", false},
		{"admin", "/dashboard", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CanAccessRoute(tt.role, tt.route), "%s %s", tt.role, tt.route)
	}
}

func TestNavigationItems(t *testing.T) {
	items := NavigationItems(models.RolePatient)
	ids := make([]string, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ID)
	}
	assert.Equal(t, []string{"dashboard", "appointments", "medical-records", "profile"}, ids)

	assert.Empty(t, NavigationItems("admin"))
	assert.NotNil(t, NavigationItems("admin"))
}

func TestNavigationItems_ReturnsCopy(t *testing.T) {
	items := NavigationItems(models.RoleOwner)
	require.NotEmpty(t, items)
	items[0].Label = "changed"
	items[1].RequiredPermissions[0] = "changed"

	fresh := NavigationItems(models.RoleOwner)
	assert.Equal(t, "Overview", fresh[0].Label)
	assert.Equal(t, "clinic:read", fresh[1].RequiredPermissions[0])
}

func TestNavigationItems_RoutesAreAccessible(t *testing.T) {
	for _, role := range models.Roles {
		for _, item := range NavigationItems(role) {
			assert.True(t, CanAccessRoute(role, item.Route), "%s cannot reach its own menu item %s", role, item.Route)
		}
	}
}

func TestVisibleNavigationItems(t *testing.T) {
	p := MustLoad([]byte(minimalTable + `
    navigation:
      - id: home
        label: Home
        icon: house
        route: /dashboard
      - id: staff
        label: Staff
        icon: users
        route: /staff
        requires: [staff:read]
`))
	items := p.VisibleNavigationItems(models.RolePatient)
	require.Len(t, items, 1)
	assert.Equal(t, "home", items[0].ID)
	assert.Len(t, p.NavigationItems(models.RolePatient), 2)
}

func TestDashboardPath(t *testing.T) {
	assert.Equal(t, "/dashboard", Default.DashboardPath(models.RoleOwner))
	assert.Equal(t, "", Default.DashboardPath("admin"))
}

const minimalTable = `roles:
  - role: owner
    name: Owner
  - role: physician
    name: Physician
  - role: lab_technician
    name: Lab
  - role: receptionist
    name: Front desk
  - role: patient
    name: Patient
    permissions: [profile:read]
    routes: [/dashboard, /staff]`

func TestLoad_Validation(t *testing.T) {
	_, err := Load([]byte(minimalTable))
	require.NoError(t, err)

	tests := []struct {
		name string
		doc  string
	}{
		{"missing role", `roles:
  - role: owner
    name: Owner`},
		{"unknown role", minimalTable + "\n  - role: admin\n    name: Admin"},
		{"duplicate role", minimalTable + "\n  - role: owner\n    name: Again"},
		{"bad permission", `roles:
  - role: owner
    name: Owner
    permissions: [clinic]`},
		{"relative route", `roles:
  - role: owner
    name: Owner
    routes: [clinic]`},
		{"empty name", `roles:
  - role: owner
    name: ""`},
		{"not yaml", "roles: [:"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load([]byte(tt.doc))
			assert.Error(t, err)
		})
	}
}
