// Package policy holds the static role table: display names, permission
// sets, navigation menus and accessible route prefixes for each role.
//
// The table is parsed once from an embedded document and is immutable
// afterwards. Every lookup is total: roles outside the enumeration get
// no name, no permissions, no navigation and no routes.
package policy

import (
	_ "embed"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/MrEthical07/goAuth/permission"
	"gopkg.in/yaml.v3"

	"altheia/internal/models"
)

//go:embed roles.yaml
var rolesYAML []byte

const maskBits = 64

// Default is the role table shipped with the dashboard.
var Default = MustLoad(rolesYAML)

type document struct {
	Roles []roleDocument `yaml:"roles"`
}

type roleDocument struct {
	Role        models.UserRole         `yaml:"role"`
	Name        string                  `yaml:"name"`
	Dashboard   string                  `yaml:"dashboard"`
	Permissions []string                `yaml:"permissions"`
	Routes      []string                `yaml:"routes"`
	Navigation  []models.NavigationItem `yaml:"navigation"`
}

type entry struct {
	name        string
	dashboard   string
	permissions []models.Permission
	routes      []string
	navigation  []models.NavigationItem
}

type Policy struct {
	entries  map[models.UserRole]entry
	registry *permission.Registry
	masks    *permission.RoleManager
}

// Load parses and validates a role table. Every role of models.Roles must
// be declared exactly once.
func Load(data []byte) (*Policy, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode role table: %w", err)
	}

	registry, err := permission.NewRegistry(maskBits, false)
	if err != nil {
		return nil, fmt.Errorf("create permission registry: %w", err)
	}

	p := &Policy{
		entries:  make(map[models.UserRole]entry, len(doc.Roles)),
		registry: registry,
		masks:    permission.NewRoleManager(registry),
	}

	for _, rd := range doc.Roles {
		if !rd.Role.Valid() {
			return nil, fmt.Errorf("unknown role %q", rd.Role)
		}
		if _, dup := p.entries[rd.Role]; dup {
			return nil, fmt.Errorf("role %q declared twice", rd.Role)
		}
		e, err := p.compile(rd)
		if err != nil {
			return nil, fmt.Errorf("role %q: %w", rd.Role, err)
		}
		p.entries[rd.Role] = e
	}

	for _, role := range models.Roles {
		if _, ok := p.entries[role]; !ok {
			return nil, fmt.Errorf("role %q has no policy entry", role)
		}
	}

	p.registry.Freeze()
	p.masks.Freeze()

	return p, nil
}

func MustLoad(data []byte) *Policy {
	p, err := Load(data)
	if err != nil {
		panic("policy: " + err.Error())
	}
	return p
}

func (p *Policy) compile(rd roleDocument) (entry, error) {
	if strings.TrimSpace(rd.Name) == "" {
		return entry{}, errors.New("display name is empty")
	}

	e := entry{
		name:      rd.Name,
		dashboard: rd.Dashboard,
	}
	if e.dashboard == "" {
		e.dashboard = "/dashboard"
	}

	keys := make([]string, 0, len(rd.Permissions))
	for _, key := range rd.Permissions {
		perm, ok := models.ParsePermission(key)
		if !ok {
			return entry{}, fmt.Errorf("malformed permission %q", key)
		}
		if _, known := p.registry.Bit(perm.Key()); !known {
			if _, err := p.registry.Register(perm.Key()); err != nil {
				return entry{}, fmt.Errorf("register permission %q: %w", key, err)
			}
		}
		e.permissions = append(e.permissions, perm)
		keys = append(keys, perm.Key())
	}

	if err := p.masks.RegisterRole(string(rd.Role), keys, maskBits, false); err != nil {
		return entry{}, fmt.Errorf("register role mask: %w", err)
	}

	for _, route := range rd.Routes {
		if !strings.HasPrefix(route, "/") {
			return entry{}, fmt.Errorf("route %q must be absolute", route)
		}
		e.routes = append(e.routes, path.Clean(route))
	}

	for _, item := range rd.Navigation {
		if item.ID == "" || item.Route == "" {
			return entry{}, fmt.Errorf("navigation item %q is incomplete", item.Label)
		}
		for _, key := range item.RequiredPermissions {
			if _, ok := models.ParsePermission(key); !ok {
				return entry{}, fmt.Errorf("navigation item %q: malformed permission %q", item.ID, key)
			}
		}
		e.navigation = append(e.navigation, item)
	}

	return e, nil
}

// RoleName returns the display label for role, or "" when role is unknown.
func (p *Policy) RoleName(role models.UserRole) string {
	return p.entries[role].name
}

func (p *Policy) HasPermission(role models.UserRole, resource, action string) bool {
	if _, ok := p.entries[role]; !ok {
		return false
	}
	return p.hasKey(role, models.Permission{Resource: resource, Action: action}.Key())
}

func (p *Policy) hasKey(role models.UserRole, key string) bool {
	bit, ok := p.registry.Bit(key)
	if !ok {
		return false
	}
	raw, ok := p.masks.GetMask(string(role))
	if !ok {
		return false
	}
	mask, ok := raw.(*permission.Mask64)
	if !ok {
		return false
	}
	return mask.Has(bit, false)
}

// HasAll reports whether role holds every "resource:action" key. Malformed
// keys are never held.
func (p *Policy) HasAll(role models.UserRole, keys []string) bool {
	if _, ok := p.entries[role]; !ok {
		return false
	}
	for _, key := range keys {
		if _, ok := models.ParsePermission(key); !ok {
			return false
		}
		if !p.hasKey(role, key) {
			return false
		}
	}
	return true
}

// CanAccessRoute matches route against the role's prefixes on path segment
// boundaries. Query strings and fragments are ignored.
func (p *Policy) CanAccessRoute(role models.UserRole, route string) bool {
	e, ok := p.entries[role]
	if !ok {
		return false
	}
	route = normalizeRoute(route)
	if route == "" {
		return false
	}
	for _, prefix := range e.routes {
		if prefix == "/" || route == prefix || strings.HasPrefix(route, prefix+"/") {
			return true
		}
	}
	return false
}

func normalizeRoute(route string) string {
	if i := strings.IndexAny(route, "?#"); i >= 0 {
		route = route[:i]
	}
	if !strings.HasPrefix(route, "/") {
		return ""
	}
	return path.Clean(route)
}

// NavigationItems returns a copy of the role's menu in declared order.
func (p *Policy) NavigationItems(role models.UserRole) []models.NavigationItem {
	e, ok := p.entries[role]
	if !ok {
		return []models.NavigationItem{}
	}
	items := make([]models.NavigationItem, len(e.navigation))
	for i, item := range e.navigation {
		item.RequiredPermissions = append([]string(nil), item.RequiredPermissions...)
		items[i] = item
	}
	return items
}

// VisibleNavigationItems drops items whose required permissions the role
// does not hold. Order is preserved.
func (p *Policy) VisibleNavigationItems(role models.UserRole) []models.NavigationItem {
	all := p.NavigationItems(role)
	visible := all[:0]
	for _, item := range all {
		if p.HasAll(role, item.RequiredPermissions) {
			visible = append(visible, item)
		}
	}
	return visible
}

func (p *Policy) Permissions(role models.UserRole) []models.Permission {
	return append([]models.Permission(nil), p.entries[role].permissions...)
}

// DashboardPath is the landing route after login; "" for unknown roles.
func (p *Policy) DashboardPath(role models.UserRole) string {
	return p.entries[role].dashboard
}

func RoleName(role models.UserRole) string { return Default.RoleName(role) }

func HasPermission(role models.UserRole, resource, action string) bool {
	return Default.HasPermission(role, resource, action)
}

func CanAccessRoute(role models.UserRole, route string) bool {
	return Default.CanAccessRoute(role, route)
}

func NavigationItems(role models.UserRole) []models.NavigationItem {
	return Default.NavigationItems(role)
}
