package models

import "strings"

type Permission struct {
	Resource string `yaml:"resource" json:"resource"`
	Action   string `yaml:"action" json:"action"`
}

// Key returns the canonical "resource:action" form used by navigation items.
func (p Permission) Key() string {
	return p.Resource + ":" + p.Action
}

// ParsePermission is the inverse of Key.
func ParsePermission(key string) (Permission, bool) {
	resource, action, ok := strings.Cut(key, ":")
	if !ok || resource == "" || action == "" {
		return Permission{}, false
	}
	return Permission{Resource: resource, Action: action}, true
}

type NavigationItem struct {
	ID                  string   `yaml:"id" json:"id"`
	Label               string   `yaml:"label" json:"label"`
	Icon                string   `yaml:"icon" json:"icon"`
	Route               string   `yaml:"route" json:"route"`
	Badge               string   `yaml:"badge,omitempty" json:"badge,omitempty"`
	RequiredPermissions []string `yaml:"requires,omitempty" json:"requiredPermissions,omitempty"`
}
