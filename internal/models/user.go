package models

import "strings"

type UserRole string

const (
	RoleOwner         UserRole = "owner"
	RolePhysician     UserRole = "physician"
	RoleLabTechnician UserRole = "lab_technician"
	RoleReceptionist  UserRole = "receptionist"
	RolePatient       UserRole = "patient"
)

// Roles lists every role of the enumeration in declaration order.
var Roles = []UserRole{
	RoleOwner,
	RolePhysician,
	RoleLabTechnician,
	RoleReceptionist,
	RolePatient,
}

func (r UserRole) Valid() bool {
	for _, known := range Roles {
		if r == known {
			return true
		}
	}
	return false
}

func (r UserRole) String() string {
	return string(r)
}

// User is the identity held by a session. A User is only ever handled as a
// whole: either absent (nil) or complete with a valid role.
type User struct {
	ID    string   `json:"id"`
	Name  string   `json:"name"`
	Email string   `json:"email"`
	Role  UserRole `json:"role"`
}

// Complete reports whether u carries everything a session needs.
func (u *User) Complete() bool {
	if u == nil {
		return false
	}
	return strings.TrimSpace(u.ID) != "" &&
		strings.TrimSpace(u.Email) != "" &&
		u.Role.Valid()
}

func (u *User) Equal(other *User) bool {
	if u == nil || other == nil {
		return u == other
	}
	return *u == *other
}

// Session is the observable state of a session store.
type Session struct {
	User    *User
	Loading bool
}

func (s Session) Authenticated() bool {
	return s.User != nil
}
