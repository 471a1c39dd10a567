package models

import "time"

type AuditEvent struct {
	At     time.Time
	UserID string
	Email  string
	Role   UserRole
	Action string // "login", "login_failed", "logout", "register"
	IP     string
	Detail string
}
