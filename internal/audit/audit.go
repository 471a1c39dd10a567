// Package audit records authentication events. The dashboard keeps no
// database, so the trail is a stream of structured log records that the
// log pipeline ships with everything else.
package audit

import (
	"context"
	"log/slog"
	"time"

	"altheia/internal/models"
)

const (
	ActionLogin       = "login"
	ActionLoginFailed = "login_failed"
	ActionLogout      = "logout"
	ActionRegister    = "register"
)

type Recorder struct {
	log *slog.Logger
	now func() time.Time
}

func NewRecorder(log *slog.Logger) *Recorder {
	return &Recorder{log: log.With("log_type", "audit"), now: time.Now}
}

func (r *Recorder) Record(ctx context.Context, ev models.AuditEvent) {
	if r == nil {
		return
	}
	if ev.At.IsZero() {
		ev.At = r.now()
	}

	level := slog.LevelInfo
	if ev.Action == ActionLoginFailed {
		level = slog.LevelWarn
	}

	r.log.Log(ctx, level, "audit event",
		"action", ev.Action,
		"at", ev.At.UTC().Format(time.RFC3339),
		"subject_id", ev.UserID,
		"email", ev.Email,
		"subject_role", string(ev.Role),
		"client_ip", ev.IP,
		"detail", ev.Detail,
	)
}

// UserEvent fills the identity fields from user, which may be nil.
func UserEvent(action string, user *models.User, ip, detail string) models.AuditEvent {
	ev := models.AuditEvent{Action: action, IP: ip, Detail: detail}
	if user != nil {
		ev.UserID = user.ID
		ev.Email = user.Email
		ev.Role = user.Role
	}
	return ev
}
