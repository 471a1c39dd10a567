package views

import (
	"strings"
	"unicode/utf8"

	"altheia/internal/models"
)

const redacted = "***"

// redactPatient hides the identifiers a role without patients:update must
// not read. Name and date of birth stay visible so the row is still useful.
func redactPatient(p models.Patient) models.Patient {
	p.Email = maskEmail(p.Email)
	p.Phone = maskPhone(p.Phone)
	p.DocumentID = maskDocument(p.DocumentID)
	return p
}

// maskEmail keeps the first two characters of the local part and the
// domain.
func maskEmail(email string) string {
	at := strings.IndexByte(email, '@')
	if at <= 0 {
		return redacted
	}
	local, domain := email[:at], email[at:]
	if utf8.RuneCountInString(local) <= 2 {
		return local + redacted + domain
	}
	return string([]rune(local)[:2]) + redacted + domain
}

func maskPhone(phone string) string {
	return keepTail(phone, 2, 4)
}

// maskDocument leaves the last three characters, enough for front desk staff
// to confirm an ID card against the record.
func maskDocument(id string) string {
	return keepTail(strings.TrimSpace(id), 3, 3)
}

// keepTail stars out all but the last keep runes of s. Values of at most
// short runes are replaced entirely.
func keepTail(s string, keep, short int) string {
	runes := []rune(s)
	if len(runes) <= short {
		return redacted
	}
	cut := len(runes) - keep
	return strings.Repeat("*", cut) + string(runes[cut:])
}
