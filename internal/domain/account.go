package domain

import (
	"strings"
	"time"
)

// Account is a user identity record with credentials and profile fields.
type Account struct {
	ID           int64
	Email        string
	PasswordHash []byte
	Name         string
	IsActive     bool
	IsStaff      bool
	IsSuperuser  bool
	LastLogin    *time.Time
	CreatedAt    time.Time
}

// NormalizeEmail lower-cases the domain portion of an email address while
// preserving the local portion. Inputs without an "@" are only trimmed.
func NormalizeEmail(email string) string {
	trimmed := strings.TrimSpace(email)
	at := strings.LastIndex(trimmed, "@")
	if at < 0 {
		return trimmed
	}
	return trimmed[:at+1] + strings.ToLower(trimmed[at+1:])
}
