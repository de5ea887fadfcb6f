package admin

import "time"

// Config declares the console composition explicitly: session settings plus
// the account entity's display metadata. There is no global registry; the
// caller passes everything to New.
type Config struct {
	Title         string
	SessionSecret string
	SessionTTL    time.Duration
	CookieName    string
	CookieSecure  bool
	Accounts      EntityConfig
}

// EntityConfig describes how an entity is listed and edited.
type EntityConfig struct {
	ListColumns []string
	Fieldsets   []Fieldset
	AddFields   []string
}

// Fieldset groups change-form fields under a label.
type Fieldset struct {
	Label  string
	Fields []string
}

// DefaultConfig returns the standard account console layout: list ordered by
// id with email and name columns, change form grouped into credentials,
// personal info, permissions and audit timestamps (last_login read-only).
func DefaultConfig(secret string, ttl time.Duration) Config {
	return Config{
		Title:         "Account administration",
		SessionSecret: secret,
		SessionTTL:    ttl,
		CookieName:    "accountd_admin_session",
		Accounts: EntityConfig{
			ListColumns: []string{"email", "name"},
			Fieldsets: []Fieldset{
				{Label: "Credentials", Fields: []string{"email", "password"}},
				{Label: "Personal information", Fields: []string{"name"}},
				{Label: "Permissions", Fields: []string{"is_active", "is_staff", "is_superuser"}},
				{Label: "Important dates", Fields: []string{"last_login"}},
			},
			AddFields: []string{"email", "password1", "password2", "name", "is_active", "is_staff", "is_superuser"},
		},
	}
}
