package domain

import "time"

// AuthToken is an opaque bearer credential tied to a single account.
type AuthToken struct {
	Key       string
	AccountID int64
	CreatedAt time.Time
}
