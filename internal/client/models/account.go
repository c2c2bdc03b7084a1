package models

import "time"

// Identity is a platform account. It is created by sign-up and never
// mutated by the client.
type Identity struct {
	ID    string
	Email string
	Name  string
}

// Session binds the current process to an Identity. Secret is the bearer
// credential presented on every call.
type Session struct {
	ID        string
	AccountID string
	Secret    string
	ExpiresAt time.Time
}

// Expired reports whether the session validity window has passed.
// A zero ExpiresAt never expires.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}
