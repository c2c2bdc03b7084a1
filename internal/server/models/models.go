// Package models holds the records stored by the platform emulator.
package models

import "time"

// Account is a registered user.
type Account struct {
	ID           string
	Email        string
	Name         string
	PasswordHash []byte
	Salt         []byte
	CreatedAt    time.Time
}

// Session is an email session. The secret handed to the client is a JWT
// naming the session, so deleting the row revokes it.
type Session struct {
	ID        string
	AccountID string
	ExpiresAt time.Time
}

func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// File upload states.
const (
	FileStatusPending = "pending"
	FileStatusReady   = "ready"
)

// File is the metadata of an object held in the S3 bucket.
type File struct {
	BucketID   string
	ID         string
	OwnerID    string
	Name       string
	MimeType   string
	Size       int64
	StorageKey string
	Status     string
	CreatedAt  time.Time
}
