package models

import (
	"time"

	"github.com/dmitrijs2005/aora/internal/wire"
)

// Profile document attributes in the users collection.
const (
	ProfileAccountID = "accountId"
	ProfileEmail     = "email"
	ProfileUsername  = "username"
	ProfileAvatar    = "avatar"
)

// Profile is the application-level user record, one per Identity.
type Profile struct {
	ID        string
	AccountID string
	Email     string
	Username  string
	AvatarURL string
	CreatedAt time.Time
}

// Fields returns the document data written on creation.
func (p Profile) Fields() map[string]any {
	return map[string]any{
		ProfileAccountID: p.AccountID,
		ProfileEmail:     p.Email,
		ProfileUsername:  p.Username,
		ProfileAvatar:    p.AvatarURL,
	}
}

// ProfileFromDocument maps a users collection document.
func ProfileFromDocument(d wire.Document) *Profile {
	return &Profile{
		ID:        d.ID,
		AccountID: d.Get(ProfileAccountID),
		Email:     d.Get(ProfileEmail),
		Username:  d.Get(ProfileUsername),
		AvatarURL: d.Get(ProfileAvatar),
		CreatedAt: d.CreatedAt,
	}
}
