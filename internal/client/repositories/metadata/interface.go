// Package metadata is the key/value table of the local state database.
// The client keeps the persisted session there.
package metadata

import "context"

// Well-known keys.
const (
	KeySessionID     = "session.id"
	KeySessionSecret = "session.secret"
	KeyAccountID     = "session.account_id"
)

type Repository interface {
	// Get returns the stored value and whether the key exists.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	// Delete removes the keys; absent keys are ignored.
	Delete(ctx context.Context, keys ...string) error
}
