// Package common defines shared constants and sentinel errors used across
// the client access layer and the platform emulator. Callers should use
// errors.Is to match these values.
package common

import (
	"errors"
	"fmt"
)

var (
	// ErrRemote marks transport or platform failures. It is the parent of
	// every platform-side rejection that is not an auth or lookup miss.
	ErrRemote = errors.New("remote error")

	// ErrAuth means there is no session or the credentials were rejected.
	// It is an expected condition and drives the anonymous state.
	ErrAuth = errors.New("unauthorized")

	// ErrNotFound is returned for zero-match lookups.
	ErrNotFound = errors.New("not found")

	// ErrInvalidArgument is a caller contract violation (unknown file kind,
	// empty required field).
	ErrInvalidArgument = errors.New("invalid argument")

	// Platform rejections that still count as ErrRemote.
	ErrAlreadyExists = fmt.Errorf("%w: already exists", ErrRemote)
	ErrUnavailable   = fmt.Errorf("%w: platform unavailable", ErrRemote)
	ErrRateLimited   = fmt.Errorf("%w: too many requests", ErrRemote)
)
