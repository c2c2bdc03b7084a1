package common

// Metadata keys carried on every outbound platform call.
const (
	// SessionHeaderName carries the session secret (bearer token).
	SessionHeaderName = "x-aora-session"

	// ProjectHeaderName carries the project identifier.
	ProjectHeaderName = "x-aora-project"

	// PlatformHeaderName carries the client platform (bundle) identifier.
	PlatformHeaderName = "x-aora-platform"
)

// CurrentSession is the session id alias understood by DeleteSession.
const CurrentSession = "current"
