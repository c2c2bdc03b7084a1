// Package models defines the client-side records exchanged with the
// platform: identities, sessions, profiles, posts and uploaded files.
package models
