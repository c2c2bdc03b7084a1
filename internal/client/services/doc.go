// Package services contains the client application services: the session
// manager, the profile and content repositories and the file store. Each is
// an interface backed by an unexported implementation over
// platform.Platform.
package services
