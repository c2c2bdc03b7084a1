// Package platform is the client binding to the remote platform: accounts,
// document collections and object storage.
//
// # Overview
//
//   - Platform is the transport-agnostic contract the services depend on.
//   - GRPCPlatform implements it over the aora.platform.v1.Platform gRPC
//     service. An interceptor stamps the project, platform and session
//     headers on every call.
//   - Binding lazily builds one GRPCPlatform per process.
//   - URL builders derive view, preview and avatar URLs from the HTTP
//     endpoint without a round trip.
//
// # Error Handling
//
// gRPC status codes are mapped to the sentinels of package common
// (ErrAuth, ErrNotFound, ErrInvalidArgument, ErrAlreadyExists,
// ErrUnavailable, ErrRemote). Match them with errors.Is.
//
// Concurrency
//
// GRPCPlatform is safe for concurrent use; the session secret is guarded by
// a mutex.
package platform
