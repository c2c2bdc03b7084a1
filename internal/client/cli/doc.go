// Package cli provides the interactive Aora command-line client.
//
// It wires configuration, the local state database, the platform binding
// and the client services behind a small REPL. On start the session state
// is bootstrapped from a persisted session; lists are served through
// resource.Resource so they are fetched once and refreshed with "refetch".
//
// Commands:
//   - register, login, logout, whoami
//   - posts, latest, mine, search <text>
//   - create (title, prompt, thumbnail path, video path)
//   - refetch, help, exit
package cli
