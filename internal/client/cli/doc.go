// Package cli provides the interactive gauth command-line client.
//
// It wires configuration, the local session store, the API client and an
// interactive REPL. A saved session is restored on start, and a background
// watcher reports when the server goes away or comes back.
//
// Commands:
//   - register, verify, resend
//   - login, whoami, logout
//   - forgot, reset
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
