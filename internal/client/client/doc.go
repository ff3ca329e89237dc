// Package client talks to the gauth server and bootstraps local storage
// for the CLI.
//
// Client is the transport-agnostic contract; GRPCClient implements it over
// the JSON-coded gRPC API, injects the session credential into outgoing
// metadata and maps status codes to sentinel errors (ErrUnavailable,
// ErrUnauthorized) or to *APIError carrying the server message.
//
// OpenDatabase opens the SQLite session database and applies the embedded
// goose migrations.
package client
