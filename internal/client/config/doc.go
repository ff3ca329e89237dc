// Package config loads runtime configuration for the gauth CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. GAUTH_SERVER_ADDR, GAUTH_SESSION_FILE and GAUTH_REQUEST_TIMEOUT.
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   address:port of the gauth gRPC endpoint
//	-i int      online status check interval (seconds)
//	-f string   path of the local session database
//	-t duration timeout for a single server request, e.g. 5s
//
// # JSON schema
//
//	{
//	  "server_endpoint_addr": "127.0.0.1:50051",
//	  "online_check_interval": "3s",
//	  "session_file": "gauth.db",
//	  "request_timeout": "10s"
//	}
package config
