package config

import (
	"time"

	"github.com/dmitrijs2005/gophauth/internal/flagx"
)

// parseEnv overlays values from GAUTH_* environment variables. A malformed
// duration panics.
func parseEnv(cfg *Config) {
	if v, ok := flagx.LookupEnv("GAUTH_SERVER_ADDR"); ok {
		cfg.ServerEndpointAddr = v
	}
	if v, ok := flagx.LookupEnv("GAUTH_SESSION_FILE"); ok {
		cfg.SessionFile = v
	}
	if v, ok := flagx.LookupEnv("GAUTH_REQUEST_TIMEOUT"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			panic(err)
		}
		cfg.RequestTimeout = d
	}
}
