package config

import (
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/flagx"
)

// parseEnv overlays values from environment variables. Where a setting
// has more than one accepted name, the first non-empty one wins.
// Malformed numbers, booleans or durations panic.
func parseEnv(config *Config) {
	envString(&config.EndpointAddrHTTP, "HTTP_ADDR")
	envString(&config.EndpointAddrGRPC, "GRPC_ADDR")
	envString(&config.AppURL, "APP_URL", "NEXT_PUBLIC_APP_URL")
	envString(&config.StorageBackend, "STORAGE_BACKEND")
	envString(&config.DatabaseDSN, "DATABASE_DSN", "DATABASE_URL")
	envString(&config.SecretKey, "JWT_SECRET", "NEXTAUTH_SECRET")
	envDuration(&config.SessionValidityDuration, "SESSION_TTL")
	envDuration(&config.VerificationTokenValidityDuration, "VERIFICATION_TOKEN_TTL")
	envDuration(&config.ResetTokenValidityDuration, "RESET_TOKEN_TTL")
	envString(&config.PasswordAlgorithm, "PASSWORD_ALGORITHM")
	envInt(&config.BcryptCost, "BCRYPT_COST")
	envBool(&config.VerifyBeforePassword, "VERIFY_BEFORE_PASSWORD")
	envBool(&config.AllowAdminSignup, "ALLOW_ADMIN_SIGNUP")
	envBool(&config.TrustProxyHeaders, "TRUST_PROXY_HEADERS")
	envString(&config.MailTransport, "MAIL_TRANSPORT")
	envString(&config.MailFrom, "SMTP_FROM", "MAIL_FROM")
	envString(&config.SMTPHost, "SMTP_HOST")
	envInt(&config.SMTPPort, "SMTP_PORT")
	envString(&config.SMTPUser, "SMTP_USER")
	envString(&config.SMTPPassword, "SMTP_PASS", "SMTP_PASSWORD")
	envString(&config.SMTPTLSPolicy, "SMTP_TLS_POLICY")
	envString(&config.S3RootUser, "S3_ROOT_USER")
	envString(&config.S3RootPassword, "S3_ROOT_PASSWORD")
	envString(&config.S3Bucket, "S3_BUCKET")
	envString(&config.S3Region, "S3_REGION")
	envString(&config.S3BaseEndpoint, "S3_BASE_ENDPOINT")
	envString(&config.RedisAddr, "REDIS_ADDR")
	envString(&config.RedisPassword, "REDIS_PASSWORD")
	envInt(&config.RedisDB, "REDIS_DB")
	envInt(&config.RateLimitRequests, "RATE_LIMIT_REQUESTS")
	envDuration(&config.RateLimitWindow, "RATE_LIMIT_WINDOW")
	envString(&config.CleanupSchedule, "CLEANUP_SCHEDULE")
	if v, ok := flagx.LookupEnv("CORS_ALLOWED_ORIGINS"); ok {
		config.CORSAllowedOrigins = splitList(v)
	}
	envString(&config.LogFormat, "LOG_FORMAT")
	envString(&config.LogLevel, "LOG_LEVEL")
}

func envString(dst *string, names ...string) {
	if v, ok := flagx.LookupEnv(names...); ok {
		*dst = v
	}
}

func envInt(dst *int, names ...string) {
	if v, ok := flagx.LookupEnv(names...); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			panic(err)
		}
		*dst = n
	}
}

func envBool(dst *bool, names ...string) {
	if v, ok := flagx.LookupEnv(names...); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			panic(err)
		}
		*dst = b
	}
}

func envDuration(dst *time.Duration, names ...string) {
	if v, ok := flagx.LookupEnv(names...); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			panic(err)
		}
		*dst = d
	}
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
