// Package common contains shared constants and sentinel errors used across
// gophauth components.
package common

// AccessTokenHeaderName is the gRPC metadata key used to carry the session
// credential on outbound requests.
const AccessTokenHeaderName = "access_token"

// SessionCookieName is the HTTP cookie set on successful login.
const SessionCookieName = "token"

// VerificationTokenSize is the number of random bytes behind every opaque
// verification or reset token. Hex encoding doubles the string length.
const VerificationTokenSize = 32
