package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestVerificationToken_Expired(t *testing.T) {
	exp := time.Date(2025, 1, 2, 12, 0, 0, 0, time.UTC)
	tok := &VerificationToken{ExpiresAt: exp}

	assert.False(t, tok.Expired(exp.Add(-time.Minute)))
	assert.False(t, tok.Expired(exp))
	assert.True(t, tok.Expired(exp.Add(time.Nanosecond)))
}

func TestUser_Summary(t *testing.T) {
	u := &User{ID: "1", Name: "Ann", Email: "ann@example.com", PasswordHash: "h", Role: RoleUser}
	assert.Equal(t, UserSummary{ID: "1", Name: "Ann", Email: "ann@example.com", Role: RoleUser}, u.Summary())

	now := time.Now()
	u.EmailVerifiedAt = &now
	assert.True(t, u.Summary().EmailVerified)
}
