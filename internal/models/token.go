package models

import (
	"time"
)

// TokenKind distinguishes the server-side token families
type TokenKind string

const (
	TokenKindAccess  TokenKind = "access"
	TokenKindRefresh TokenKind = "refresh"
	TokenKindOTP     TokenKind = "otp"
	TokenKindVerify  TokenKind = "verify"
)

// AuthToken is an opaque token issued by the auth service. Access tokens are
// short-lived bearer credentials; refresh tokens are long-lived and consumed
// on rotation; otp/verify tokens back the password-reset and email-verify
// flows.
type AuthToken struct {
	Token     string    `json:"-" db:"token"`
	UserID    string    `json:"-" db:"user_id"`
	Kind      TokenKind `json:"-" db:"kind"`
	ExpiresAt time.Time `json:"-" db:"expires_at"`
	CreatedAt time.Time `json:"-" db:"created_at"`
}

// Expired reports whether the token is past its expiry at the given time.
func (t *AuthToken) Expired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}
