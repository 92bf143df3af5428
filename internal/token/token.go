// Package token inspects bearer tokens without verifying their signature.
// Every check here is advisory, for UI decisions such as pre-emptive refresh;
// authorization is always the backend's call.
package token

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultExpiryThreshold is how close to expiry a token must be before
// IsExpiringSoon reports true when no explicit threshold is given.
const DefaultExpiryThreshold = 5 * time.Minute

// Claims is the decoded, unverified payload of an access token.
type Claims struct {
	Subject   string
	Email     string
	Role      string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

type payload struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// Decode parses the claims of raw without validating the signature.
// It returns nil on any malformed input and never panics.
func Decode(raw string) *Claims {
	if !IsValidFormat(raw) {
		return nil
	}

	var p payload
	if _, _, err := jwt.NewParser().ParseUnverified(raw, &p); err != nil {
		return nil
	}

	c := &Claims{Subject: p.Subject, Email: p.Email, Role: p.Role}
	if p.IssuedAt != nil {
		c.IssuedAt = p.IssuedAt.Time
	}
	if p.ExpiresAt != nil {
		c.ExpiresAt = p.ExpiresAt.Time
	}
	return c
}

// IsValidFormat reports whether raw is syntactically a JWT: exactly three
// dot-separated segments.
func IsValidFormat(raw string) bool {
	if raw == "" {
		return false
	}
	return len(strings.Split(raw, ".")) == 3
}

// ExpiresAt returns the token's expiry instant. The second result is false
// when the token cannot be decoded or carries no expiry claim.
func ExpiresAt(raw string) (time.Time, bool) {
	c := Decode(raw)
	if c == nil || c.ExpiresAt.IsZero() {
		return time.Time{}, false
	}
	return c.ExpiresAt, true
}

// IsExpired reports whether the token's expiry has passed. A token that
// cannot be decoded, or that has no expiry claim, counts as expired.
func IsExpired(raw string) bool {
	exp, ok := ExpiresAt(raw)
	if !ok {
		return true
	}
	return exp.Before(time.Now())
}

// IsExpiringSoon reports whether the token expires within threshold.
// A non-positive threshold falls back to DefaultExpiryThreshold. Undecodable
// tokens report true.
func IsExpiringSoon(raw string, threshold time.Duration) bool {
	if threshold <= 0 {
		threshold = DefaultExpiryThreshold
	}
	exp, ok := ExpiresAt(raw)
	if !ok {
		return true
	}
	return time.Until(exp) < threshold
}
