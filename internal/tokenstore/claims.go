package tokenstore

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrMalformedToken is returned when a token cannot be decoded as a JWT
var ErrMalformedToken = errors.New("malformed token")

// Claims are the fields the marketplace backend puts in its tokens
type Claims struct {
	Email       string `json:"email"`
	Authorities string `json:"authorities"`
	jwt.RegisteredClaims
}

// ParseClaims decodes a token without verifying its signature. The client
// never holds the signing key; the result is advisory only (TTLs, display).
func ParseClaims(token string) (*Claims, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, errors.Join(ErrMalformedToken, err)
	}
	return claims, nil
}

// Expiry returns the exp claim
func (c *Claims) Expiry() (time.Time, bool) {
	if c.ExpiresAt == nil {
		return time.Time{}, false
	}
	return c.ExpiresAt.Time, true
}

// Expired reports whether exp is in the past
func (c *Claims) Expired(now time.Time) bool {
	exp, ok := c.Expiry()
	return ok && !now.Before(exp)
}

// Roles splits the comma-joined authorities claim
func (c *Claims) Roles() []string {
	if c.Authorities == "" {
		return nil
	}
	parts := strings.Split(c.Authorities, ",")
	roles := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			roles = append(roles, p)
		}
	}
	return roles
}

// ttlFor returns how long a store should keep the token, zero when unknown
func ttlFor(token string, now time.Time) time.Duration {
	claims, err := ParseClaims(token)
	if err != nil {
		return 0
	}
	exp, ok := claims.Expiry()
	if !ok {
		return 0
	}
	return exp.Sub(now)
}
