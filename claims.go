package headstart

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/go-errors"
)

// TokenClaims are the platform-issued access token claims this layer
// inspects. Tokens are decoded without signature verification: the
// platform is the authority on token validity, every call carrying the
// token is re-checked remotely anyway.
type TokenClaims struct {
	jwt.RegisteredClaims
	Username string `json:"usr,omitempty"`
	Role     string `json:"role,omitempty"`
	OrderID  string `json:"orderid,omitempty"`
}

// Anonymous reports whether the token belongs to an anonymous shopping
// session. The platform stamps anonymous tokens with the provisional
// order identifier.
func (c *TokenClaims) Anonymous() bool {
	return c.OrderID != ""
}

// Expires returns the expiration time, zero when absent.
func (c *TokenClaims) Expires() time.Time {
	if c.RegisteredClaims.ExpiresAt != nil {
		return c.RegisteredClaims.ExpiresAt.Time
	}
	return time.Time{}
}

// ExpiresWithin reports whether the token expires inside the given
// window from now.
func (c *TokenClaims) ExpiresWithin(now time.Time, window time.Duration) bool {
	exp := c.Expires()
	if exp.IsZero() {
		return false
	}
	return !now.Add(window).Before(exp)
}

// DecodeToken parses a platform access token without verifying its
// signature.
func DecodeToken(raw string) (*TokenClaims, error) {
	claims := &TokenClaims{}

	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(raw, claims); err != nil {
		return nil, errors.Wrap(err, errors.CategoryAuth, "unable to decode access token")
	}

	return claims, nil
}
