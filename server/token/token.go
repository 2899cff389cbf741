// Package token mints and validates the bearer credentials carried on gated
// routes. Tokens are HMAC signed and embed the holder's email claim.
package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

// DefaultTTL is used when no expiry is configured.
const DefaultTTL = time.Hour

// Maker issues and verifies signed tokens with a fixed expiry.
type Maker struct {
	secret []byte
	ttl    time.Duration
}

// NewMaker builds a Maker signing with secret. A zero ttl falls back to
// DefaultTTL; a negative ttl is kept as-is and mints already-expired tokens.
func NewMaker(secret string, ttl time.Duration) *Maker {
	if ttl == 0 {
		ttl = DefaultTTL
	}
	return &Maker{secret: []byte(secret), ttl: ttl}
}

// Issue signs a token embedding the email claim, expiring after the
// configured TTL.
func (m *Maker) Issue(email string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"email": email,
		"iat":   now.Unix(),
		"exp":   now.Add(m.ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	return signed, errors.Wrap(err, "fail to sign token")
}

// Verify parses the raw token and returns the email claim. It rejects tokens
// signed with a different method, bad signatures and expired tokens.
func (m *Maker) Verify(raw string) (string, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return "", errors.Wrap(err, "invalid token")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", errors.New("invalid token claims")
	}
	email, ok := claims["email"].(string)
	if !ok || email == "" {
		return "", errors.New("token missing email claim")
	}
	return email, nil
}
