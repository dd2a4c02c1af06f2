// Package jwt implements generation and parsing of session tokens.
//
// Tokens are HS256 JWTs carrying the account email and a unique token id, so
// two tokens issued to the same user are never equal and each device session
// can be revoked individually.
package jwt

import (
	"time"
)

// Maker describes generation and parsing of session tokens.
type Maker interface {
	// GenerateToken issues a new signed token for the given account email.
	GenerateToken(email string) (string, error)
	// ParseToken verifies a token and returns its claims.
	ParseToken(tokenStr string) (*SessionClaims, error)
}

// MakerImpl implements Maker with a symmetric secret key and a token TTL.
type MakerImpl struct {
	secretKey string
	tokenTTL  time.Duration
}

// NewJWTMaker creates a MakerImpl from a secret key and token lifetime.
func NewJWTMaker(secretKey string, ttl time.Duration) *MakerImpl {
	return &MakerImpl{
		secretKey: secretKey,
		tokenTTL:  ttl,
	}
}
