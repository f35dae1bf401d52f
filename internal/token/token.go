// Package token issues and verifies the signed bearer tokens used for
// stateless sessions.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"backend/internal/models"
)

// Validity is the fixed lifetime of an issued token (7 days).
const Validity = 168 * time.Hour

// ErrInvalidToken covers every verification failure: expired, bad signature,
// malformed structure, unsupported algorithm. Callers must treat all of them
// as unauthenticated without distinguishing.
var ErrInvalidToken = errors.New("invalid or expired token")

// Codec signs and verifies tokens with a symmetric secret. The secret is
// injected at construction so tests can run with isolated keys.
type Codec struct {
	secret []byte
}

func NewCodec(secret []byte) *Codec {
	return &Codec{secret: secret}
}

// Issue creates a signed HS256 token for the given user.
func (c *Codec) Issue(userID, email string) (string, error) {
	now := time.Now()
	claims := &models.Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(Validity)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

// Verify parses the token string and returns its claims. Any failure is
// reported as ErrInvalidToken.
func (c *Codec) Verify(tokenString string) (*models.Claims, error) {
	claims := &models.Claims{}
	parsed, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		// Ensure the token's signing method is what we expect
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return c.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
