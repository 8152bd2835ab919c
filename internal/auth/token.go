// Package auth verifies the opaque session tokens that ride on every
// realtime event. Token issuance belongs to the HTTP login flow; this package
// only needs to resolve a token back to a user identity.
package auth

import (
	"errors"
	"fmt"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned for missing, malformed, expired or otherwise
// unverifiable tokens.
var ErrInvalidToken = errors.New("invalid or expired token")

// TokenVerifier resolves a session token to the owning user identity.
type TokenVerifier interface {
	Resolve(tokenString string) (string, error)
}

// JWTVerifier validates HS256 tokens carrying the user id in the "sub" claim.
type JWTVerifier struct {
	secret []byte
}

func NewJWTVerifier(secret string) *JWTVerifier {
	return &JWTVerifier{secret: []byte(secret)}
}

// Resolve parses and validates the token and returns the subject user id.
func (v *JWTVerifier) Resolve(tokenString string) (string, error) {
	if tokenString == "" {
		return "", ErrInvalidToken
	}

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}

	sub, err := token.Claims.GetSubject()
	if err != nil || sub == "" {
		return "", ErrInvalidToken
	}
	return sub, nil
}

// Issue creates a signed token for the given user. The login handler uses
// this; tests use it to mint fixtures.
func (v *JWTVerifier) Issue(userID string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub": userID,
		"exp": time.Now().Add(ttl).Unix(),
		"iss": "futuremesh-backend",
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(v.secret)
}
