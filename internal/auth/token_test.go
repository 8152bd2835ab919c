package auth_test

import (
	"testing"
	"time"

	"futuremesh/backend/internal/auth"

	"github.com/stretchr/testify/assert"
)

func TestJWTVerifier_IssueResolveRoundtrip(t *testing.T) {
	verifier := auth.NewJWTVerifier("test-secret")

	token, err := verifier.Issue("user-42", time.Hour)
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	userID, err := verifier.Resolve(token)
	assert.NoError(t, err)
	assert.Equal(t, "user-42", userID)
}

func TestJWTVerifier_EmptyToken(t *testing.T) {
	verifier := auth.NewJWTVerifier("test-secret")

	_, err := verifier.Resolve("")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestJWTVerifier_MalformedToken(t *testing.T) {
	verifier := auth.NewJWTVerifier("test-secret")

	_, err := verifier.Resolve("not.a.jwt")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestJWTVerifier_WrongSecret(t *testing.T) {
	issuer := auth.NewJWTVerifier("secret-one")
	verifier := auth.NewJWTVerifier("secret-two")

	token, err := issuer.Issue("user-42", time.Hour)
	assert.NoError(t, err)

	_, err = verifier.Resolve(token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestJWTVerifier_ExpiredToken(t *testing.T) {
	verifier := auth.NewJWTVerifier("test-secret")

	token, err := verifier.Issue("user-42", -time.Minute)
	assert.NoError(t, err)

	_, err = verifier.Resolve(token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}
