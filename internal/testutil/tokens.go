// Package testutil holds helpers shared by tests across packages.
package testutil

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// SigningKey signs every test token
var SigningKey = []byte("classroom-test-key")

// NewToken returns an HS256 token for subject expiring at exp. A zero exp
// leaves the claim out.
func NewToken(t testing.TB, subject string, exp time.Time) string {
	t.Helper()
	tok, err := SignToken(subject, exp)
	require.NoError(t, err)
	return tok
}

// SignToken is NewToken for callers without a testing.TB, such as handlers
func SignToken(subject string, exp time.Time) (string, error) {
	claims := jwt.MapClaims{"iat": time.Now().Unix(), "jti": uuid.NewString()}
	if subject != "" {
		claims["sub"] = subject
	}
	if !exp.IsZero() {
		claims["exp"] = exp.Unix()
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(SigningKey)
}
