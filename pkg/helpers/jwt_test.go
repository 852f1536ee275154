package helpers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	m := &JWTManager{Secret: []byte("secret"), SignupTTL: 24 * time.Hour, SessionTTL: 5 * time.Hour}

	token, exp, err := m.GenerateSession("user-1")
	require.NoError(t, err)
	require.True(t, exp.After(time.Now()))

	claims, err := m.Parse(token)
	require.NoError(t, err)
	require.Equal(t, "user-1", claims.UserID)
}

func TestJWTExpiredIsDistinctFromInvalid(t *testing.T) {
	m := &JWTManager{Secret: []byte("secret")}

	token, _, err := m.Generate("user-1", 0)
	require.NoError(t, err)

	_, err = m.Parse(token)
	require.ErrorIs(t, err, ErrTokenExpired)

	_, err = m.Parse("not-a-token")
	require.ErrorIs(t, err, ErrTokenInvalid)
}

func TestJWTWrongSecretIsInvalid(t *testing.T) {
	m := &JWTManager{Secret: []byte("secret")}
	other := &JWTManager{Secret: []byte("different")}

	token, _, err := m.Generate("user-1", time.Hour)
	require.NoError(t, err)

	_, err = other.Parse(token)
	require.ErrorIs(t, err, ErrTokenInvalid)
}

func TestJWTSignupAndSessionTTLs(t *testing.T) {
	m := &JWTManager{Secret: []byte("secret"), SignupTTL: 24 * time.Hour, SessionTTL: 5 * time.Hour}

	_, signupExp, err := m.GenerateSignup("user-1")
	require.NoError(t, err)
	_, sessionExp, err := m.GenerateSession("user-1")
	require.NoError(t, err)

	require.True(t, signupExp.After(sessionExp.Add(18*time.Hour)))
}
