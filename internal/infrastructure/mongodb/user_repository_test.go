package mongodb

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/gearguard/gearguard-api/internal/domain/entity"
	"github.com/gearguard/gearguard-api/pkg/helpers"
)

func userWithResetCode(t *testing.T, code string, expiresAt time.Time) *entity.User {
	t.Helper()
	hash, err := helpers.HashPassword(code)
	require.NoError(t, err)
	return &entity.User{ResetCodeHash: &hash, ResetCodeExpiresAt: &expiresAt}
}

func TestVerifyResetCode(t *testing.T) {
	r := &UserRepository{}

	u := userWithResetCode(t, "483920", time.Now().Add(10*time.Minute))
	require.True(t, r.VerifyResetCode(u, "483920"))
	require.False(t, r.VerifyResetCode(u, "000000"))
}

func TestVerifyResetCodeExpired(t *testing.T) {
	r := &UserRepository{}

	u := userWithResetCode(t, "483920", time.Now().Add(-time.Second))
	require.False(t, r.VerifyResetCode(u, "483920"))
}

func TestVerifyResetCodeMissingState(t *testing.T) {
	r := &UserRepository{}

	require.False(t, r.VerifyResetCode(nil, "483920"))
	require.False(t, r.VerifyResetCode(&entity.User{}, "483920"))

	// A hash without an expiry never verifies; the pair is written together.
	hash, err := helpers.HashPassword("483920")
	require.NoError(t, err)
	require.False(t, r.VerifyResetCode(&entity.User{ResetCodeHash: &hash}, "483920"))
}
