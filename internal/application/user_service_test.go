package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	repo "github.com/gearguard/gearguard-api/internal/domain/repository"
)

func newTestUserService(t *testing.T) (*UserService, string) {
	t.Helper()
	users := newFakeUserRepo()

	in := signupInput()
	created, err := users.Create(context.Background(), repo.CreateUserParams{
		Email:     in.Email,
		Password:  &in.Password,
		FirstName: in.FirstName,
		LastName:  in.LastName,
	})
	require.NoError(t, err)
	return NewUserService(users, &fakeActivityRepo{}), created.ID.Hex()
}

func TestUpdateProfilePartial(t *testing.T) {
	svc, id := newTestUserService(t)

	bio := "machinist"
	updated, err := svc.UpdateProfile(context.Background(), id, UpdateProfileInput{Bio: &bio})
	require.NoError(t, err)
	require.Equal(t, "machinist", updated.Bio)
	// Absent fields stay untouched.
	require.Equal(t, "Ada", updated.FirstName)
	require.Equal(t, "Lovelace", updated.LastName)
}

func TestUpdateProfileClearsWithEmptyString(t *testing.T) {
	svc, id := newTestUserService(t)

	bio := "temporary"
	_, err := svc.UpdateProfile(context.Background(), id, UpdateProfileInput{Bio: &bio})
	require.NoError(t, err)

	// A pointer to "" is an explicit clear, not a no-op.
	empty := ""
	updated, err := svc.UpdateProfile(context.Background(), id, UpdateProfileInput{Bio: &empty})
	require.NoError(t, err)
	require.Empty(t, updated.Bio)
}

func TestGetProfileUnknownUser(t *testing.T) {
	svc, _ := newTestUserService(t)

	_, err := svc.GetProfile(context.Background(), "missing")
	require.ErrorIs(t, err, ErrUserNotFound)
}
