package repository

import (
	"context"
	"errors"
	"time"

	"github.com/gearguard/gearguard-api/internal/domain/entity"
)

// Storage-level sentinels. Infrastructure maps driver errors onto these so
// application code never inspects MongoDB errors directly.
var (
	ErrNotFound          = errors.New("not found")
	ErrDuplicateEmail    = errors.New("duplicate email")
	ErrDuplicateUsername = errors.New("duplicate username")
)

// CreateUserParams carries the fields for a new user record. Password is
// plaintext and is hashed by the repository before persisting; it is nil for
// federated accounts.
type CreateUserParams struct {
	Email     string
	Username  *string
	Password  *string
	FirstName string
	LastName  string
	Phone     *string
	GoogleID  *string
	GithubID  *string
}

// UpdateUserParams defines the optional fields for updating a user. Only
// non-nil fields are written, so "not sent" and "explicitly cleared" are
// distinct: a pointer to the empty string clears the field.
type UpdateUserParams struct {
	Username   *string
	Password   *string // plaintext, hashed by the repository
	FirstName  *string
	LastName   *string
	Phone      *string
	AvatarURL  *string
	Location   *string
	Occupation *string
	Bio        *string
	GoogleID   *string
	GithubID   *string
}

// UserRepository is the credential store: durable lookup and persistence of
// user records. It owns password hashing end to end, so no caller can
// accidentally persist plaintext.
type UserRepository interface {
	Create(ctx context.Context, params CreateUserParams) (*entity.User, error)
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Update(ctx context.Context, id string, params UpdateUserParams) (*entity.User, error)
	VerifyPassword(u *entity.User, plaintext string) bool

	// SetResetCode stores the hash of a password-reset code with its expiry.
	SetResetCode(ctx context.Context, id string, code string, expiresAt time.Time) error
	// ResetPassword hashes and writes the new password and clears the reset pair.
	ResetPassword(ctx context.Context, id string, newPassword string) error
	VerifyResetCode(u *entity.User, code string) bool
}
