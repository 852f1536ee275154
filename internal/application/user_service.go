package application

import (
	"context"
	"errors"

	"github.com/gearguard/gearguard-api/internal/domain/entity"
	repo "github.com/gearguard/gearguard-api/internal/domain/repository"
)

// UserService serves profile reads and edits for the authenticated user.
type UserService struct {
	Users    repo.UserRepository
	Activity repo.ActivityRepository
}

func NewUserService(users repo.UserRepository, activity repo.ActivityRepository) *UserService {
	return &UserService{Users: users, Activity: activity}
}

func (s *UserService) GetProfile(ctx context.Context, userID string) (*entity.User, error) {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

// UpdateProfileInput uses pointers so "not sent" and "explicitly cleared" are
// distinct; a pointer to the empty string clears the field.
type UpdateProfileInput struct {
	Username   *string
	FirstName  *string
	LastName   *string
	Phone      *string
	AvatarURL  *string
	Location   *string
	Occupation *string
	Bio        *string
}

func (s *UserService) UpdateProfile(ctx context.Context, userID string, in UpdateProfileInput) (*entity.User, error) {
	u, err := s.Users.Update(ctx, userID, repo.UpdateUserParams{
		Username:   in.Username,
		FirstName:  in.FirstName,
		LastName:   in.LastName,
		Phone:      in.Phone,
		AvatarURL:  in.AvatarURL,
		Location:   in.Location,
		Occupation: in.Occupation,
		Bio:        in.Bio,
	})
	if err != nil {
		switch {
		case errors.Is(err, repo.ErrNotFound):
			return nil, ErrUserNotFound
		case errors.Is(err, repo.ErrDuplicateUsername):
			return nil, ErrDuplicateUsername
		}
		return nil, err
	}
	return u, nil
}

// RecentActivity lists the user's latest completed sign-ins, newest first.
func (s *UserService) RecentActivity(ctx context.Context, userID string, limit int64) ([]entity.LoginActivity, error) {
	return s.Activity.ListByUser(ctx, userID, limit)
}
