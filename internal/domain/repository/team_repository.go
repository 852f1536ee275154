package repository

import (
	"context"

	"github.com/gearguard/gearguard-api/internal/domain/entity"
)

// UpdateTeamParams follows the non-nil-means-write convention.
type UpdateTeamParams struct {
	Name           *string
	Description    *string
	Specialization *string
}

type TeamRepository interface {
	Create(ctx context.Context, t *entity.Team) (*entity.Team, error)
	GetByID(ctx context.Context, id string) (*entity.Team, error)
	List(ctx context.Context) ([]*entity.Team, error)
	Update(ctx context.Context, id string, params UpdateTeamParams) (*entity.Team, error)
	Delete(ctx context.Context, id string) error
	AddMember(ctx context.Context, id, userID string) (*entity.Team, error)
	RemoveMember(ctx context.Context, id, userID string) (*entity.Team, error)
}
