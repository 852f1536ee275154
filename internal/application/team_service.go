package application

import (
	"context"
	"errors"

	"github.com/gearguard/gearguard-api/internal/domain/entity"
	repo "github.com/gearguard/gearguard-api/internal/domain/repository"
)

var (
	ErrTeamNotFound     = errors.New("team not found")
	ErrDuplicateTeam    = errors.New("team name already taken")
	ErrMemberNotFound   = errors.New("member not found")
	ErrMemberNotAllowed = errors.New("member is not a registered user")
)

// TeamService manages maintenance crews and their membership.
type TeamService struct {
	Teams repo.TeamRepository
	Users repo.UserRepository
}

func NewTeamService(teams repo.TeamRepository, users repo.UserRepository) *TeamService {
	return &TeamService{Teams: teams, Users: users}
}

type CreateTeamInput struct {
	Name           string
	Description    string
	Specialization string
}

func (s *TeamService) Create(ctx context.Context, in CreateTeamInput) (*entity.Team, error) {
	t, err := s.Teams.Create(ctx, &entity.Team{
		Name:           in.Name,
		Description:    in.Description,
		Specialization: in.Specialization,
	})
	if err != nil {
		if errors.Is(err, repo.ErrDuplicateName) {
			return nil, ErrDuplicateTeam
		}
		return nil, err
	}
	return t, nil
}

func (s *TeamService) Get(ctx context.Context, id string) (*entity.Team, error) {
	t, err := s.Teams.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}
	return t, nil
}

func (s *TeamService) List(ctx context.Context) ([]*entity.Team, error) {
	return s.Teams.List(ctx)
}

func (s *TeamService) Update(ctx context.Context, id string, params repo.UpdateTeamParams) (*entity.Team, error) {
	t, err := s.Teams.Update(ctx, id, params)
	if err != nil {
		switch {
		case errors.Is(err, repo.ErrNotFound):
			return nil, ErrTeamNotFound
		case errors.Is(err, repo.ErrDuplicateName):
			return nil, ErrDuplicateTeam
		}
		return nil, err
	}
	return t, nil
}

func (s *TeamService) Delete(ctx context.Context, id string) error {
	if err := s.Teams.Delete(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrTeamNotFound
		}
		return err
	}
	return nil
}

// AddMember verifies the user exists before recording membership.
func (s *TeamService) AddMember(ctx context.Context, teamID, userID string) (*entity.Team, error) {
	if _, err := s.Users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrMemberNotAllowed
		}
		return nil, err
	}
	t, err := s.Teams.AddMember(ctx, teamID, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}
	return t, nil
}

func (s *TeamService) RemoveMember(ctx context.Context, teamID, userID string) (*entity.Team, error) {
	t, err := s.Teams.RemoveMember(ctx, teamID, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}
	return t, nil
}
