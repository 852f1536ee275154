package application

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/gearguard/gearguard-api/internal/domain/entity"
	repo "github.com/gearguard/gearguard-api/internal/domain/repository"
	"github.com/gearguard/gearguard-api/pkg/mailer"
)

var (
	ErrRequestNotFound  = errors.New("maintenance request not found")
	ErrBadStageMove     = errors.New("stage transition not allowed")
	ErrRequestClosed    = errors.New("request is closed")
	ErrUnknownStage     = errors.New("unknown stage")
	ErrUnknownType      = errors.New("unknown request type")
	ErrEquipmentsNeeded = errors.New("equipment does not exist")
)

// RequestService moves maintenance requests through their stage lifecycle and
// keeps the equipment status in sync when work ends in scrap.
type RequestService struct {
	Requests  repo.RequestRepository
	Equipment *EquipmentService
	Users     repo.UserRepository
	Mail      mailer.Sender
	Logger    *logrus.Logger
}

func NewRequestService(requests repo.RequestRepository, equipment *EquipmentService, users repo.UserRepository, mail mailer.Sender, logger *logrus.Logger) *RequestService {
	return &RequestService{Requests: requests, Equipment: equipment, Users: users, Mail: mail, Logger: logger}
}

type CreateRequestInput struct {
	Subject       string
	Description   string
	EquipmentID   string
	TeamID        string
	RequestType   string
	Priority      int
	ScheduledDate *time.Time
	DurationHours float64
	CreatedBy     string
	AssignedTo    string
}

func (s *RequestService) Create(ctx context.Context, in CreateRequestInput) (*entity.MaintenanceRequest, error) {
	if in.RequestType != entity.TypeCorrective && in.RequestType != entity.TypePreventive {
		return nil, ErrUnknownType
	}
	eq, err := s.Equipment.Get(ctx, in.EquipmentID)
	if err != nil {
		if errors.Is(err, ErrEquipmentNotFound) {
			return nil, ErrEquipmentsNeeded
		}
		return nil, err
	}

	req := &entity.MaintenanceRequest{
		Subject:       in.Subject,
		Description:   in.Description,
		EquipmentID:   in.EquipmentID,
		TeamID:        in.TeamID,
		RequestType:   in.RequestType,
		Priority:      in.Priority,
		ScheduledDate: in.ScheduledDate,
		DurationHours: in.DurationHours,
		CreatedBy:     in.CreatedBy,
		AssignedTo:    in.AssignedTo,
	}
	if req.TeamID == "" {
		req.TeamID = eq.MaintenanceTeamID
	}

	created, err := s.Requests.Create(ctx, req)
	if err != nil {
		return nil, err
	}
	if created.AssignedTo != "" {
		s.notifyAssignee(ctx, created, eq.Name)
	}
	return created, nil
}

func (s *RequestService) Get(ctx context.Context, id string) (*entity.MaintenanceRequest, error) {
	req, err := s.Requests.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}
	return req, nil
}

func (s *RequestService) List(ctx context.Context, params repo.FilterRequestsParams) ([]*entity.MaintenanceRequest, error) {
	return s.Requests.List(ctx, params)
}

func (s *RequestService) Update(ctx context.Context, id string, params repo.UpdateRequestParams) (*entity.MaintenanceRequest, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.Closed() {
		return nil, ErrRequestClosed
	}

	updated, err := s.Requests.Update(ctx, id, params)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}
	if params.AssignedTo != nil && *params.AssignedTo != "" && *params.AssignedTo != current.AssignedTo {
		eqName := ""
		if eq, eErr := s.Equipment.Get(ctx, updated.EquipmentID); eErr == nil {
			eqName = eq.Name
		}
		s.notifyAssignee(ctx, updated, eqName)
	}
	return updated, nil
}

// MoveStage validates and applies a stage transition. A move into scrap also
// scraps the underlying equipment.
func (s *RequestService) MoveStage(ctx context.Context, id, stage string) (*entity.MaintenanceRequest, error) {
	switch stage {
	case entity.StageNew, entity.StageInProgress, entity.StageRepaired, entity.StageScrap:
	default:
		return nil, ErrUnknownStage
	}

	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !entity.CanTransition(current.Stage, stage) {
		return nil, ErrBadStageMove
	}

	var closedAt *time.Time
	if stage == entity.StageRepaired || stage == entity.StageScrap {
		now := time.Now()
		closedAt = &now
	}
	updated, err := s.Requests.SetStage(ctx, id, stage, closedAt)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}

	if stage == entity.StageScrap {
		if _, sErr := s.Equipment.Scrap(ctx, updated.EquipmentID); sErr != nil {
			s.Logger.WithError(sErr).WithField("equipment_id", updated.EquipmentID).Warn("scrap equipment failed")
		}
	}
	return updated, nil
}

func (s *RequestService) Delete(ctx context.Context, id string) error {
	if err := s.Requests.Delete(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrRequestNotFound
		}
		return err
	}
	return nil
}

// Calendar lists requests scheduled within [from, to).
func (s *RequestService) Calendar(ctx context.Context, from, to time.Time) ([]*entity.MaintenanceRequest, error) {
	return s.Requests.ListScheduledBetween(ctx, from, to)
}

func (s *RequestService) notifyAssignee(ctx context.Context, req *entity.MaintenanceRequest, equipmentName string) {
	u, err := s.Users.GetByID(ctx, req.AssignedTo)
	if err != nil {
		s.Logger.WithError(err).WithField("user_id", req.AssignedTo).Warn("assignee lookup failed")
		return
	}
	if err := s.Mail.SendAssignment(ctx, u.Email, u.FirstName, req.Subject, equipmentName); err != nil {
		s.Logger.WithError(err).WithField("email", u.Email).Warn("send assignment mail failed")
	}
}
