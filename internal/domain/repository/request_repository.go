package repository

import (
	"context"
	"time"

	"github.com/gearguard/gearguard-api/internal/domain/entity"
)

// FilterRequestsParams filters the maintenance request list.
type FilterRequestsParams struct {
	EquipmentID *string
	TeamID      *string
	Stage       *string
	RequestType *string
	Limit       int64
	Offset      int64
}

// UpdateRequestParams follows the non-nil-means-write convention. Stage is
// deliberately absent; stage moves go through SetStage so transition rules
// cannot be skipped.
type UpdateRequestParams struct {
	Subject       *string
	Description   *string
	TeamID        *string
	RequestType   *string
	Priority      *int
	ScheduledDate *time.Time
	DurationHours *float64
	AssignedTo    *string
}

// BucketCount is one aggregation bucket keyed by a document field value.
type BucketCount struct {
	Key   string `bson:"_id"`
	Count int64  `bson:"count"`
}

type RequestRepository interface {
	Create(ctx context.Context, r *entity.MaintenanceRequest) (*entity.MaintenanceRequest, error)
	GetByID(ctx context.Context, id string) (*entity.MaintenanceRequest, error)
	List(ctx context.Context, params FilterRequestsParams) ([]*entity.MaintenanceRequest, error)
	Update(ctx context.Context, id string, params UpdateRequestParams) (*entity.MaintenanceRequest, error)
	SetStage(ctx context.Context, id, stage string, closedAt *time.Time) (*entity.MaintenanceRequest, error)
	Delete(ctx context.Context, id string) error

	// Calendar view: requests whose scheduled date falls in [from, to).
	ListScheduledBetween(ctx context.Context, from, to time.Time) ([]*entity.MaintenanceRequest, error)

	// Dashboard aggregations.
	CountByStage(ctx context.Context) ([]BucketCount, error)
	CountByType(ctx context.Context) ([]BucketCount, error)
	CountOpenByTeam(ctx context.Context) ([]BucketCount, error)
	CountOverdue(ctx context.Context, now time.Time) (int64, error)
}
