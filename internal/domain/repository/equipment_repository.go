package repository

import (
	"context"
	"errors"
	"time"

	"github.com/gearguard/gearguard-api/internal/domain/entity"
)

// ErrDuplicateSerial is returned when the serial-number uniqueness index is
// violated; ErrDuplicateName covers uniquely named collections such as teams.
var (
	ErrDuplicateSerial = errors.New("duplicate serial number")
	ErrDuplicateName   = errors.New("duplicate name")
)

// FilterEquipmentParams filters and paginates the equipment list.
type FilterEquipmentParams struct {
	Category *string
	TeamID   *string
	Status   *string
	Limit    int64
	Offset   int64
}

// UpdateEquipmentParams follows the non-nil-means-write convention.
type UpdateEquipmentParams struct {
	Name              *string
	Category          *string
	Department        *string
	MaintenanceTeamID *string
	AssignedTo        *string
	Vendor            *string
	Cost              *float64
	WarrantyExpiry    *time.Time
	Location          *string
	Status            *string
	Description       *string
}

type EquipmentRepository interface {
	Create(ctx context.Context, e *entity.Equipment) (*entity.Equipment, error)
	GetByID(ctx context.Context, id string) (*entity.Equipment, error)
	List(ctx context.Context, params FilterEquipmentParams) ([]*entity.Equipment, error)
	Update(ctx context.Context, id string, params UpdateEquipmentParams) (*entity.Equipment, error)
	Delete(ctx context.Context, id string) error
	CountByStatus(ctx context.Context) ([]BucketCount, error)
}
