package repository

import (
	"context"

	"github.com/gearguard/gearguard-api/internal/domain/entity"
)

// ActivityRepository appends and lists login activity events.
type ActivityRepository interface {
	Record(ctx context.Context, a *entity.LoginActivity) error
	ListByUser(ctx context.Context, userID string, limit int64) ([]entity.LoginActivity, error)
}
