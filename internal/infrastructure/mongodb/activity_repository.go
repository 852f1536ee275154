package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/gearguard/gearguard-api/internal/domain/entity"
	"github.com/gearguard/gearguard-api/internal/domain/repository"
)

const activityCollection = "login_activities"

// ActivityRepository is an append-only log of completed authentications.
type ActivityRepository struct {
	db *mongo.Database
}

func NewActivityRepository(db *mongo.Database) *ActivityRepository {
	return &ActivityRepository{db: db}
}

func (r *ActivityRepository) Record(ctx context.Context, a *entity.LoginActivity) error {
	a.CreatedAt = time.Now()
	_, err := r.db.Collection(activityCollection).InsertOne(ctx, a)
	return err
}

func (r *ActivityRepository) ListByUser(ctx context.Context, userID string, limit int64) ([]entity.LoginActivity, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	cursor, err := r.db.Collection(activityCollection).Find(ctx,
		bson.M{"user_id": userID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetLimit(limit),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = cursor.Close(ctx) }()

	var events []entity.LoginActivity
	if err := cursor.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}

var _ repository.ActivityRepository = (*ActivityRepository)(nil)
