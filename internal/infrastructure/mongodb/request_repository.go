package mongodb

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/gearguard/gearguard-api/internal/domain/entity"
	"github.com/gearguard/gearguard-api/internal/domain/repository"
)

const requestCollection = "maintenance_requests"

type RequestRepository struct {
	db *mongo.Database
}

func NewRequestRepository(ctx context.Context, logger *logrus.Logger, db *mongo.Database) *RequestRepository {
	collection := db.Collection(requestCollection)

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "equipment_id", Value: 1}}},
		{Keys: bson.D{{Key: "team_id", Value: 1}, {Key: "stage", Value: 1}}},
		{Keys: bson.D{{Key: "scheduled_date", Value: 1}}},
	}
	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		logger.WithError(err).Fatal("failed to create request indexes")
	}

	return &RequestRepository{db: db}
}

func (r *RequestRepository) Create(ctx context.Context, req *entity.MaintenanceRequest) (*entity.MaintenanceRequest, error) {
	now := time.Now()
	req.CreatedAt = now
	req.UpdatedAt = now
	if req.Stage == "" {
		req.Stage = entity.StageNew
	}

	result, err := r.db.Collection(requestCollection).InsertOne(ctx, req)
	if err != nil {
		return nil, err
	}
	if objectID, ok := result.InsertedID.(bson.ObjectID); ok {
		req.ID = objectID
	}
	return req, nil
}

func (r *RequestRepository) GetByID(ctx context.Context, id string) (*entity.MaintenanceRequest, error) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, repository.ErrNotFound
	}

	var req entity.MaintenanceRequest
	err = r.db.Collection(requestCollection).FindOne(ctx, bson.M{"_id": objectID}).Decode(&req)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &req, nil
}

func (r *RequestRepository) List(ctx context.Context, params repository.FilterRequestsParams) ([]*entity.MaintenanceRequest, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	limit := params.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	findOptions.SetLimit(limit)
	if params.Offset > 0 {
		findOptions.SetSkip(params.Offset)
	}

	filter := bson.M{}
	if params.EquipmentID != nil {
		filter["equipment_id"] = *params.EquipmentID
	}
	if params.TeamID != nil {
		filter["team_id"] = *params.TeamID
	}
	if params.Stage != nil {
		filter["stage"] = *params.Stage
	}
	if params.RequestType != nil {
		filter["request_type"] = *params.RequestType
	}

	cursor, err := r.db.Collection(requestCollection).Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer func() { _ = cursor.Close(ctx) }()

	var requests []*entity.MaintenanceRequest
	if err := cursor.All(ctx, &requests); err != nil {
		return nil, err
	}
	return requests, nil
}

func (r *RequestRepository) Update(ctx context.Context, id string, params repository.UpdateRequestParams) (*entity.MaintenanceRequest, error) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, repository.ErrNotFound
	}

	set := bson.M{}
	if params.Subject != nil {
		set["subject"] = *params.Subject
	}
	if params.Description != nil {
		set["description"] = *params.Description
	}
	if params.TeamID != nil {
		set["team_id"] = *params.TeamID
	}
	if params.RequestType != nil {
		set["request_type"] = *params.RequestType
	}
	if params.Priority != nil {
		set["priority"] = *params.Priority
	}
	if params.ScheduledDate != nil {
		set["scheduled_date"] = *params.ScheduledDate
	}
	if params.DurationHours != nil {
		set["duration_hours"] = *params.DurationHours
	}
	if params.AssignedTo != nil {
		set["assigned_to"] = *params.AssignedTo
	}
	if len(set) == 0 {
		return r.GetByID(ctx, id)
	}
	set["updated_at"] = time.Now()

	var req entity.MaintenanceRequest
	err = r.db.Collection(requestCollection).FindOneAndUpdate(
		ctx,
		bson.M{"_id": objectID},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&req)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &req, nil
}

func (r *RequestRepository) SetStage(ctx context.Context, id, stage string, closedAt *time.Time) (*entity.MaintenanceRequest, error) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, repository.ErrNotFound
	}

	set := bson.M{"stage": stage, "updated_at": time.Now()}
	if closedAt != nil {
		set["closed_at"] = *closedAt
	}

	var req entity.MaintenanceRequest
	err = r.db.Collection(requestCollection).FindOneAndUpdate(
		ctx,
		bson.M{"_id": objectID},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&req)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &req, nil
}

func (r *RequestRepository) Delete(ctx context.Context, id string) error {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return repository.ErrNotFound
	}
	res, err := r.db.Collection(requestCollection).DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *RequestRepository) ListScheduledBetween(ctx context.Context, from, to time.Time) ([]*entity.MaintenanceRequest, error) {
	cursor, err := r.db.Collection(requestCollection).Find(ctx,
		bson.M{"scheduled_date": bson.M{"$gte": from, "$lt": to}},
		options.Find().SetSort(bson.D{{Key: "scheduled_date", Value: 1}}),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = cursor.Close(ctx) }()

	var requests []*entity.MaintenanceRequest
	if err := cursor.All(ctx, &requests); err != nil {
		return nil, err
	}
	return requests, nil
}

func (r *RequestRepository) CountByStage(ctx context.Context) ([]repository.BucketCount, error) {
	return r.groupCount(ctx, "$stage", bson.M{})
}

func (r *RequestRepository) CountByType(ctx context.Context) ([]repository.BucketCount, error) {
	return r.groupCount(ctx, "$request_type", bson.M{})
}

func (r *RequestRepository) CountOpenByTeam(ctx context.Context) ([]repository.BucketCount, error) {
	return r.groupCount(ctx, "$team_id", bson.M{
		"stage": bson.M{"$in": []string{entity.StageNew, entity.StageInProgress}},
	})
}

func (r *RequestRepository) groupCount(ctx context.Context, key string, match bson.M) ([]repository.BucketCount, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: bson.M{"_id": key, "count": bson.M{"$sum": 1}}}},
		{{Key: "$sort", Value: bson.M{"count": -1}}},
	}
	cursor, err := r.db.Collection(requestCollection).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer func() { _ = cursor.Close(ctx) }()

	var counts []repository.BucketCount
	if err := cursor.All(ctx, &counts); err != nil {
		return nil, err
	}
	return counts, nil
}

func (r *RequestRepository) CountOverdue(ctx context.Context, now time.Time) (int64, error) {
	return r.db.Collection(requestCollection).CountDocuments(ctx, bson.M{
		"scheduled_date": bson.M{"$lt": now},
		"stage":          bson.M{"$in": []string{entity.StageNew, entity.StageInProgress}},
	})
}

var _ repository.RequestRepository = (*RequestRepository)(nil)
