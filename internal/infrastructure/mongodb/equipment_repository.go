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

const equipmentCollection = "equipment"

type EquipmentRepository struct {
	db *mongo.Database
}

func NewEquipmentRepository(ctx context.Context, logger *logrus.Logger, db *mongo.Database) *EquipmentRepository {
	collection := db.Collection(equipmentCollection)

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "serial_number", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "maintenance_team_id", Value: 1}},
		},
	}
	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		logger.WithError(err).Fatal("failed to create equipment indexes")
	}

	return &EquipmentRepository{db: db}
}

func (r *EquipmentRepository) Create(ctx context.Context, e *entity.Equipment) (*entity.Equipment, error) {
	now := time.Now()
	e.CreatedAt = now
	e.UpdatedAt = now
	if e.Status == "" {
		e.Status = entity.EquipmentActive
	}

	result, err := r.db.Collection(equipmentCollection).InsertOne(ctx, e)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, repository.ErrDuplicateSerial
		}
		return nil, err
	}
	if objectID, ok := result.InsertedID.(bson.ObjectID); ok {
		e.ID = objectID
	}
	return e, nil
}

func (r *EquipmentRepository) GetByID(ctx context.Context, id string) (*entity.Equipment, error) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, repository.ErrNotFound
	}

	var e entity.Equipment
	err = r.db.Collection(equipmentCollection).FindOne(ctx, bson.M{"_id": objectID}).Decode(&e)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &e, nil
}

func (r *EquipmentRepository) List(ctx context.Context, params repository.FilterEquipmentParams) ([]*entity.Equipment, error) {
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
	if params.Category != nil {
		filter["category"] = *params.Category
	}
	if params.TeamID != nil {
		filter["maintenance_team_id"] = *params.TeamID
	}
	if params.Status != nil {
		filter["status"] = *params.Status
	}

	cursor, err := r.db.Collection(equipmentCollection).Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer func() { _ = cursor.Close(ctx) }()

	var items []*entity.Equipment
	if err := cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *EquipmentRepository) Update(ctx context.Context, id string, params repository.UpdateEquipmentParams) (*entity.Equipment, error) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, repository.ErrNotFound
	}

	set := bson.M{}
	if params.Name != nil {
		set["name"] = *params.Name
	}
	if params.Category != nil {
		set["category"] = *params.Category
	}
	if params.Department != nil {
		set["department"] = *params.Department
	}
	if params.MaintenanceTeamID != nil {
		set["maintenance_team_id"] = *params.MaintenanceTeamID
	}
	if params.AssignedTo != nil {
		set["assigned_to"] = *params.AssignedTo
	}
	if params.Vendor != nil {
		set["vendor"] = *params.Vendor
	}
	if params.Cost != nil {
		set["cost"] = *params.Cost
	}
	if params.WarrantyExpiry != nil {
		set["warranty_expiry"] = *params.WarrantyExpiry
	}
	if params.Location != nil {
		set["location"] = *params.Location
	}
	if params.Status != nil {
		set["status"] = *params.Status
	}
	if params.Description != nil {
		set["description"] = *params.Description
	}

	if len(set) == 0 {
		return r.GetByID(ctx, id)
	}
	set["updated_at"] = time.Now()

	var e entity.Equipment
	err = r.db.Collection(equipmentCollection).FindOneAndUpdate(
		ctx,
		bson.M{"_id": objectID},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&e)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &e, nil
}

func (r *EquipmentRepository) Delete(ctx context.Context, id string) error {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return repository.ErrNotFound
	}
	res, err := r.db.Collection(equipmentCollection).DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *EquipmentRepository) CountByStatus(ctx context.Context) ([]repository.BucketCount, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$group", Value: bson.M{"_id": "$status", "count": bson.M{"$sum": 1}}}},
		bson.D{{Key: "$sort", Value: bson.M{"_id": 1}}},
	}
	cursor, err := r.db.Collection(equipmentCollection).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var counts []repository.BucketCount
	if err := cursor.All(ctx, &counts); err != nil {
		return nil, err
	}
	return counts, nil
}

var _ repository.EquipmentRepository = (*EquipmentRepository)(nil)
