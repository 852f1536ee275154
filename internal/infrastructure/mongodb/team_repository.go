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

const teamCollection = "teams"

type TeamRepository struct {
	db *mongo.Database
}

func NewTeamRepository(ctx context.Context, logger *logrus.Logger, db *mongo.Database) *TeamRepository {
	collection := db.Collection(teamCollection)

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		logger.WithError(err).Fatal("failed to create team indexes")
	}

	return &TeamRepository{db: db}
}

func (r *TeamRepository) Create(ctx context.Context, t *entity.Team) (*entity.Team, error) {
	now := time.Now()
	t.CreatedAt = now
	t.UpdatedAt = now
	if t.MemberIDs == nil {
		t.MemberIDs = []string{}
	}

	result, err := r.db.Collection(teamCollection).InsertOne(ctx, t)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, repository.ErrDuplicateName
		}
		return nil, err
	}
	if objectID, ok := result.InsertedID.(bson.ObjectID); ok {
		t.ID = objectID
	}
	return t, nil
}

func (r *TeamRepository) GetByID(ctx context.Context, id string) (*entity.Team, error) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, repository.ErrNotFound
	}

	var t entity.Team
	err = r.db.Collection(teamCollection).FindOne(ctx, bson.M{"_id": objectID}).Decode(&t)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *TeamRepository) List(ctx context.Context) ([]*entity.Team, error) {
	cursor, err := r.db.Collection(teamCollection).Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer func() { _ = cursor.Close(ctx) }()

	var teams []*entity.Team
	if err := cursor.All(ctx, &teams); err != nil {
		return nil, err
	}
	return teams, nil
}

func (r *TeamRepository) Update(ctx context.Context, id string, params repository.UpdateTeamParams) (*entity.Team, error) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, repository.ErrNotFound
	}

	set := bson.M{}
	if params.Name != nil {
		set["name"] = *params.Name
	}
	if params.Description != nil {
		set["description"] = *params.Description
	}
	if params.Specialization != nil {
		set["specialization"] = *params.Specialization
	}
	if len(set) == 0 {
		return r.GetByID(ctx, id)
	}
	set["updated_at"] = time.Now()

	var t entity.Team
	err = r.db.Collection(teamCollection).FindOneAndUpdate(
		ctx,
		bson.M{"_id": objectID},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&t)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		if mongo.IsDuplicateKeyError(err) {
			return nil, repository.ErrDuplicateName
		}
		return nil, err
	}
	return &t, nil
}

func (r *TeamRepository) Delete(ctx context.Context, id string) error {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return repository.ErrNotFound
	}
	res, err := r.db.Collection(teamCollection).DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *TeamRepository) AddMember(ctx context.Context, id, userID string) (*entity.Team, error) {
	return r.memberOp(ctx, id, bson.M{"$addToSet": bson.M{"member_ids": userID}})
}

func (r *TeamRepository) RemoveMember(ctx context.Context, id, userID string) (*entity.Team, error) {
	return r.memberOp(ctx, id, bson.M{"$pull": bson.M{"member_ids": userID}})
}

func (r *TeamRepository) memberOp(ctx context.Context, id string, update bson.M) (*entity.Team, error) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, repository.ErrNotFound
	}
	update["$set"] = bson.M{"updated_at": time.Now()}

	var t entity.Team
	err = r.db.Collection(teamCollection).FindOneAndUpdate(
		ctx,
		bson.M{"_id": objectID},
		update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&t)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

var _ repository.TeamRepository = (*TeamRepository)(nil)
