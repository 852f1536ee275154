package mongodb

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/gearguard/gearguard-api/internal/domain/entity"
	"github.com/gearguard/gearguard-api/internal/domain/repository"
	"github.com/gearguard/gearguard-api/pkg/helpers"
)

const userCollection = "users"

// UserRepository is the MongoDB credential store. All password and
// reset-code material is bcrypt-hashed inside this type; plaintext never
// reaches the database.
type UserRepository struct {
	db *mongo.Database
}

func NewUserRepository(ctx context.Context, logger *logrus.Logger, db *mongo.Database) *UserRepository {
	collection := db.Collection(userCollection)

	// Partial filters keep the optional identifiers unique-or-absent.
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetUnique(true).
				SetPartialFilterExpression(bson.M{"username": bson.M{"$type": "string"}}),
		},
		{
			Keys: bson.D{{Key: "google_id", Value: 1}},
			Options: options.Index().SetUnique(true).
				SetPartialFilterExpression(bson.M{"google_id": bson.M{"$type": "string"}}),
		},
		{
			Keys: bson.D{{Key: "github_id", Value: 1}},
			Options: options.Index().SetUnique(true).
				SetPartialFilterExpression(bson.M{"github_id": bson.M{"$type": "string"}}),
		},
	}

	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		logger.WithError(err).Fatal("failed to create user indexes")
	}

	return &UserRepository{db: db}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// mapWriteErr converts a duplicate-key violation into the matching sentinel.
// The index name in the driver error identifies the offending field.
func mapWriteErr(err error) error {
	if err == nil {
		return nil
	}
	if mongo.IsDuplicateKeyError(err) {
		if strings.Contains(err.Error(), "username") {
			return repository.ErrDuplicateUsername
		}
		return repository.ErrDuplicateEmail
	}
	return err
}

func (r *UserRepository) Create(ctx context.Context, params repository.CreateUserParams) (*entity.User, error) {
	now := time.Now()
	u := &entity.User{
		Email:     normalizeEmail(params.Email),
		Username:  params.Username,
		FirstName: params.FirstName,
		LastName:  params.LastName,
		Phone:     params.Phone,
		GoogleID:  params.GoogleID,
		GithubID:  params.GithubID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if params.Password != nil {
		hash, err := helpers.HashPassword(*params.Password)
		if err != nil {
			return nil, err
		}
		u.PasswordHash = &hash
	}

	result, err := r.db.Collection(userCollection).InsertOne(ctx, u)
	if err != nil {
		return nil, mapWriteErr(err)
	}
	if objectID, ok := result.InsertedID.(bson.ObjectID); ok {
		u.ID = objectID
	} else {
		return nil, errors.New("failed to convert inserted ID to ObjectID")
	}
	return u, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, repository.ErrNotFound
	}

	var u entity.User
	err = r.db.Collection(userCollection).FindOne(ctx, bson.M{"_id": objectID}).Decode(&u)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	var u entity.User
	err := r.db.Collection(userCollection).FindOne(ctx, bson.M{"email": normalizeEmail(email)}).Decode(&u)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) Update(ctx context.Context, id string, params repository.UpdateUserParams) (*entity.User, error) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, repository.ErrNotFound
	}

	// Only non-nil params are written; a pointer to "" clears the field.
	set := bson.M{}
	unset := bson.M{}
	strField := func(key string, v *string) {
		if v == nil {
			return
		}
		if *v == "" {
			unset[key] = ""
			return
		}
		set[key] = *v
	}
	strField("username", params.Username)
	strField("phone", params.Phone)
	strField("google_id", params.GoogleID)
	strField("github_id", params.GithubID)
	if params.FirstName != nil {
		set["first_name"] = *params.FirstName
	}
	if params.LastName != nil {
		set["last_name"] = *params.LastName
	}
	if params.AvatarURL != nil {
		set["avatar_url"] = *params.AvatarURL
	}
	if params.Location != nil {
		set["location"] = *params.Location
	}
	if params.Occupation != nil {
		set["occupation"] = *params.Occupation
	}
	if params.Bio != nil {
		set["bio"] = *params.Bio
	}
	if params.Password != nil {
		hash, herr := helpers.HashPassword(*params.Password)
		if herr != nil {
			return nil, herr
		}
		set["password_hash"] = hash
	}

	if len(set) == 0 && len(unset) == 0 {
		return r.GetByID(ctx, id)
	}
	set["updated_at"] = time.Now()

	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}

	var u entity.User
	err = r.db.Collection(userCollection).FindOneAndUpdate(
		ctx,
		bson.M{"_id": objectID},
		update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&u)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, mapWriteErr(err)
	}
	return &u, nil
}

func (r *UserRepository) VerifyPassword(u *entity.User, plaintext string) bool {
	if u == nil || u.PasswordHash == nil {
		return false
	}
	return helpers.CompareHashAndPassword(*u.PasswordHash, plaintext)
}

func (r *UserRepository) SetResetCode(ctx context.Context, id string, code string, expiresAt time.Time) error {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return repository.ErrNotFound
	}
	hash, err := helpers.HashPassword(code)
	if err != nil {
		return err
	}
	res, err := r.db.Collection(userCollection).UpdateOne(ctx,
		bson.M{"_id": objectID},
		bson.M{"$set": bson.M{
			"reset_code_hash":       hash,
			"reset_code_expires_at": expiresAt,
			"updated_at":            time.Now(),
		}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *UserRepository) ResetPassword(ctx context.Context, id string, newPassword string) error {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return repository.ErrNotFound
	}
	hash, err := helpers.HashPassword(newPassword)
	if err != nil {
		return err
	}
	res, err := r.db.Collection(userCollection).UpdateOne(ctx,
		bson.M{"_id": objectID},
		bson.M{
			"$set":   bson.M{"password_hash": hash, "updated_at": time.Now()},
			"$unset": bson.M{"reset_code_hash": "", "reset_code_expires_at": ""},
		},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *UserRepository) VerifyResetCode(u *entity.User, code string) bool {
	if u == nil || u.ResetCodeHash == nil {
		return false
	}
	if u.ResetCodeExpiresAt == nil || time.Now().After(*u.ResetCodeExpiresAt) {
		return false
	}
	return helpers.CompareHashAndPassword(*u.ResetCodeHash, code)
}

var _ repository.UserRepository = (*UserRepository)(nil)
