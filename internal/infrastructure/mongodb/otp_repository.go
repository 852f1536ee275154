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

const otpCollection = "login_otps"

// OTPRepository stores one-time login codes as bcrypt hashes. No uniqueness
// is enforced per email: any number of outstanding codes may exist, only the
// latest one can ever verify, and superseded records simply become
// permanently unusable.
type OTPRepository struct {
	db  *mongo.Database
	ttl time.Duration
}

func NewOTPRepository(ctx context.Context, logger *logrus.Logger, db *mongo.Database, ttl time.Duration) *OTPRepository {
	collection := db.Collection(otpCollection)

	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "email", Value: 1}, {Key: "created_at", Value: -1}, {Key: "_id", Value: -1}},
		},
	}
	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		logger.WithError(err).Fatal("failed to create otp indexes")
	}

	return &OTPRepository{db: db, ttl: ttl}
}

// Issue generates a fresh 6-digit code, persists its hash, and returns the
// plaintext for out-of-band delivery.
func (r *OTPRepository) Issue(ctx context.Context, email string) (string, error) {
	code, err := helpers.GenOTPCode()
	if err != nil {
		return "", err
	}
	hash, err := helpers.HashPassword(code)
	if err != nil {
		return "", err
	}
	rec := &entity.LoginOTP{
		Email:     strings.ToLower(strings.TrimSpace(email)),
		CodeHash:  hash,
		CreatedAt: time.Now(),
	}
	if _, err := r.db.Collection(otpCollection).InsertOne(ctx, rec); err != nil {
		return "", err
	}
	return code, nil
}

// Verify checks the supplied code against the most recently issued record
// for the email. On a match within the validity window the record is deleted
// and true is returned. Absence and mismatch are normal false paths; a
// matching but stale code reports ErrOTPExpired.
func (r *OTPRepository) Verify(ctx context.Context, email, code string) (bool, error) {
	var rec entity.LoginOTP
	err := r.db.Collection(otpCollection).FindOne(ctx,
		bson.M{"email": strings.ToLower(strings.TrimSpace(email))},
		// BSON datetimes carry millisecond precision, so created_at alone can
		// tie for codes issued back to back; ObjectIDs break the tie in
		// insertion order.
		options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}),
	).Decode(&rec)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return false, nil
		}
		return false, err
	}

	if !helpers.CompareHashAndPassword(rec.CodeHash, code) {
		return false, nil
	}
	if r.ttl > 0 && time.Since(rec.CreatedAt) > r.ttl {
		return false, repository.ErrOTPExpired
	}

	if _, err := r.db.Collection(otpCollection).DeleteOne(ctx, bson.M{"_id": rec.ID}); err != nil {
		return false, err
	}
	return true, nil
}

var _ repository.OTPRepository = (*OTPRepository)(nil)
