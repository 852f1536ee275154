package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// LoginOTP is a transient second-factor code. Only the hash of the code is
// stored. Several records may exist per email; verification always considers
// the most recently created one.
type LoginOTP struct {
	ID        bson.ObjectID `bson:"_id,omitempty"`
	Email     string        `bson:"email"`
	CodeHash  string        `bson:"code_hash"`
	CreatedAt time.Time     `bson:"created_at"`
}

// LoginActivity records a completed authentication, one document per event.
type LoginActivity struct {
	ID        bson.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    string        `bson:"user_id" json:"userId"`
	Email     string        `bson:"email" json:"email"`
	Method    string        `bson:"method" json:"method"` // password, otp, google, github
	IP        string        `bson:"ip,omitempty" json:"ip,omitempty"`
	UserAgent string        `bson:"user_agent,omitempty" json:"userAgent,omitempty"`
	CreatedAt time.Time     `bson:"created_at" json:"createdAt"`
}
