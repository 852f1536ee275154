package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Team is a maintenance crew. MemberIDs reference user documents.
type Team struct {
	ID             bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Name           string        `bson:"name" json:"name"`
	Description    string        `bson:"description,omitempty" json:"description,omitempty"`
	Specialization string        `bson:"specialization,omitempty" json:"specialization,omitempty"`
	MemberIDs      []string      `bson:"member_ids" json:"memberIds"`
	CreatedAt      time.Time     `bson:"created_at" json:"createdAt"`
	UpdatedAt      time.Time     `bson:"updated_at" json:"updatedAt"`
}
