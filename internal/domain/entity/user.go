package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// User is the aggregate root for identity and profile data.
// PasswordHash is a bcrypt hash and is nil for federated-only accounts;
// GoogleID/GithubID carry the external provider linkage when present.
type User struct {
	ID           bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Email        string        `bson:"email" json:"email"`
	Username     *string       `bson:"username,omitempty" json:"username,omitempty"`
	PasswordHash *string       `bson:"password_hash,omitempty" json:"-"`
	FirstName    string        `bson:"first_name" json:"firstName"`
	LastName     string        `bson:"last_name" json:"lastName"`
	Phone        *string       `bson:"phone,omitempty" json:"phone,omitempty"`
	GoogleID     *string       `bson:"google_id,omitempty" json:"-"`
	GithubID     *string       `bson:"github_id,omitempty" json:"-"`
	AvatarURL    string        `bson:"avatar_url,omitempty" json:"avatarUrl,omitempty"`
	Location     string        `bson:"location,omitempty" json:"location,omitempty"`
	Occupation   string        `bson:"occupation,omitempty" json:"occupation,omitempty"`
	Bio          string        `bson:"bio,omitempty" json:"bio,omitempty"`

	// Password reset pair; cleared together on successful reset.
	ResetCodeHash      *string    `bson:"reset_code_hash,omitempty" json:"-"`
	ResetCodeExpiresAt *time.Time `bson:"reset_code_expires_at,omitempty" json:"-"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// PublicUser is the shape returned by authentication endpoints; internal
// fields (hashes, provider ids, reset pair) are never exposed.
type PublicUser struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Username  string `json:"username,omitempty"`
}

// Public projects the user to its public representation.
func (u *User) Public() PublicUser {
	p := PublicUser{
		ID:        u.ID.Hex(),
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}
	if u.Username != nil {
		p.Username = *u.Username
	}
	return p
}
