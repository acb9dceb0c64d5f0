package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents a user account in the system.
type User struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username   string             `bson:"username" json:"username"`
	Email      string             `bson:"email" json:"email"`
	FullName   string             `bson:"fullname" json:"fullname"`
	Avatar     string             `bson:"avatar" json:"avatar"`
	CoverImage string             `bson:"cover_image,omitempty" json:"coverImage,omitempty"`

	PasswordHash string `bson:"password_hash" json:"-"` // Never expose this to the client
	// RefreshToken is the single live refresh token for this account; empty
	// when the user is logged out.
	RefreshToken string `bson:"refresh_token,omitempty" json:"-"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// Sanitized returns a copy safe to hand to clients.
func (u User) Sanitized() User {
	u.PasswordHash = ""
	u.RefreshToken = ""
	return u
}
