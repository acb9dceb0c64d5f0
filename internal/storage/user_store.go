// Package storage provides persistence for user records.
package storage

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/arnavdeep/vidtube-be/internal/models"
)

var (
	// ErrNotFound indicates no user matched the lookup.
	ErrNotFound = errors.New("user not found")
	// ErrDuplicate indicates a username or email collision.
	ErrDuplicate = errors.New("username or email already in use")
)

// UserStore defines the persistence operations for user accounts.
//
// SetRefreshToken, ClearRefreshToken, and SetPassword patch exactly one field
// so that token rotation and password changes never trip over unrelated
// document constraints.
type UserStore interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByUsernameOrEmail(ctx context.Context, username, email string) (*models.User, error)
	Insert(ctx context.Context, user *models.User) (*models.User, error)
	UpdateProfile(ctx context.Context, id, fullname, email string) (*models.User, error)
	SetAvatar(ctx context.Context, id, url string) (*models.User, error)
	SetCoverImage(ctx context.Context, id, url string) (*models.User, error)
	SetRefreshToken(ctx context.Context, id, token string) error
	ClearRefreshToken(ctx context.Context, id string) error
	SetPassword(ctx context.Context, id, passwordHash string) error
}

// MongoUserStore is the MongoDB-backed UserStore.
type MongoUserStore struct {
	collection *mongo.Collection
}

// NewMongoUserStore creates a UserStore over the given database.
func NewMongoUserStore(db *mongo.Database) *MongoUserStore {
	return &MongoUserStore{collection: db.Collection("users")}
}

// FindByID retrieves a user by ID.
func (s *MongoUserStore) FindByID(ctx context.Context, id string) (*models.User, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	var user models.User
	err = s.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// FindByUsernameOrEmail retrieves a user matching either identity field.
func (s *MongoUserStore) FindByUsernameOrEmail(ctx context.Context, username, email string) (*models.User, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"username": username},
		bson.M{"email": email},
	}}

	var user models.User
	err := s.collection.FindOne(ctx, filter).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// Insert creates a new user record.
func (s *MongoUserStore) Insert(ctx context.Context, user *models.User) (*models.User, error) {
	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt

	if _, err := s.collection.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	return user, nil
}

// UpdateProfile updates the full name and email, returning the new document.
func (s *MongoUserStore) UpdateProfile(ctx context.Context, id, fullname, email string) (*models.User, error) {
	return s.patch(ctx, id, bson.M{"fullname": fullname, "email": email})
}

// SetAvatar replaces the avatar URL, returning the new document.
func (s *MongoUserStore) SetAvatar(ctx context.Context, id, url string) (*models.User, error) {
	return s.patch(ctx, id, bson.M{"avatar": url})
}

// SetCoverImage replaces the cover image URL, returning the new document.
func (s *MongoUserStore) SetCoverImage(ctx context.Context, id, url string) (*models.User, error) {
	return s.patch(ctx, id, bson.M{"cover_image": url})
}

// SetRefreshToken overwrites the stored refresh token, invalidating any
// previously issued one.
func (s *MongoUserStore) SetRefreshToken(ctx context.Context, id, token string) error {
	return s.setField(ctx, id, "refresh_token", token)
}

// ClearRefreshToken removes the stored refresh token.
func (s *MongoUserStore) ClearRefreshToken(ctx context.Context, id string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	update := bson.M{
		"$unset": bson.M{"refresh_token": ""},
		"$set":   bson.M{"updated_at": time.Now()},
	}
	result, err := s.collection.UpdateByID(ctx, objectID, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// SetPassword overwrites the stored password hash.
func (s *MongoUserStore) SetPassword(ctx context.Context, id, passwordHash string) error {
	return s.setField(ctx, id, "password_hash", passwordHash)
}

func (s *MongoUserStore) setField(ctx context.Context, id, field, value string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	update := bson.M{"$set": bson.M{field: value, "updated_at": time.Now()}}
	result, err := s.collection.UpdateByID(ctx, objectID, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoUserStore) patch(ctx context.Context, id string, fields bson.M) (*models.User, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	fields["updated_at"] = time.Now()
	result := s.collection.FindOneAndUpdate(
		ctx,
		bson.M{"_id": objectID},
		bson.M{"$set": fields},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	if result.Err() != nil {
		if errors.Is(result.Err(), mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		if mongo.IsDuplicateKeyError(result.Err()) {
			return nil, ErrDuplicate
		}
		return nil, result.Err()
	}

	var updated models.User
	if err := result.Decode(&updated); err != nil {
		return nil, err
	}
	return &updated, nil
}
