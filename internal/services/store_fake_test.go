package services

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/arnavdeep/vidtube-be/internal/models"
	"github.com/arnavdeep/vidtube-be/internal/storage"
)

// fakeUserStore is an in-memory UserStore for service tests.
type fakeUserStore struct {
	users map[string]*models.User

	findByIDErr error
	insertErr   error
	setTokenErr error
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[string]*models.User{}}
}

// seed inserts a user directly and returns its ID.
func (f *fakeUserStore) seed(user models.User) string {
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	f.users[user.ID.Hex()] = &user
	return user.ID.Hex()
}

func (f *fakeUserStore) FindByID(ctx context.Context, id string) (*models.User, error) {
	if f.findByIDErr != nil {
		return nil, f.findByIDErr
	}
	user, ok := f.users[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func (f *fakeUserStore) FindByUsernameOrEmail(ctx context.Context, username, email string) (*models.User, error) {
	for _, user := range f.users {
		if (username != "" && user.Username == username) || (email != "" && user.Email == email) {
			copied := *user
			return &copied, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (f *fakeUserStore) Insert(ctx context.Context, user *models.User) (*models.User, error) {
	if f.insertErr != nil {
		return nil, f.insertErr
	}
	if _, err := f.FindByUsernameOrEmail(ctx, user.Username, user.Email); err == nil {
		return nil, storage.ErrDuplicate
	}
	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	copied := *user
	f.users[user.ID.Hex()] = &copied
	return user, nil
}

func (f *fakeUserStore) UpdateProfile(ctx context.Context, id, fullname, email string) (*models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	user.FullName = fullname
	user.Email = email
	copied := *user
	return &copied, nil
}

func (f *fakeUserStore) SetAvatar(ctx context.Context, id, url string) (*models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	user.Avatar = url
	copied := *user
	return &copied, nil
}

func (f *fakeUserStore) SetCoverImage(ctx context.Context, id, url string) (*models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	user.CoverImage = url
	copied := *user
	return &copied, nil
}

func (f *fakeUserStore) SetRefreshToken(ctx context.Context, id, token string) error {
	if f.setTokenErr != nil {
		return f.setTokenErr
	}
	user, ok := f.users[id]
	if !ok {
		return storage.ErrNotFound
	}
	user.RefreshToken = token
	return nil
}

func (f *fakeUserStore) ClearRefreshToken(ctx context.Context, id string) error {
	user, ok := f.users[id]
	if !ok {
		return storage.ErrNotFound
	}
	user.RefreshToken = ""
	return nil
}

func (f *fakeUserStore) SetPassword(ctx context.Context, id, passwordHash string) error {
	user, ok := f.users[id]
	if !ok {
		return storage.ErrNotFound
	}
	user.PasswordHash = passwordHash
	return nil
}

var errStoreDown = errors.New("storage unavailable")
