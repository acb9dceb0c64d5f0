package services

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/arnavdeep/vidtube-be/internal/apperr"
	"github.com/arnavdeep/vidtube-be/internal/media"
	"github.com/arnavdeep/vidtube-be/internal/models"
	"github.com/arnavdeep/vidtube-be/internal/storage"
)

// RegisterInput carries the registration form fields and the staged upload
// paths for the avatar (required) and cover image (optional).
type RegisterInput struct {
	FullName       string
	Email          string
	Username       string
	Password       string
	AvatarPath     string
	CoverImagePath string
}

// UserServiceProvider defines the interface for user account services.
type UserServiceProvider interface {
	Register(ctx context.Context, input RegisterInput) (models.User, error)
	GetByID(ctx context.Context, id string) (models.User, error)
	UpdateAccount(ctx context.Context, id, fullname, email string) (models.User, error)
	UpdateAvatar(ctx context.Context, id, localPath string) (models.User, error)
	UpdateCoverImage(ctx context.Context, id, localPath string) (models.User, error)
}

// UserService provides business logic for user accounts.
type UserService struct {
	store storage.UserStore
	media media.Store
}

// NewUserService creates a new UserService.
func NewUserService(store storage.UserStore, mediaStore media.Store) *UserService {
	return &UserService{store: store, media: mediaStore}
}

// Register creates a new account. Uniqueness is checked before any media
// upload; if the record insert fails after uploads, the uploaded assets are
// deleted again so no orphans remain in the media store.
func (s *UserService) Register(ctx context.Context, input RegisterInput) (models.User, error) {
	fullname := strings.TrimSpace(input.FullName)
	email := strings.TrimSpace(input.Email)
	username := strings.ToLower(strings.TrimSpace(input.Username))

	// Presence is trim-checked, but the password is hashed exactly as
	// submitted so login and password change see the same value.
	if fullname == "" || email == "" || username == "" || strings.TrimSpace(input.Password) == "" {
		return models.User{}, apperr.New(apperr.Validation, "all fields are required")
	}
	if input.AvatarPath == "" {
		return models.User{}, apperr.New(apperr.Validation, "avatar file is required")
	}

	_, err := s.store.FindByUsernameOrEmail(ctx, username, email)
	if err == nil {
		return models.User{}, apperr.New(apperr.Conflict, "user with email or username already exists")
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return models.User{}, apperr.Wrap(apperr.Internal, "registration failed", err)
	}

	avatar, err := s.media.Upload(ctx, input.AvatarPath)
	if err != nil {
		return models.User{}, apperr.Wrap(apperr.Internal, "failed to upload avatar", err)
	}

	var cover media.Asset
	if input.CoverImagePath != "" {
		cover, err = s.media.Upload(ctx, input.CoverImagePath)
		if err != nil {
			s.deleteAsset(ctx, avatar)
			return models.User{}, apperr.Wrap(apperr.Internal, "failed to upload cover image", err)
		}
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		s.deleteAsset(ctx, avatar)
		s.deleteAsset(ctx, cover)
		return models.User{}, apperr.Wrap(apperr.Internal, "registration failed", err)
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		FullName:     fullname,
		Avatar:       avatar.URL,
		CoverImage:   cover.URL,
		PasswordHash: string(hashed),
	}

	created, err := s.store.Insert(ctx, user)
	if err != nil {
		// Images are already remote; take them back out before reporting.
		s.deleteAsset(ctx, avatar)
		s.deleteAsset(ctx, cover)
		if errors.Is(err, storage.ErrDuplicate) {
			return models.User{}, apperr.New(apperr.Conflict, "user with email or username already exists")
		}
		return models.User{}, apperr.Wrap(apperr.Internal, "registration failed", err)
	}

	return created.Sanitized(), nil
}

// GetByID retrieves a single user by their ID.
func (s *UserService) GetByID(ctx context.Context, id string) (models.User, error) {
	user, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return models.User{}, apperr.New(apperr.NotFound, "user not found")
		}
		return models.User{}, apperr.Wrap(apperr.Internal, "failed to load user", err)
	}
	return user.Sanitized(), nil
}

// UpdateAccount updates the full name and email of an account.
func (s *UserService) UpdateAccount(ctx context.Context, id, fullname, email string) (models.User, error) {
	fullname = strings.TrimSpace(fullname)
	email = strings.TrimSpace(email)
	if fullname == "" {
		return models.User{}, apperr.New(apperr.Validation, "fullname is required")
	}
	if email == "" {
		return models.User{}, apperr.New(apperr.Validation, "email is required")
	}

	user, err := s.store.UpdateProfile(ctx, id, fullname, email)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			return models.User{}, apperr.New(apperr.NotFound, "user not found")
		case errors.Is(err, storage.ErrDuplicate):
			return models.User{}, apperr.New(apperr.Conflict, "email already in use")
		default:
			return models.User{}, apperr.Wrap(apperr.Internal, "failed to update account", err)
		}
	}
	return user.Sanitized(), nil
}

// UpdateAvatar uploads a replacement avatar and patches the user record.
func (s *UserService) UpdateAvatar(ctx context.Context, id, localPath string) (models.User, error) {
	return s.updateImage(ctx, id, localPath, s.store.SetAvatar)
}

// UpdateCoverImage uploads a replacement cover image and patches the user record.
func (s *UserService) UpdateCoverImage(ctx context.Context, id, localPath string) (models.User, error) {
	return s.updateImage(ctx, id, localPath, s.store.SetCoverImage)
}

func (s *UserService) updateImage(ctx context.Context, id, localPath string, set func(context.Context, string, string) (*models.User, error)) (models.User, error) {
	if localPath == "" {
		return models.User{}, apperr.New(apperr.Validation, "image file is required")
	}

	asset, err := s.media.Upload(ctx, localPath)
	if err != nil {
		return models.User{}, apperr.Wrap(apperr.Internal, "failed to upload image", err)
	}

	user, err := set(ctx, id, asset.URL)
	if err != nil {
		s.deleteAsset(ctx, asset)
		if errors.Is(err, storage.ErrNotFound) {
			return models.User{}, apperr.New(apperr.NotFound, "user not found")
		}
		return models.User{}, apperr.Wrap(apperr.Internal, "failed to update image", err)
	}
	return user.Sanitized(), nil
}

// deleteAsset best-effort removes an uploaded asset during compensation.
func (s *UserService) deleteAsset(ctx context.Context, asset media.Asset) {
	if asset.PublicID == "" {
		return
	}
	if err := s.media.Delete(ctx, asset.PublicID); err != nil {
		log.Error().Err(err).Str("public_id", asset.PublicID).Msg("Failed to delete orphaned media asset")
	}
}
