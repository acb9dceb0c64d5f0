package services

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/arnavdeep/vidtube-be/internal/apperr"
	"github.com/arnavdeep/vidtube-be/internal/auth"
	"github.com/arnavdeep/vidtube-be/internal/models"
	"github.com/arnavdeep/vidtube-be/internal/storage"
)

// AuthServiceProvider defines the interface for session services.
type AuthServiceProvider interface {
	Login(ctx context.Context, username, email, password string) (models.User, auth.TokenPair, error)
	Refresh(ctx context.Context, presentedToken string) (auth.TokenPair, error)
	Logout(ctx context.Context, userID string) error
	ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error
}

// AuthService implements login, logout, session renewal, and password change.
type AuthService struct {
	store  storage.UserStore
	issuer *auth.TokenIssuer
}

// NewAuthService creates a new AuthService.
func NewAuthService(store storage.UserStore, issuer *auth.TokenIssuer) *AuthService {
	return &AuthService{store: store, issuer: issuer}
}

// Login verifies credentials and establishes a session. The returned user is
// sanitized; the refresh token in the pair is the one now persisted on the
// user record.
func (s *AuthService) Login(ctx context.Context, username, email, password string) (models.User, auth.TokenPair, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	email = strings.TrimSpace(email)
	if username == "" && email == "" {
		return models.User{}, auth.TokenPair{}, apperr.New(apperr.Validation, "username or email is required")
	}

	user, err := s.store.FindByUsernameOrEmail(ctx, username, email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return models.User{}, auth.TokenPair{}, apperr.New(apperr.NotFound, "user not found")
		}
		return models.User{}, auth.TokenPair{}, apperr.Wrap(apperr.Internal, "login failed", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return models.User{}, auth.TokenPair{}, apperr.New(apperr.Unauthorized, "invalid credentials")
	}

	pair, err := s.issuer.Issue(ctx, user.ID.Hex())
	if err != nil {
		return models.User{}, auth.TokenPair{}, err
	}

	return user.Sanitized(), pair, nil
}

// Refresh exchanges a valid refresh token for a fresh pair.
//
// A token renews iff its signature verifies, it is unexpired, and it equals
// the value stored on the user record. Every way those checks can fail maps
// to the same unauthorized error so a caller cannot tell which one tripped.
func (s *AuthService) Refresh(ctx context.Context, presentedToken string) (auth.TokenPair, error) {
	if presentedToken == "" {
		return auth.TokenPair{}, apperr.New(apperr.Unauthorized, "refresh token is required")
	}

	claims, err := s.issuer.VerifyRefresh(presentedToken)
	if err != nil {
		return auth.TokenPair{}, apperr.New(apperr.Unauthorized, "invalid refresh token")
	}

	user, err := s.store.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return auth.TokenPair{}, apperr.New(apperr.Unauthorized, "invalid refresh token")
		}
		return auth.TokenPair{}, apperr.Wrap(apperr.Internal, "could not refresh session", err)
	}

	// The presented token must be the single live one. A mismatch means it
	// was already rotated out (replay) or the user logged out.
	if user.RefreshToken == "" || user.RefreshToken != presentedToken {
		return auth.TokenPair{}, apperr.New(apperr.Unauthorized, "invalid refresh token")
	}

	pair, err := s.issuer.Issue(ctx, user.ID.Hex())
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID.Hex()).Msg("Failed to reissue tokens")
		return auth.TokenPair{}, apperr.Wrap(apperr.Internal, "could not refresh session", err)
	}

	return pair, nil
}

// Logout clears the stored refresh token, ending the session.
func (s *AuthService) Logout(ctx context.Context, userID string) error {
	if err := s.store.ClearRefreshToken(ctx, userID); err != nil {
		return apperr.Wrap(apperr.Internal, "logout failed", err)
	}
	return nil
}

// ChangePassword verifies the old password before re-hashing and storing the
// new one.
func (s *AuthService) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	if strings.TrimSpace(newPassword) == "" {
		return apperr.New(apperr.Validation, "new password is required")
	}

	user, err := s.store.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return apperr.New(apperr.NotFound, "user not found")
		}
		return apperr.Wrap(apperr.Internal, "could not change password", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)) != nil {
		return apperr.New(apperr.Unauthorized, "old password is incorrect")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return apperr.Wrap(apperr.Internal, "could not change password", err)
	}

	if err := s.store.SetPassword(ctx, userID, string(hashed)); err != nil {
		return apperr.Wrap(apperr.Internal, "could not change password", err)
	}
	return nil
}
