package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/arnavdeep/vidtube-be/internal/apperr"
	"github.com/arnavdeep/vidtube-be/internal/config"
	"github.com/arnavdeep/vidtube-be/internal/storage"
)

// AccessClaims is the payload of a short-lived access token.
type AccessClaims struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	Email    string `json:"email"`
	jwt.RegisteredClaims
}

// RefreshClaims is the payload of a longer-lived refresh token. It carries
// only the identity; everything else is re-read at renewal time.
type RefreshClaims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

// TokenPair is the access/refresh pair handed to a client on login or renewal.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// TokenIssuer mints signed token pairs and persists the refresh half.
type TokenIssuer struct {
	store         storage.UserStore
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

// NewTokenIssuer creates a TokenIssuer from the application configuration.
func NewTokenIssuer(store storage.UserStore, cfg *config.Config) *TokenIssuer {
	return &TokenIssuer{
		store:         store,
		accessSecret:  []byte(cfg.AccessTokenSecret),
		refreshSecret: []byte(cfg.RefreshTokenSecret),
		accessTTL:     cfg.AccessTokenTTL,
		refreshTTL:    cfg.RefreshTokenTTL,
	}
}

// Issue mints a fresh token pair for the given user and overwrites the
// stored refresh token, invalidating any previously issued one.
//
// All failures collapse into a single generic issuance error so callers
// cannot learn whether the identity existed.
func (t *TokenIssuer) Issue(ctx context.Context, userID string) (TokenPair, error) {
	user, err := t.store.FindByID(ctx, userID)
	if err != nil {
		return TokenPair{}, apperr.Wrap(apperr.Internal, "token generation failed", err)
	}

	now := time.Now()
	accessToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, AccessClaims{
		UserID:   user.ID.Hex(),
		Username: user.Username,
		Email:    user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.accessTTL)),
		},
	}).SignedString(t.accessSecret)
	if err != nil {
		return TokenPair{}, apperr.Wrap(apperr.Internal, "token generation failed", err)
	}

	// The jti keeps back-to-back issues distinct even within the same second,
	// so a renewed token never equals the one it replaces.
	refreshToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, RefreshClaims{
		UserID: user.ID.Hex(),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.refreshTTL)),
		},
	}).SignedString(t.refreshSecret)
	if err != nil {
		return TokenPair{}, apperr.Wrap(apperr.Internal, "token generation failed", err)
	}

	if err := t.store.SetRefreshToken(ctx, user.ID.Hex(), refreshToken); err != nil {
		return TokenPair{}, apperr.Wrap(apperr.Internal, "token generation failed", err)
	}

	return TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// VerifyAccess parses and validates an access token string.
func (t *TokenIssuer) VerifyAccess(tokenStr string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return t.accessSecret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}

// VerifyRefresh parses and validates a refresh token string.
func (t *TokenIssuer) VerifyRefresh(tokenStr string) (*RefreshClaims, error) {
	claims := &RefreshClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return t.refreshSecret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}
