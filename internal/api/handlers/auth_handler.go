package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/arnavdeep/vidtube-be/internal/api/respond"
	"github.com/arnavdeep/vidtube-be/internal/auth"
	"github.com/arnavdeep/vidtube-be/internal/config"
	"github.com/arnavdeep/vidtube-be/internal/services"
)

// AuthHandler handles HTTP requests for sessions.
type AuthHandler struct {
	service services.AuthServiceProvider
	cfg     *config.Config
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(service services.AuthServiceProvider, cfg *config.Config) *AuthHandler {
	return &AuthHandler{service: service, cfg: cfg}
}

// LoginPayload defines the structure for login requests. Either username or
// email identifies the account.
type LoginPayload struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles user authentication and session establishment.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload LoginPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respond.Fail(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, pair, err := h.service.Login(r.Context(), payload.Username, payload.Email, payload.Password)
	if err != nil {
		log.Warn().Err(err).Str("username", payload.Username).Msg("Failed login attempt")
		respond.Error(w, err)
		return
	}

	setAuthCookies(w, pair, h.cfg.SecureCookies, h.cfg.AccessTokenTTL, h.cfg.RefreshTokenTTL)
	respond.JSON(w, http.StatusOK, map[string]interface{}{
		"user":         user,
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
	}, "user logged in successfully")
}

// Refresh exchanges a refresh token, taken from the cookie or the request
// body, for a new pair.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var presented string
	if cookie, err := r.Cookie("refreshToken"); err == nil {
		presented = cookie.Value
	}
	if presented == "" {
		var payload struct {
			RefreshToken string `json:"refreshToken"`
		}
		// Body is optional when the cookie is present; decode errors just
		// leave the token empty and the service rejects that.
		_ = json.NewDecoder(r.Body).Decode(&payload)
		presented = payload.RefreshToken
	}

	pair, err := h.service.Refresh(r.Context(), presented)
	if err != nil {
		respond.Error(w, err)
		return
	}

	setAuthCookies(w, pair, h.cfg.SecureCookies, h.cfg.AccessTokenTTL, h.cfg.RefreshTokenTTL)
	respond.JSON(w, http.StatusOK, pair, "access token refreshed successfully")
}

// Logout ends the authenticated user's session.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFrom(r.Context())
	if !ok {
		respond.Fail(w, http.StatusUnauthorized, "authentication required")
		return
	}

	if err := h.service.Logout(r.Context(), claims.UserID); err != nil {
		log.Error().Err(err).Str("user_id", claims.UserID).Msg("Failed to log out user")
		respond.Error(w, err)
		return
	}

	clearAuthCookies(w, h.cfg.SecureCookies)
	respond.JSON(w, http.StatusOK, nil, "user logged out successfully")
}

// ChangePassword handles changing the authenticated user's password.
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFrom(r.Context())
	if !ok {
		respond.Fail(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var payload struct {
		OldPassword string `json:"oldPassword"`
		NewPassword string `json:"newPassword"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respond.Fail(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.service.ChangePassword(r.Context(), claims.UserID, payload.OldPassword, payload.NewPassword); err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, nil, "password changed successfully")
}
