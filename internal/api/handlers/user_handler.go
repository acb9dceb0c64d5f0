package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/arnavdeep/vidtube-be/internal/api/respond"
	"github.com/arnavdeep/vidtube-be/internal/auth"
	"github.com/arnavdeep/vidtube-be/internal/config"
	"github.com/arnavdeep/vidtube-be/internal/models"
	"github.com/arnavdeep/vidtube-be/internal/services"
)

// UserHandler handles HTTP requests for user accounts.
type UserHandler struct {
	service services.UserServiceProvider
	cfg     *config.Config
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(service services.UserServiceProvider, cfg *config.Config) *UserHandler {
	return &UserHandler{service: service, cfg: cfg}
}

// Register handles new user registration. The form is multipart: text fields
// plus the avatar file (required) and coverImage file (optional).
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		respond.Fail(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	avatarPath, err := stageUpload(r, "avatar", h.cfg.TempUploadDir)
	if err != nil {
		respond.Fail(w, http.StatusBadRequest, "could not read avatar file")
		return
	}
	defer removeStaged(avatarPath)

	coverPath, err := stageUpload(r, "coverImage", h.cfg.TempUploadDir)
	if err != nil {
		respond.Fail(w, http.StatusBadRequest, "could not read cover image file")
		return
	}
	defer removeStaged(coverPath)

	user, err := h.service.Register(r.Context(), services.RegisterInput{
		FullName:       r.FormValue("fullname"),
		Email:          r.FormValue("email"),
		Username:       r.FormValue("username"),
		Password:       r.FormValue("password"),
		AvatarPath:     avatarPath,
		CoverImagePath: coverPath,
	})
	if err != nil {
		log.Warn().Err(err).Str("username", r.FormValue("username")).Msg("Failed to register user")
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusCreated, user, "user registered successfully")
}

// GetMe retrieves the currently authenticated user.
func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFrom(r.Context())
	if !ok {
		respond.Fail(w, http.StatusUnauthorized, "authentication required")
		return
	}

	user, err := h.service.GetByID(r.Context(), claims.UserID)
	if err != nil {
		log.Error().Err(err).Str("user_id", claims.UserID).Msg("User from token not found")
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, user, "current user details")
}

// UpdateAccount handles updating the authenticated user's name and email.
func (h *UserHandler) UpdateAccount(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFrom(r.Context())
	if !ok {
		respond.Fail(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var payload struct {
		FullName string `json:"fullname"`
		Email    string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respond.Fail(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.service.UpdateAccount(r.Context(), claims.UserID, payload.FullName, payload.Email)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, user, "account details updated successfully")
}

// UpdateAvatar handles replacing the authenticated user's avatar.
func (h *UserHandler) UpdateAvatar(w http.ResponseWriter, r *http.Request) {
	h.updateImage(w, r, "avatar", h.service.UpdateAvatar, "avatar updated successfully")
}

// UpdateCoverImage handles replacing the authenticated user's cover image.
func (h *UserHandler) UpdateCoverImage(w http.ResponseWriter, r *http.Request) {
	h.updateImage(w, r, "coverImage", h.service.UpdateCoverImage, "cover image updated successfully")
}

func (h *UserHandler) updateImage(w http.ResponseWriter, r *http.Request, field string, update func(ctx context.Context, id, localPath string) (models.User, error), message string) {
	claims, ok := auth.ClaimsFrom(r.Context())
	if !ok {
		respond.Fail(w, http.StatusUnauthorized, "authentication required")
		return
	}

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		respond.Fail(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	localPath, err := stageUpload(r, field, h.cfg.TempUploadDir)
	if err != nil {
		respond.Fail(w, http.StatusBadRequest, "could not read uploaded file")
		return
	}
	if localPath == "" {
		respond.Fail(w, http.StatusBadRequest, "image file is required")
		return
	}
	defer removeStaged(localPath)

	user, err := update(r.Context(), claims.UserID, localPath)
	if err != nil {
		log.Error().Err(err).Str("user_id", claims.UserID).Msg("Failed to update user image")
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, user, message)
}
