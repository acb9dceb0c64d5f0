package services

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/arnavdeep/vidtube-be/internal/apperr"
	"github.com/arnavdeep/vidtube-be/internal/auth"
	"github.com/arnavdeep/vidtube-be/internal/media"
	"github.com/arnavdeep/vidtube-be/internal/models"
)

// fakeMediaStore records uploads and deletes for compensation assertions.
type fakeMediaStore struct {
	uploads   []string
	deleted   []string
	uploadErr map[string]error // keyed by file base name
}

func (f *fakeMediaStore) Upload(ctx context.Context, localPath string) (media.Asset, error) {
	base := filepath.Base(localPath)
	if err := f.uploadErr[base]; err != nil {
		return media.Asset{}, err
	}
	f.uploads = append(f.uploads, base)
	return media.Asset{
		URL:      "http://media.local/images/" + base,
		PublicID: "images/" + base,
	}, nil
}

func (f *fakeMediaStore) Delete(ctx context.Context, publicID string) error {
	f.deleted = append(f.deleted, publicID)
	return nil
}

func writeTempImage(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte("fake image bytes"), 0o600))
	return path
}

func registerInput(t *testing.T) RegisterInput {
	t.Helper()
	return RegisterInput{
		FullName:   "A B",
		Email:      "a@b.com",
		Username:   "AB",
		Password:   "p1",
		AvatarPath: writeTempImage(t, "avatar.png"),
	}
}

func TestRegisterSuccess(t *testing.T) {
	store := newFakeUserStore()
	mediaStore := &fakeMediaStore{}
	svc := NewUserService(store, mediaStore)

	input := registerInput(t)
	input.CoverImagePath = writeTempImage(t, "cover.png")

	user, err := svc.Register(context.Background(), input)
	require.NoError(t, err)

	assert.Equal(t, "ab", user.Username, "username is stored lowercased")
	assert.Equal(t, "http://media.local/images/avatar.png", user.Avatar)
	assert.Equal(t, "http://media.local/images/cover.png", user.CoverImage)
	assert.Empty(t, user.PasswordHash)
	assert.Empty(t, user.RefreshToken)
	assert.False(t, user.ID.IsZero())

	stored := store.users[user.ID.Hex()]
	require.NotNil(t, stored)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("p1")))
	assert.Empty(t, mediaStore.deleted)
}

func TestRegisterStoresPasswordVerbatim(t *testing.T) {
	store := newFakeUserStore()
	svc := NewUserService(store, &fakeMediaStore{})

	input := registerInput(t)
	input.Password = " p1 "

	user, err := svc.Register(context.Background(), input)
	require.NoError(t, err)

	stored := store.users[user.ID.Hex()]
	require.NotNil(t, stored)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte(" p1 ")),
		"the hash must cover the password exactly as submitted")

	// The same credential must work at login.
	issuer := auth.NewTokenIssuer(store, testConfig())
	authSvc := NewAuthService(store, issuer)
	_, pair, err := authSvc.Login(context.Background(), "ab", "", " p1 ")
	require.NoError(t, err)
	assert.NotEmpty(t, pair.RefreshToken)
}

func TestRegisterMissingFields(t *testing.T) {
	store := newFakeUserStore()
	mediaStore := &fakeMediaStore{}
	svc := NewUserService(store, mediaStore)

	input := registerInput(t)
	input.Email = "   "

	_, err := svc.Register(context.Background(), input)
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, apperr.StatusCode(err))
	assert.Empty(t, mediaStore.uploads)
}

func TestRegisterMissingAvatar(t *testing.T) {
	svc := NewUserService(newFakeUserStore(), &fakeMediaStore{})

	input := registerInput(t)
	input.AvatarPath = ""

	_, err := svc.Register(context.Background(), input)
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, apperr.StatusCode(err))
}

func TestRegisterDuplicateSkipsUpload(t *testing.T) {
	store := newFakeUserStore()
	store.seed(models.User{Username: "ab", Email: "other@b.com"})
	mediaStore := &fakeMediaStore{}
	svc := NewUserService(store, mediaStore)

	_, err := svc.Register(context.Background(), registerInput(t))
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, apperr.StatusCode(err))
	assert.Empty(t, mediaStore.uploads, "uniqueness is checked before any media upload")
}

func TestRegisterDuplicateEmail(t *testing.T) {
	store := newFakeUserStore()
	store.seed(models.User{Username: "other", Email: "a@b.com"})
	svc := NewUserService(store, &fakeMediaStore{})

	_, err := svc.Register(context.Background(), registerInput(t))
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, apperr.StatusCode(err))
}

func TestRegisterInsertFailureDeletesUploads(t *testing.T) {
	store := newFakeUserStore()
	store.insertErr = errStoreDown
	mediaStore := &fakeMediaStore{}
	svc := NewUserService(store, mediaStore)

	input := registerInput(t)
	input.CoverImagePath = writeTempImage(t, "cover.png")

	_, err := svc.Register(context.Background(), input)
	require.Error(t, err)
	assert.Equal(t, http.StatusInternalServerError, apperr.StatusCode(err))
	assert.ElementsMatch(t, []string{"images/avatar.png", "images/cover.png"}, mediaStore.deleted,
		"uploaded images must be removed before the failure is reported")
}

func TestRegisterCoverUploadFailureDeletesAvatar(t *testing.T) {
	store := newFakeUserStore()
	mediaStore := &fakeMediaStore{uploadErr: map[string]error{"cover.png": errors.New("upload refused")}}
	svc := NewUserService(store, mediaStore)

	input := registerInput(t)
	input.CoverImagePath = writeTempImage(t, "cover.png")

	_, err := svc.Register(context.Background(), input)
	require.Error(t, err)
	assert.Equal(t, []string{"images/avatar.png"}, mediaStore.deleted)
}

func TestGetByID(t *testing.T) {
	store := newFakeUserStore()
	id := store.seed(models.User{Username: "ab", Email: "a@b.com", PasswordHash: "secret"})
	svc := NewUserService(store, &fakeMediaStore{})

	user, err := svc.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "ab", user.Username)
	assert.Empty(t, user.PasswordHash)

	_, err = svc.GetByID(context.Background(), "ffffffffffffffffffffffff")
	assert.Equal(t, http.StatusNotFound, apperr.StatusCode(err))
}

func TestUpdateAccount(t *testing.T) {
	store := newFakeUserStore()
	id := store.seed(models.User{Username: "ab", Email: "a@b.com", FullName: "A B"})
	svc := NewUserService(store, &fakeMediaStore{})

	user, err := svc.UpdateAccount(context.Background(), id, "New Name", "new@b.com")
	require.NoError(t, err)
	assert.Equal(t, "New Name", user.FullName)
	assert.Equal(t, "new@b.com", user.Email)

	_, err = svc.UpdateAccount(context.Background(), id, "", "new@b.com")
	assert.Equal(t, http.StatusBadRequest, apperr.StatusCode(err))

	_, err = svc.UpdateAccount(context.Background(), id, "New Name", "")
	assert.Equal(t, http.StatusBadRequest, apperr.StatusCode(err))
}

func TestUpdateAvatar(t *testing.T) {
	store := newFakeUserStore()
	id := store.seed(models.User{Username: "ab", Email: "a@b.com", Avatar: "http://media.local/images/old.png"})
	mediaStore := &fakeMediaStore{}
	svc := NewUserService(store, mediaStore)

	user, err := svc.UpdateAvatar(context.Background(), id, writeTempImage(t, "new.png"))
	require.NoError(t, err)
	assert.Equal(t, "http://media.local/images/new.png", user.Avatar)
}

func TestUpdateCoverImageUnknownUserDeletesUpload(t *testing.T) {
	mediaStore := &fakeMediaStore{}
	svc := NewUserService(newFakeUserStore(), mediaStore)

	_, err := svc.UpdateCoverImage(context.Background(), "ffffffffffffffffffffffff", writeTempImage(t, "cover.png"))
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, apperr.StatusCode(err))
	assert.Equal(t, []string{"images/cover.png"}, mediaStore.deleted)
}
