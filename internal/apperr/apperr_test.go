package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusCodeMapping(t *testing.T) {
	tests := []struct {
		kind Kind
		want int
	}{
		{Validation, http.StatusBadRequest},
		{Unauthorized, http.StatusUnauthorized},
		{NotFound, http.StatusNotFound},
		{Conflict, http.StatusConflict},
		{Internal, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StatusCode(New(tt.kind, "msg")))
	}
}

func TestUnclassifiedErrorsAreInternal(t *testing.T) {
	err := errors.New("disk on fire")
	assert.Equal(t, http.StatusInternalServerError, StatusCode(err))
	assert.Equal(t, "internal server error", Message(err))
}

func TestWrapKeepsCauseOutOfClientMessage(t *testing.T) {
	cause := errors.New("connection reset")
	err := Wrap(Internal, "could not refresh session", cause)

	assert.Equal(t, "could not refresh session", Message(err))
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection reset")
}

func TestStatusCodeSurvivesWrapping(t *testing.T) {
	err := fmt.Errorf("login: %w", New(Unauthorized, "invalid credentials"))
	assert.Equal(t, http.StatusUnauthorized, StatusCode(err))
	assert.Equal(t, "invalid credentials", Message(err))
	assert.True(t, IsKind(err, Unauthorized))
}
