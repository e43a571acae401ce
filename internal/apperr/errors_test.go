package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindHTTPStatus(t *testing.T) {
	tests := []struct {
		kind Kind
		want int
	}{
		{Unauthenticated, http.StatusUnauthorized},
		{Forbidden, http.StatusForbidden},
		{BadRequest, http.StatusBadRequest},
		{NotFound, http.StatusNotFound},
		{ServiceUnavailable, http.StatusServiceUnavailable},
		{InternalFailure, http.StatusInternalServerError},
		{BadGateway, http.StatusBadGateway},
		{Kind(99), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.kind.HTTPStatus())
		})
	}
}

func TestKindOfWrappedError(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := fmt.Errorf("saving profile: %w", Wrap(InternalFailure, "Failed to save profile.", cause))

	assert.Equal(t, InternalFailure, KindOf(err))
	assert.Equal(t, "Failed to save profile.", MessageOf(err))
	assert.ErrorIs(t, err, cause)
}

func TestKindOfPlainError(t *testing.T) {
	err := errors.New("boom")

	assert.Equal(t, InternalFailure, KindOf(err))
	assert.Equal(t, "Internal server error.", MessageOf(err))
	assert.False(t, Is(nil, InternalFailure))
}

func TestIs(t *testing.T) {
	assert.True(t, Is(New(NotFound, "User profile not found."), NotFound))
	assert.False(t, Is(New(NotFound, "User profile not found."), BadRequest))
}
