package errorutil

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
)

func TestToDomainError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantCode   string
		wantStatus int
	}{
		{"domain error passes through", NewForbidden("nope"), CodeForbidden, http.StatusForbidden},
		{"wrapped domain error", fmt.Errorf("ctx: %w", NewValidationError("bad", nil)), CodeValidation, http.StatusBadRequest},
		{"no rows maps to not found", fmt.Errorf("get ticket: %w", pgx.ErrNoRows), CodeNotFound, http.StatusNotFound},
		{"unknown error is internal", errors.New("boom"), CodeInternal, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToDomainError(tt.err)
			assert.Equal(t, tt.wantCode, got.Code)
			assert.Equal(t, tt.wantStatus, got.HTTPStatus)
		})
	}
	assert.Nil(t, ToDomainError(nil))
	assert.NoError(t, MapError(nil))
}

func TestIsCode(t *testing.T) {
	assert.True(t, IsCode(NewNotFound("ticket", nil), CodeNotFound))
	assert.False(t, IsCode(errors.New("plain"), CodeNotFound))
}
