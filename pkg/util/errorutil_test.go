package util

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestDomainErrorKinds(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		kind   error
		status int
	}{
		{"validation", NewValidationError("bad", nil), ErrInvalidInput, http.StatusBadRequest},
		{"not found", NewNotFound("post", nil), ErrNotFound, http.StatusNotFound},
		{"unauthenticated", NewUnauthenticated("login"), ErrUnauthenticated, http.StatusUnauthorized},
		{"forbidden", NewForbidden("no"), ErrForbidden, http.StatusForbidden},
		{"conflict", NewConflict("dup", nil), ErrConflict, http.StatusConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := fmt.Errorf("handler: %w", tt.err)
			assert.ErrorIs(t, wrapped, tt.kind)
			assert.Equal(t, tt.status, ToDomainError(wrapped).HTTPStatus)
		})
	}

	assert.NotErrorIs(t, NewForbidden("no"), ErrUnauthenticated)
	assert.Equal(t, "post not found", NewNotFound("post", nil).Error())
}

func TestToDomainError(t *testing.T) {
	assert.Nil(t, ToDomainError(nil))
	assert.Equal(t, CodeNotFound, ToDomainError(pgx.ErrNoRows).Code)
	assert.Equal(t, CodeNotFound, ToDomainError(sql.ErrNoRows).Code)

	cause := errors.New("connection refused")
	internal := ToDomainError(cause)
	assert.Equal(t, CodeInternal, internal.Code)
	assert.Equal(t, http.StatusInternalServerError, internal.HTTPStatus)
	assert.ErrorIs(t, internal, cause)
	assert.Equal(t, CodeTooManyRequests, ToDomainError(NewTooManyRequests("slow down")).Code)

	tooLong := ToDomainError(fmt.Errorf("insert comment: %w", &pgconn.PgError{Code: "22001"}))
	assert.Equal(t, http.StatusBadRequest, tooLong.HTTPStatus)
	assert.ErrorIs(t, tooLong, ErrInvalidInput)
	assert.Equal(t, CodeInternal, ToDomainError(&pgconn.PgError{Code: "40001"}).Code)
}
