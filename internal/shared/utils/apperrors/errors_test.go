package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		kind   Kind
		status int
	}{
		{KindValidation, http.StatusBadRequest},
		{KindConflict, http.StatusConflict},
		{KindLockNotFound, http.StatusNotFound},
		{KindPayment, http.StatusPaymentRequired},
		{KindNotFound, http.StatusNotFound},
		{KindUnauthorized, http.StatusUnauthorized},
		{KindInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			err := newError(tt.kind, "message", nil, nil)
			assert.Equal(t, tt.status, err.HTTPStatus())
		})
	}
}

func TestRetryable(t *testing.T) {
	assert.True(t, Internal("storage down", nil).Retryable())
	assert.False(t, Conflict("slot full", nil).Retryable())
	assert.False(t, Validation("bad date", nil).Retryable())
}

func TestIsKindSeesWrappedErrors(t *testing.T) {
	base := Conflict("seats unavailable", nil)
	wrapped := fmt.Errorf("confirm booking: %w", base)

	assert.True(t, IsKind(wrapped, KindConflict))
	assert.False(t, IsKind(wrapped, KindValidation))
	assert.False(t, IsKind(errors.New("plain"), KindConflict))
}

func TestFrom(t *testing.T) {
	t.Run("unwraps an existing app error", func(t *testing.T) {
		base := NotFound("booking not found")
		got := From(fmt.Errorf("lookup: %w", base))
		assert.Equal(t, base, got)
	})

	t.Run("wraps foreign errors as internal", func(t *testing.T) {
		cause := errors.New("connection refused")
		got := From(cause)
		require.Equal(t, KindInternal, got.Kind)
		assert.ErrorIs(t, got, cause)
	})
}

func TestInternalKeepsCauseOutOfMessage(t *testing.T) {
	cause := errors.New("pq: connection refused")
	err := Internal("failed to load booking", cause)

	assert.Equal(t, "failed to load booking", err.Message)
	assert.ErrorIs(t, err, cause)
}
