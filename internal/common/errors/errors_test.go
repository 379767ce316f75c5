// internal/common/errors/errors_test.go
package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConvertToBPMNError(t *testing.T) {
	tests := []struct {
		name          string
		err           *StandardError
		wantCode      string
		wantRetries   int
		wantRetryable bool
	}{
		{"invalid input throws", NewInvalidInputError("giving must not be empty"), "INVALID_INPUT", 0, false},
		{"upstream failure retries", NewUpstreamFailureError(errors.New("502")), "UPSTREAM_FAILURE", 3, true},
		{"upstream timeout retries less", NewUpstreamTimeoutError(errors.New("deadline")), "UPSTREAM_TIMEOUT", 2, true},
		{"persistence retries", NewPersistenceFailureError(errors.New("conn refused")), "PERSISTENCE_FAILURE", 3, true},
		{"internal never retries", NewInternalError(errors.New("nil map")), "INTERNAL_ERROR", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := ConvertToBPMNError(tt.err)
			assert.Equal(t, tt.wantCode, b.Code)
			assert.Equal(t, tt.wantRetries, b.Retries)
			assert.Equal(t, tt.wantRetryable, b.Retryable)

			vars := b.ToErrorVariables()
			assert.Equal(t, tt.wantCode, vars["errorCode"])
			assert.Equal(t, string(tt.err.Code), vars["originalErrorCode"])
		})
	}
}

func TestConvertToBPMNError_NonRetryableOverridesTable(t *testing.T) {
	e := NewUpstreamFailureError(errors.New("x"))
	e.Retryable = false
	assert.Equal(t, 0, ConvertToBPMNError(e).Retries)
}

func TestNormalize(t *testing.T) {
	std := NewInvalidInputError("bad")
	wrapped := fmt.Errorf("handler: %w", std)

	assert.Same(t, std, Normalize(wrapped))

	plain := Normalize(errors.New("boom"))
	assert.Equal(t, ErrCodeInternal, plain.Code)
	assert.Equal(t, "boom", plain.Details)
}

func TestGetErrorCategory(t *testing.T) {
	assert.Equal(t, "RESEARCH", GetErrorCategory(ErrCodeUpstreamTimeout))
	assert.Equal(t, "DATABASE", GetErrorCategory(ErrCodePersistenceFailure))
	assert.Equal(t, "SEARCH", GetErrorCategory(ErrCodeSearchQueryFailed))
	assert.Equal(t, "VALIDATION", GetErrorCategory(ErrCodeInvalidInput))
	assert.Equal(t, "CONFIGURATION", GetErrorCategory(ErrCodeFeatureDisabled))
	assert.Equal(t, "OTHER", GetErrorCategory(ErrCodeInternal))
	assert.True(t, IsRetryableErrorCode(ErrCodeNotificationSendFailed))
	assert.False(t, IsRetryableErrorCode(ErrCodeInvalidInput))
}
