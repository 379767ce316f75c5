// internal/research/errors.go
package research

import (
	"errors"

	apperrors "fantasy-research/internal/common/errors"
)

var (
	ErrInvalidInput    = errors.New("INVALID_INPUT")
	ErrUpstream        = errors.New("UPSTREAM_FAILURE")
	ErrUpstreamTimeout = errors.New("UPSTREAM_TIMEOUT")
	ErrPersistence     = errors.New("PERSISTENCE_FAILURE")
)

// ToStandardError maps an engine error onto the shared job error model.
func ToStandardError(err error) *apperrors.StandardError {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrInvalidInput):
		return apperrors.NewInvalidInputError(err.Error())
	case errors.Is(err, ErrUpstreamTimeout):
		return apperrors.NewUpstreamTimeoutError(err)
	case errors.Is(err, ErrUpstream):
		return apperrors.NewUpstreamFailureError(err)
	case errors.Is(err, ErrPersistence):
		return apperrors.NewPersistenceFailureError(err)
	default:
		return apperrors.NewInternalError(err)
	}
}
