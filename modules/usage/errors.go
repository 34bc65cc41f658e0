package usage

import (
	"errors"
	"net/http"

	"github.com/Mohnish27-dev/protocol-zero/handler"
	"github.com/Mohnish27-dev/protocol-zero/pkg/insight"
	"github.com/Mohnish27-dev/protocol-zero/pkg/limits"
	meter "github.com/Mohnish27-dev/protocol-zero/pkg/usage"
)

var (
	errLimitReached    = handler.NewHTTPError(http.StatusTooManyRequests, "limit_reached")
	errTryAgain        = handler.NewHTTPError(http.StatusServiceUnavailable, "try_again")
	errUnknownFeature  = handler.NewHTTPError(http.StatusNotFound, "unknown_feature")
	errNotReleasable   = handler.NewHTTPError(http.StatusConflict, "not_releasable")
	errMissingUser     = handler.NewHTTPError(http.StatusBadRequest, "missing_user_id")
	errMissingTier     = handler.NewHTTPError(http.StatusBadRequest, "missing_is_pro")
	errInvalidSnapshot = handler.NewHTTPError(http.StatusUnprocessableEntity, "invalid_snapshot")
	errGeneration      = handler.NewHTTPError(http.StatusBadGateway, "generation_failed")
)

// mapError translates ledger and insight errors into HTTP errors.
func mapError(err error) (handler.HTTPError, bool) {
	switch {
	case errors.Is(err, meter.ErrStoreUnavailable):
		return errTryAgain, true
	case errors.Is(err, limits.ErrInvalidFeature):
		return errUnknownFeature, true
	case errors.Is(err, meter.ErrNotReleasable):
		return errNotReleasable, true
	case errors.Is(err, meter.ErrEmptyUserID):
		return errMissingUser, true
	case errors.Is(err, insight.ErrInvalidSnapshot):
		return errInvalidSnapshot, true
	case errors.Is(err, insight.ErrGenerationFailed):
		return errGeneration, true
	}
	return handler.HTTPError{}, false
}
