package adaptor

import (
	"errors"
	"net/http"
	"strings"

	"paradise-tours/internal/data/entity"
	"paradise-tours/pkg/utils"

	"go.uber.org/zap"
)

// handleServiceError maps domain sentinel errors onto HTTP responses.
// Anything unrecognized is a 500 with the detail kept out of the body.
func handleServiceError(log *zap.Logger, w http.ResponseWriter, err error, operation string) {
	errMsg := err.Error()

	switch {
	case errors.Is(err, entity.ErrNotFound):
		log.Warn(operation+" failed - not found", zap.Error(err))
		utils.ResponseNotFound(w, errMsg)

	case errors.Is(err, entity.ErrForbidden):
		log.Warn(operation+" failed - forbidden", zap.Error(err))
		utils.ResponseForbidden(w, errMsg)

	case errors.Is(err, entity.ErrConflict):
		log.Warn(operation+" failed - conflict", zap.Error(err))
		utils.ResponseConflict(w, errMsg)

	case errors.Is(err, entity.ErrInvalidState),
		errors.Is(err, entity.ErrAlreadyRated),
		errors.Is(err, entity.ErrInvalidAmount),
		errors.Is(err, entity.ErrValidation):
		log.Warn(operation+" failed - bad request", zap.Error(err))
		utils.ResponseBadRequest(w, errMsg, nil)

	case strings.Contains(errMsg, "invalid credentials"):
		log.Warn(operation+" failed - invalid credentials", zap.Error(err))
		utils.ResponseUnauthorized(w, errMsg)

	default:
		log.Error("Failed to "+operation, zap.Error(err))
		utils.ResponseInternalError(w, "Internal server error")
	}
}
