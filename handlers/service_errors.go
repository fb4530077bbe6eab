package handlers

import (
	"net/http"

	"github.com/upb/coffee-shop/backend/services"
	"github.com/upb/coffee-shop/backend/utils"
	"go.uber.org/zap"
)

// HandleServiceError maps domain errors to HTTP responses
func HandleServiceError(w http.ResponseWriter, err error, logger *zap.Logger) {
	if err == nil {
		return
	}

	var writeErr error
	switch {
	case services.IsNotFoundError(err):
		writeErr = utils.WriteNotFound(w)

	case services.IsValidationError(err), services.IsConflictError(err):
		logger.Debug("request rejected",
			zap.String("type", string(services.GetErrorType(err))),
			zap.Any("details", services.GetErrorDetails(err)),
			zap.Error(err))
		writeErr = utils.WriteUnprocessable(w)

	case services.IsInternalError(err):
		// Log internal errors but return generic message
		logger.Error("internal server error", zap.Error(err))
		writeErr = utils.WriteInternalServerError(w)

	default:
		logger.Error("unhandled error type",
			zap.Error(err),
			zap.String("error_type", string(services.GetErrorType(err))))
		writeErr = utils.WriteInternalServerError(w)
	}

	if writeErr != nil {
		logger.Error("failed to write error response", zap.Error(writeErr))
	}
}
