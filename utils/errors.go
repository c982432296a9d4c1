package utils

import (
	"net/http"

	"github.com/upb/forum-backend/services"
	"go.uber.org/zap"
)

// StatusForError maps a domain error kind to its HTTP status code
func StatusForError(err error) int {
	switch services.GetErrorType(err) {
	case services.ErrorTypeValidation:
		return http.StatusBadRequest
	case services.ErrorTypeUnauthorized:
		return http.StatusUnauthorized
	case services.ErrorTypeForbidden:
		return http.StatusForbidden
	case services.ErrorTypeNotFound:
		return http.StatusNotFound
	case services.ErrorTypeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// WriteServiceError translates err into the structured error response.
// Internal and unknown errors are logged and reported with a generic message.
func WriteServiceError(w http.ResponseWriter, r *http.Request, err error, logger *zap.Logger) {
	if err == nil {
		return
	}

	status := StatusForError(err)
	message := services.GetErrorMessage(err)

	if status == http.StatusInternalServerError {
		if services.IsInternalError(err) {
			logger.Error("internal server error", zap.Error(err), zap.String("path", r.URL.Path))
		} else {
			logger.Error("unhandled error type", zap.Error(err), zap.String("path", r.URL.Path))
		}
		message = "An internal error occurred"
	}

	if writeErr := WriteError(w, r, status, message); writeErr != nil {
		logger.Error("failed to write error response",
			zap.Int("status", status),
			zap.Error(writeErr))
	}
}
