package handlers

import (
	"errors"
	"net/http"

	"github.com/upb/forum-backend/internal/observability"
	"github.com/upb/forum-backend/services"
	"github.com/upb/forum-backend/utils"
	"go.uber.org/zap"
)

// HandleServiceError maps domain and validation errors to HTTP responses
func HandleServiceError(w http.ResponseWriter, r *http.Request, err error, logger *zap.Logger) {
	if err == nil {
		return
	}

	if utils.IsValidationError(err) {
		HandleValidationError(w, r, err, logger)
		return
	}

	var domainErr *services.DomainError
	if errors.As(err, &domainErr) && domainErr.Type != services.ErrorTypeInternal {
		logger.Debug("handled service error",
			zap.String("type", string(domainErr.Type)),
			zap.String("message", domainErr.Message),
			zap.Any("details", services.GetErrorDetails(err)))
	}

	utils.WriteServiceError(w, r, err, logger)
}

// HandleValidationError writes a 400 carrying the first field message
func HandleValidationError(w http.ResponseWriter, r *http.Request, err error, logger *zap.Logger) {
	message := err.Error()
	if fields := utils.GetValidationFields(err); len(fields) > 0 {
		logger.Debug("request validation failed", zap.Any("fields", fields))
	}
	if writeErr := utils.WriteBadRequest(w, r, message); writeErr != nil {
		logger.Error("failed to write validation error response", zap.Error(writeErr))
	}
}

// RouteNotFound answers requests no route matched
func RouteNotFound(logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		HandleServiceError(w, r, services.RouteNotFound(r.Method, r.URL.RequestURI()), observability.ForRequest(logger, r))
	}
}
