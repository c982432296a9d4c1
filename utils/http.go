package utils

import (
	"encoding/json"
	"net/http"
	"time"
)

// timestampLayout renders UTC timestamps with millisecond precision, e.g. 2024-01-10T08:15:00.000Z
const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

// ErrorResponse represents a structured error response
type ErrorResponse struct {
	Timestamp string `json:"timestamp"`
	Code      int    `json:"code"`
	Error     string `json:"error"`
	Message   string `json:"message"`
	Path      string `json:"path"`
}

// WriteJSON writes a JSON response with the given status code
func WriteJSON(w http.ResponseWriter, status int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data == nil {
		return nil
	}

	return json.NewEncoder(w).Encode(data)
}

// WriteOK writes a 200 OK response with the resource as body
func WriteOK(w http.ResponseWriter, data interface{}) error {
	return WriteJSON(w, http.StatusOK, data)
}

// WriteCreated writes a 201 Created response with the resource as body
func WriteCreated(w http.ResponseWriter, data interface{}) error {
	return WriteJSON(w, http.StatusCreated, data)
}

// WriteNoContent writes a 204 No Content response
func WriteNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// StatusText returns the fixed error text reported for a status code.
// Anything outside the known set is reported as an internal server error.
func StatusText(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "Bad request"
	case http.StatusUnauthorized:
		return "Unauthorized"
	case http.StatusForbidden:
		return "Forbidden"
	case http.StatusNotFound:
		return "Not found"
	case http.StatusConflict:
		return "Conflict"
	default:
		return "Internal server error"
	}
}

// NewErrorResponse builds the error body for a request
func NewErrorResponse(r *http.Request, status int, message string) ErrorResponse {
	path := ""
	if r != nil && r.URL != nil {
		path = r.URL.Path
	}
	return ErrorResponse{
		Timestamp: time.Now().UTC().Format(timestampLayout),
		Code:      status,
		Error:     StatusText(status),
		Message:   message,
		Path:      path,
	}
}

// WriteError writes an error response based on the status code
func WriteError(w http.ResponseWriter, r *http.Request, status int, message string) error {
	return WriteJSON(w, status, NewErrorResponse(r, status, message))
}

// WriteBadRequest writes a 400 Bad Request response
func WriteBadRequest(w http.ResponseWriter, r *http.Request, message string) error {
	if message == "" {
		message = "Validation failed"
	}
	return WriteError(w, r, http.StatusBadRequest, message)
}
