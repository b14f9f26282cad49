package httpapi

import (
	"encoding/json"
	"net/http"

	"ct2d/internal/ct2"
	"ct2d/internal/service"
	"ct2d/pkg/types"
)

// HTTPError allows services to provide an HTTP status code for an error.
type HTTPError interface {
	error
	StatusCode() int
}

// writeJSONError writes a consistent JSON error payload.
func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(types.ErrorResponse{Error: msg, Code: status})
}

// statusForError maps well-known service and engine errors to HTTP status
// codes. Caller mistakes are 4xx; engine execution failures are 5xx.
func statusForError(err error) int {
	switch {
	case service.IsModelNotFound(err):
		return http.StatusNotFound
	case service.IsWrongKind(err), ct2.IsInvalidArgument(err):
		return http.StatusBadRequest
	case service.IsTooBusy(err):
		return http.StatusTooManyRequests
	case service.IsClosed(err), ct2.IsDependencyUnavailable(err):
		return http.StatusServiceUnavailable
	default:
		if he, ok := err.(HTTPError); ok {
			return he.StatusCode()
		}
		return http.StatusInternalServerError
	}
}

// writeServiceError maps err to a status, counts backpressure rejections and
// writes the JSON payload.
func writeServiceError(w http.ResponseWriter, err error) int {
	status := statusForError(err)
	if status == http.StatusTooManyRequests {
		IncrementBackpressure("queue_full")
	}
	writeJSONError(w, status, err.Error())
	return status
}
