package httpapi

import (
	"encoding/json"
	"net/http"

	"ct2go/internal/engine"
	"ct2go/pkg/ct2"
	"ct2go/pkg/types"
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

// statusForError maps well-known engine and binding errors to HTTP status
// codes. Engine diagnostics stay in the response body verbatim.
func statusForError(err error) int {
	switch {
	case engine.IsModelNotFound(err):
		return http.StatusNotFound
	case engine.IsWrongKind(err), ct2.IsConversion(err):
		return http.StatusBadRequest
	case engine.IsShuttingDown(err), ct2.IsClosed(err), ct2.IsModelLoad(err):
		return http.StatusServiceUnavailable
	default:
		if he, ok := err.(HTTPError); ok {
			return he.StatusCode()
		}
		return http.StatusInternalServerError
	}
}
