package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/snaptab/snaptab/internal/service"
)

// ErrorResponse represents an API error response.
type ErrorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

// writeJSONError writes a JSON error response.
func writeJSONError(w http.ResponseWriter, status int, code, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{
		Error:  code,
		Detail: detail,
	})
}

// writeServiceError maps service-layer errors onto HTTP statuses.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		writeJSONError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, service.ErrForbidden), errors.Is(err, service.ErrInvalidState):
		writeJSONError(w, http.StatusForbidden, "forbidden", err.Error())
	case errors.Is(err, service.ErrValidation):
		writeJSONError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, service.ErrExtraction):
		writeJSONError(w, http.StatusInternalServerError, "extraction_failed", err.Error())
	default:
		writeJSONError(w, http.StatusInternalServerError, "server_error", "internal server error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
