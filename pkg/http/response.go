package http

import (
	"encoding/json"
	"net/http"

	apperrors "sitekit/pkg/errors"
)

// WriteJSON writes data with the given status. The returned error is for
// logging only; the status line is already on the wire.
func WriteJSON(w http.ResponseWriter, statusCode int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(data)
}

// WriteError writes err as {"error": "..."} with the AppError's status.
// Anything that is not an AppError becomes an opaque 500.
func WriteError(w http.ResponseWriter, err error) error {
	appErr := apperrors.AsAppError(err)
	status := appErr.StatusCode()
	if status == 0 {
		status = http.StatusInternalServerError
	}
	return WriteJSON(w, status, apperrors.ErrorResponse{Error: appErr.Message})
}

func WriteSuccess(w http.ResponseWriter, data any) error {
	return WriteJSON(w, http.StatusOK, data)
}

func WriteCreated(w http.ResponseWriter, data any) error {
	return WriteJSON(w, http.StatusCreated, data)
}
