// Package httpapi carries the JSON response helpers shared by the HTTP
// handlers, including the mapping from the service error taxonomy to status
// codes.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/wavemark/commerce-service/internal/model"
)

type jsonError struct {
	Error string `json:"error"`
}

func WriteJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// WriteError maps the error taxonomy onto HTTP statuses. Messages from the
// service layer are display-safe, so they pass through verbatim.
func WriteError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, model.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, model.ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, model.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, model.ErrBusinessRule):
		status = http.StatusUnprocessableEntity
	}

	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "internal server error"
	}
	WriteJSON(w, status, jsonError{Error: msg})
}

func WriteErrorStatus(w http.ResponseWriter, status int, msg string) {
	WriteJSON(w, status, jsonError{Error: msg})
}
