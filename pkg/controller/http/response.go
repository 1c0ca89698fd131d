package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/m-mizutani/ctxlog"
	"github.com/secmon-lab/civicsnap/pkg/domain/model"
	"github.com/secmon-lab/civicsnap/pkg/repository"
	"github.com/secmon-lab/civicsnap/pkg/usecase"
)

type dataResponse struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

type errorResponse struct {
	Success bool     `json:"success"`
	Error   string   `json:"error,omitempty"`
	Errors  []string `json:"errors,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// Can't get context here, so use background context
		ctxlog.From(context.Background()).Error("Failed to encode response", "error", err)
	}
}

func writeData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, dataResponse{Success: true, Data: data})
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// clientErrors maps use case errors to a status; their text goes to the client
var clientErrors = []struct {
	err    error
	status int
}{
	{usecase.ErrInvalidCredentials, http.StatusUnauthorized},
	{usecase.ErrUnauthorized, http.StatusUnauthorized},
	{usecase.ErrEmailTaken, http.StatusBadRequest},
	{usecase.ErrInvalidStatus, http.StatusBadRequest},
	{usecase.ErrInvalidSeverity, http.StatusBadRequest},
	{usecase.ErrEmptyUpdate, http.StatusBadRequest},
	{usecase.ErrNoImage, http.StatusBadRequest},
	{usecase.ErrNotImage, http.StatusBadRequest},
	{usecase.ErrImageTooLarge, http.StatusRequestEntityTooLarge},
}

// writeError answers with the status and message matching err. Unknown
// errors are logged and hidden behind a generic 500.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *model.ValidationError
	if errors.As(err, &verr) {
		writeJSON(w, http.StatusBadRequest, errorResponse{Errors: verr.Fields})
		return
	}

	if errors.Is(err, repository.ErrNotFound) {
		writeMessage(w, http.StatusNotFound, "Issue not found")
		return
	}

	for _, ce := range clientErrors {
		if errors.Is(err, ce.err) {
			writeMessage(w, ce.status, ce.err.Error())
			return
		}
	}

	ctxlog.From(r.Context()).Error("Request failed", "error", err)
	writeMessage(w, http.StatusInternalServerError, "Server error")
}
