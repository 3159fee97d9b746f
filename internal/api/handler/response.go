package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/hszk-dev/catalog/internal/domain/model"
	"github.com/hszk-dev/catalog/internal/usecase"
)

func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("failed to encode response", "error", err)
		}
	}
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func Error(w http.ResponseWriter, status int, err string, message string) {
	JSON(w, status, ErrorResponse{
		Error:   err,
		Message: message,
	})
}

// ValidationErrorResponse lists every validation failure of a request.
type ValidationErrorResponse struct {
	Message string             `json:"message"`
	Errors  []model.FieldError `json:"errors"`
}

// ServiceError maps a use case error to its HTTP representation.
func ServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *model.ValidationError
	var nf *usecase.NotFoundError

	switch {
	case errors.As(err, &verr):
		JSON(w, http.StatusUnprocessableEntity, ValidationErrorResponse{
			Message: verr.FirstMessage(),
			Errors:  verr.Errors,
		})
	case errors.As(err, &nf):
		Error(w, http.StatusNotFound, "not_found", nf.Error())
	default:
		slog.ErrorContext(r.Context(), "request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
		Error(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
	}
}
