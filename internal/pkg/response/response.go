package response

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/futig/docsearch-backend/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// JSON writes a JSON response
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Can't change response at this point, just log
			http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		}
	}
}

// Error writes an error response and logs err with the request logger.
func Error(ctx context.Context, w http.ResponseWriter, status int, message string, err error) {
	if err != nil {
		ctxzap.Error(ctx, message, zap.Int("status", status), zap.Error(err))
	} else {
		ctxzap.Warn(ctx, message, zap.Int("status", status))
	}
	JSON(w, status, ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
	})
}

// UsecaseError maps domain errors to 400/404. Anything else is a 500 with
// the generic fallback message; the details only go to the log.
func UsecaseError(ctx context.Context, w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, entity.ErrFileNotFound):
		Error(ctx, w, http.StatusNotFound, "resource not found", err)
	case errors.Is(err, entity.ErrInvalidExtension),
		errors.Is(err, entity.ErrFileTooLarge),
		errors.Is(err, entity.ErrInvalidFile),
		errors.Is(err, entity.ErrEmptyDocument):
		Error(ctx, w, http.StatusBadRequest, "invalid file: "+err.Error(), err)
	case errors.Is(err, entity.ErrMissingField),
		errors.Is(err, entity.ErrInvalidParameter),
		errors.Is(err, entity.ErrInvalidFormat):
		Error(ctx, w, http.StatusBadRequest, err.Error(), err)
	default:
		Error(ctx, w, http.StatusInternalServerError, fallback, err)
	}
}

// Success writes a success response
func Success(w http.ResponseWriter, data any) {
	JSON(w, http.StatusOK, data)
}

// Created writes a 201 Created response
func Created(w http.ResponseWriter, data any) {
	JSON(w, http.StatusCreated, data)
}

// NoContent writes a 204 No Content response
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}
