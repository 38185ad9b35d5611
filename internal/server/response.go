package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/chrisdamba/couriermatch/internal/admin"
	"github.com/chrisdamba/couriermatch/internal/models"
)

const maxRequestBody = 64 << 10

// writeJSON serializes payload with status and logs encoding failures.
func writeJSON(logger *slog.Logger, w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil && logger != nil {
		logger.Warn("failed to encode response", "error", err)
	}
}

func writeError(logger *slog.Logger, w http.ResponseWriter, status int, msg string) {
	writeJSON(logger, w, status, map[string]string{"error": msg})
}

// writeServiceError maps store and validation errors to HTTP statuses.
func writeServiceError(logger *slog.Logger, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		writeError(logger, w, http.StatusNotFound, "driver photo not found")
	case errors.Is(err, admin.ErrInvalidInput):
		writeError(logger, w, http.StatusBadRequest, err.Error())
	default:
		logger.Error("admin request failed", "error", err)
		writeError(logger, w, http.StatusInternalServerError, "internal error")
	}
}
