package respond

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/farm2school/order/internal/service/models/apperr"
)

// StatusOf maps an error kind to an HTTP status code.
func StatusOf(err error) int {
	switch apperr.KindOf(err) {
	case apperr.KindValidation, apperr.KindInvalidTransition, apperr.KindAlreadyCancelled:
		return http.StatusBadRequest
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindUnauthorized:
		return http.StatusUnauthorized
	case apperr.KindConflict, apperr.KindInsufficientInventory:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Error writes the caller-safe message of err with its mapped status.
// Internal causes stay in the logs.
func Error(w http.ResponseWriter, err error) {
	http.Error(w, apperr.MessageOf(err), StatusOf(err))
}

// JSON writes v as a JSON response body with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Error encoding response", "error", err)
	}
}
