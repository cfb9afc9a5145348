package updatedeliverystatus

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/farm2school/order/internal/transport/http/respond"
	"github.com/go-chi/chi/v5"
)

type service interface {
	UpdateStatus(ctx context.Context, deliveryID int64, status string) error
}

type updateDeliveryStatusRequest struct {
	Status string `json:"status"`
}

// UpdateDeliveryStatus handles the delivery status update request.
func UpdateDeliveryStatus(w http.ResponseWriter, r *http.Request, service service) {
	deliveryID, err := strconv.ParseInt(chi.URLParam(r, "deliveryID"), 10, 64)
	if err != nil {
		http.Error(w, "invalid delivery id", http.StatusBadRequest)

		return
	}

	req := updateDeliveryStatusRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		slog.Error("Error decoding request body for update delivery status", "error", err)

		return
	}

	if err := service.UpdateStatus(r.Context(), deliveryID, req.Status); err != nil {
		respond.Error(w, err)
		slog.Error("Error updating delivery status", "delivery_id", deliveryID, "error", err)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}
