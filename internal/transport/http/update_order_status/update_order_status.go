package updateorderstatus

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/farm2school/order/internal/service/models/order"
	"github.com/farm2school/order/internal/transport/http/respond"
	"github.com/go-chi/chi/v5"
)

type service interface {
	UpdateStatus(ctx context.Context, orderID int64, next order.Status) (*order.Order, error)
}

type updateOrderStatusRequest struct {
	Status string `json:"status"`
}

// UpdateOrderStatus handles the order status transition request.
func UpdateOrderStatus(w http.ResponseWriter, r *http.Request, service service) {
	orderID, err := strconv.ParseInt(chi.URLParam(r, "orderID"), 10, 64)
	if err != nil {
		http.Error(w, "invalid order id", http.StatusBadRequest)

		return
	}

	req := updateOrderStatusRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		slog.Error("Error decoding request body for update order status", "error", err)

		return
	}

	next, err := order.ParseStatus(req.Status)
	if err != nil {
		http.Error(w, "unknown order status", http.StatusBadRequest)

		return
	}

	o, err := service.UpdateStatus(r.Context(), orderID, next)
	if err != nil {
		respond.Error(w, err)
		slog.Error("Error updating order status", "order_id", orderID, "error", err)

		return
	}

	respond.JSON(w, http.StatusOK, o)
}
