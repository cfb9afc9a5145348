package getdelivery

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/farm2school/order/internal/service/models/delivery"
	"github.com/farm2school/order/internal/transport/http/respond"
	"github.com/go-chi/chi/v5"
)

type service interface {
	GetByOrder(ctx context.Context, orderID int64) (*delivery.Delivery, error)
}

// GetDelivery returns the delivery scheduled for an order.
func GetDelivery(w http.ResponseWriter, r *http.Request, service service) {
	orderID, err := strconv.ParseInt(chi.URLParam(r, "orderID"), 10, 64)
	if err != nil {
		http.Error(w, "invalid order id", http.StatusBadRequest)

		return
	}

	d, err := service.GetByOrder(r.Context(), orderID)
	if err != nil {
		respond.Error(w, err)
		slog.Error("Error getting delivery", "order_id", orderID, "error", err)

		return
	}

	respond.JSON(w, http.StatusOK, d)
}
