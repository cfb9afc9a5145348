package getorder

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/farm2school/order/internal/service/models/order"
	"github.com/farm2school/order/internal/transport/http/respond"
	"github.com/go-chi/chi/v5"
)

type service interface {
	GetByID(ctx context.Context, orderID int64) (*order.Order, error)
}

// GetOrder handles the get order request.
func GetOrder(w http.ResponseWriter, r *http.Request, service service) {
	orderID, err := strconv.ParseInt(chi.URLParam(r, "orderID"), 10, 64)
	if err != nil {
		http.Error(w, "invalid order id", http.StatusBadRequest)

		return
	}

	o, err := service.GetByID(r.Context(), orderID)
	if err != nil {
		respond.Error(w, err)
		slog.Error("Error getting order", "order_id", orderID, "error", err)

		return
	}

	respond.JSON(w, http.StatusOK, o)
}
