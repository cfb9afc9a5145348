package cancelorder

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
	Cancel(ctx context.Context, orderID int64) (*order.Order, error)
}

// CancelOrder handles the cancel order request.
func CancelOrder(w http.ResponseWriter, r *http.Request, service service) {
	orderID, err := strconv.ParseInt(chi.URLParam(r, "orderID"), 10, 64)
	if err != nil {
		http.Error(w, "invalid order id", http.StatusBadRequest)

		return
	}

	o, err := service.Cancel(r.Context(), orderID)
	if err != nil {
		respond.Error(w, err)
		slog.Error("Error cancelling order", "order_id", orderID, "error", err)

		return
	}

	respond.JSON(w, http.StatusOK, o)
}
