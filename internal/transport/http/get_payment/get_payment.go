package getpayment

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/farm2school/order/internal/service/models/payment"
	"github.com/farm2school/order/internal/transport/http/respond"
	"github.com/go-chi/chi/v5"
)

type service interface {
	GetLatestByOrder(ctx context.Context, orderID int64) (*payment.Payment, error)
}

// GetPayment returns the most recent payment for an order.
func GetPayment(w http.ResponseWriter, r *http.Request, service service) {
	orderID, err := strconv.ParseInt(chi.URLParam(r, "orderID"), 10, 64)
	if err != nil {
		http.Error(w, "invalid order id", http.StatusBadRequest)

		return
	}

	p, err := service.GetLatestByOrder(r.Context(), orderID)
	if err != nil {
		respond.Error(w, err)
		slog.Error("Error getting payment", "order_id", orderID, "error", err)

		return
	}

	respond.JSON(w, http.StatusOK, p)
}
