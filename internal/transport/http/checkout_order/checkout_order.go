package checkoutorder

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/farm2school/order/internal/service/services/paymentsvc"
	"github.com/farm2school/order/internal/transport/http/respond"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

type service interface {
	Checkout(ctx context.Context, model paymentsvc.CheckoutModel) error
}

type checkoutOrderRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	DeliveryFee decimal.Decimal `json:"deliveryFee"`
}

// CheckoutOrder marks the order paid with its delivery fee and records the
// card payment.
func CheckoutOrder(w http.ResponseWriter, r *http.Request, service service) {
	orderID, err := strconv.ParseInt(chi.URLParam(r, "orderID"), 10, 64)
	if err != nil {
		http.Error(w, "invalid order id", http.StatusBadRequest)

		return
	}

	req := checkoutOrderRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		slog.Error("Error decoding request body for checkout", "error", err)

		return
	}

	err = service.Checkout(r.Context(), paymentsvc.CheckoutModel{
		OrderID:     orderID,
		Amount:      req.Amount,
		DeliveryFee: req.DeliveryFee,
	})
	if err != nil {
		respond.Error(w, err)
		slog.Error("Error checking out order", "order_id", orderID, "error", err)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}
