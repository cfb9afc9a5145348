package createpayment

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/farm2school/order/internal/service/models/payment"
	"github.com/farm2school/order/internal/service/services/paymentsvc"
	"github.com/farm2school/order/internal/transport/http/respond"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

type service interface {
	Capture(ctx context.Context, model paymentsvc.CaptureModel) (payment.Payment, error)
}

type createPaymentRequest struct {
	OrderID       int64           `json:"orderId"       validate:"gt=0"`
	Amount        decimal.Decimal `json:"amount"        validate:"required"`
	PaymentMethod string          `json:"paymentMethod"`
	TransactionID string          `json:"transactionId"`
}

// Validate validates the create payment request.
func (r *createPaymentRequest) Validate() error {
	return validator.New().Struct(r)
}

// CreatePayment records a payment against an order.
func CreatePayment(w http.ResponseWriter, r *http.Request, service service) {
	req := createPaymentRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		slog.Error("Error decoding request body for create payment", "error", err)

		return
	}

	if err := req.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		slog.Error("Error validating request body for create payment", "error", err)

		return
	}

	p, err := service.Capture(r.Context(), paymentsvc.CaptureModel{
		OrderID:       req.OrderID,
		Amount:        req.Amount,
		PaymentMethod: req.PaymentMethod,
		TransactionID: req.TransactionID,
	})
	if err != nil {
		respond.Error(w, err)
		slog.Error("Error capturing payment", "order_id", req.OrderID, "error", err)

		return
	}

	respond.JSON(w, http.StatusCreated, p)
}
