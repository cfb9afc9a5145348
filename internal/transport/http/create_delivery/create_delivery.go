package createdelivery

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/farm2school/order/internal/service/models/delivery"
	"github.com/farm2school/order/internal/service/services/deliverysvc"
	"github.com/farm2school/order/internal/transport/http/respond"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

type service interface {
	Schedule(ctx context.Context, model deliverysvc.ScheduleModel) (delivery.Delivery, error)
}

type createDeliveryRequest struct {
	OrderID          int64           `json:"orderId"          validate:"gt=0"`
	TruckCompany     string          `json:"truckCompany"`
	TruckContact     string          `json:"truckContact"`
	FeeTotal         decimal.Decimal `json:"feeTotal"`
	EstimatedArrival time.Time       `json:"estimatedArrival" validate:"required"`
}

// Validate validates the create delivery request.
func (r *createDeliveryRequest) Validate() error {
	return validator.New().Struct(r)
}

// CreateDelivery schedules the delivery for an order.
func CreateDelivery(w http.ResponseWriter, r *http.Request, service service) {
	req := createDeliveryRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		slog.Error("Error decoding request body for create delivery", "error", err)

		return
	}

	if err := req.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		slog.Error("Error validating request body for create delivery", "error", err)

		return
	}

	d, err := service.Schedule(r.Context(), deliverysvc.ScheduleModel{
		OrderID:          req.OrderID,
		TruckCompany:     req.TruckCompany,
		TruckContact:     req.TruckContact,
		FeeTotal:         req.FeeTotal,
		EstimatedArrival: req.EstimatedArrival,
	})
	if err != nil {
		respond.Error(w, err)
		slog.Error("Error scheduling delivery", "order_id", req.OrderID, "error", err)

		return
	}

	respond.JSON(w, http.StatusCreated, d)
}
