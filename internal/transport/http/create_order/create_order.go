package createorder

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/farm2school/order/internal/service/models/order"
	"github.com/farm2school/order/internal/service/models/orderitem"
	"github.com/farm2school/order/internal/transport/http/respond"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// service is an interface for the service layer.
type service interface {
	Create(ctx context.Context, o order.Order) (order.Order, error)
}

// itemInCreateOrderRequest represents an item in a create order request.
type itemInCreateOrderRequest struct {
	ProduceID int64           `json:"produceId" validate:"gt=0"`
	Quantity  int             `json:"quantity"  validate:"gt=0"`
	UnitPrice decimal.Decimal `json:"unitPrice" validate:"required"`
}

// toModel converts itemInCreateOrderRequest to orderitem.OrderItem.
func (r *itemInCreateOrderRequest) toModel() orderitem.OrderItem {
	return orderitem.OrderItem{
		ProduceID: r.ProduceID,
		Quantity:  r.Quantity,
		UnitPrice: r.UnitPrice,
	}
}

// createOrderRequest represents a create order request.
type createOrderRequest struct {
	SchoolID     int64                      `json:"schoolId"     validate:"gt=0"`
	FarmerID     int64                      `json:"farmerId"     validate:"gt=0"`
	DeliveryDate time.Time                  `json:"deliveryDate" validate:"required"`
	OrderItems   []itemInCreateOrderRequest `json:"orderItems"   validate:"required,min=1,dive"`
}

// toModel converts createOrderRequest to order.Order.
func (r *createOrderRequest) toModel() order.Order {
	items := make([]orderitem.OrderItem, len(r.OrderItems))
	for i := range r.OrderItems {
		items[i] = r.OrderItems[i].toModel()
	}

	return order.Order{
		SchoolID:     r.SchoolID,
		FarmerID:     r.FarmerID,
		DeliveryDate: r.DeliveryDate,
		OrderItems:   items,
	}
}

// Validate validates the create order request.
func (r *createOrderRequest) Validate() error {
	return validator.New().Struct(r)
}

// CreateOrder handles the create order request.
func CreateOrder(w http.ResponseWriter, r *http.Request, service service) {
	orderReq := createOrderRequest{}
	if err := json.NewDecoder(r.Body).Decode(&orderReq); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		slog.Error("Error decoding request body for create order", "error", err)

		return
	}

	if err := orderReq.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		slog.Error("Error validating request body for create order", "error", err)

		return
	}

	created, err := service.Create(r.Context(), orderReq.toModel())
	if err != nil {
		respond.Error(w, err)
		slog.Error("Error creating order", "error", err)

		return
	}

	respond.JSON(w, http.StatusCreated, created)
}
