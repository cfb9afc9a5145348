package ideliveryrepo

import (
	"context"

	"github.com/farm2school/order/internal/service/models/delivery"
)

// IDeliveryRepository is an interface for the delivery postgres repository.
type IDeliveryRepository interface {
	Insert(ctx context.Context, d delivery.Delivery) (delivery.Delivery, error)
	GetByOrder(ctx context.Context, orderID int64) (*delivery.Delivery, error)
	UpdateStatus(ctx context.Context, deliveryID int64, status delivery.Status) error
}
