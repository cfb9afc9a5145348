package iorderrepo

import (
	"context"

	"github.com/farm2school/order/internal/service/models/order"
	"github.com/shopspring/decimal"
)

// IOrderRepository is an interface for the order postgres repository.
type IOrderRepository interface {
	Insert(ctx context.Context, o order.Order) (order.Order, error)
	GetByID(ctx context.Context, orderID int64) (*order.Order, error)
	Query(ctx context.Context, filter *order.QueryOrdersModel) ([]order.Order, error)
	UpdateStatus(ctx context.Context, orderID int64, status order.Status) error
	UpdatePaymentStatus(ctx context.Context, orderID int64, status order.PaymentStatus) error
	UpdatePaymentAndFee(
		ctx context.Context,
		orderID int64,
		status order.PaymentStatus,
		deliveryFee decimal.Decimal,
	) error
}
