package ipaymentrepo

import (
	"context"

	"github.com/farm2school/order/internal/service/models/payment"
)

// IPaymentRepository is an interface for the payment postgres repository.
// Payments are append-only; there is no update.
type IPaymentRepository interface {
	Insert(ctx context.Context, p payment.Payment) (payment.Payment, error)
	GetLatestByOrder(ctx context.Context, orderID int64) (*payment.Payment, error)
}
