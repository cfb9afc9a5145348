package order

import (
	"time"

	"github.com/farm2school/order/internal/service/models/orderitem"
	"github.com/shopspring/decimal"
)

// Order represents a school's commitment to purchase a set of line items
// from one farmer. TotalCost is computed server-side at creation time and is
// immutable afterwards; the delivery fee is tracked separately.
type Order struct {
	ID            int64                 `json:"id"`
	SchoolID      int64                 `json:"schoolId"`
	FarmerID      int64                 `json:"farmerId"`
	OrderDate     time.Time             `json:"orderDate"`
	DeliveryDate  time.Time             `json:"deliveryDate"`
	Status        Status                `json:"status"`
	TotalCost     decimal.Decimal       `json:"totalCost"`
	PaymentStatus PaymentStatus         `json:"paymentStatus"`
	DeliveryFee   decimal.Decimal       `json:"deliveryFee"`
	CreatedAt     time.Time             `json:"createdAt"`
	OrderItems    []orderitem.OrderItem `json:"orderItems,omitempty"`
}

// ComputeTotal sums quantity × unit price over the line items.
func ComputeTotal(items []orderitem.OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}

	return total
}
