package orderitem

import (
	"github.com/shopspring/decimal"
)

// OrderItem represents one produce listing and quantity within an order.
// UnitPrice is captured at order time and stays decoupled from the
// catalog's current price; Subtotal = Quantity × UnitPrice.
type OrderItem struct {
	ID        int64           `json:"id"`
	OrderID   int64           `json:"orderId"`
	ProduceID int64           `json:"produceId"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}
