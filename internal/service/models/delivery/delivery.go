package delivery

import (
	"database/sql/driver"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// Delivery tracks shipping for an order (one per order). The fee is split
// evenly: SchoolShare and FarmerShare are each exactly half of FeeTotal.
type Delivery struct {
	ID               int64           `json:"id"`
	OrderID          int64           `json:"orderId"`
	TruckCompany     string          `json:"truckCompany,omitempty"`
	TruckContact     string          `json:"truckContact,omitempty"`
	FeeTotal         decimal.Decimal `json:"feeTotal"`
	SchoolShare      decimal.Decimal `json:"schoolShare"`
	FarmerShare      decimal.Decimal `json:"farmerShare"`
	Status           Status          `json:"status"`
	EstimatedArrival time.Time       `json:"estimatedArrival"`
}

// SplitFee divides a total delivery fee evenly between school and farmer.
func SplitFee(total decimal.Decimal) (schoolShare, farmerShare decimal.Decimal) {
	half := total.Div(decimal.NewFromInt(2))

	return half, half
}

type Status string

const (
	StatusScheduled Status = "Scheduled"
	StatusInTransit Status = "In Transit"
	StatusDelivered Status = "Delivered"
	StatusCancelled Status = "Cancelled"
)

var ErrInvalidStatus = errors.New("invalid delivery status")

func (s Status) String() string {
	return string(s)
}

func (s Status) Value() (driver.Value, error) {
	return s.String(), nil
}

func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusScheduled, StatusInTransit, StatusDelivered, StatusCancelled:
		return Status(s), nil
	default:
		return "", ErrInvalidStatus
	}
}
