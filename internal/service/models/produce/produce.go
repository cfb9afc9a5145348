package produce

import (
	"time"

	"github.com/shopspring/decimal"
)

// Produce represents a sellable catalog listing with an availability window
// and a quantity that is decremented when orders are created.
type Produce struct {
	ID                int64           `json:"id"`
	FarmerID          int64           `json:"farmerId"`
	Name              string          `json:"name"`
	Description       string          `json:"description,omitempty"`
	PricePerUnit      decimal.Decimal `json:"pricePerUnit"`
	AvailableQuantity int             `json:"availableQuantity"`
	Unit              string          `json:"unit"`
	FarmerCanDeliver  bool            `json:"farmerCanDeliver"`
	AvailabilityStart time.Time       `json:"availabilityStart"`
	AvailabilityEnd   time.Time       `json:"availabilityEnd"`
	CreatedAt         time.Time       `json:"createdAt"`
}

// UpdateModel carries a partial update; nil fields keep their current value.
type UpdateModel struct {
	Name              *string          `json:"name,omitempty"`
	Description       *string          `json:"description,omitempty"`
	PricePerUnit      *decimal.Decimal `json:"pricePerUnit,omitempty"`
	AvailableQuantity *int             `json:"availableQuantity,omitempty"`
	Unit              *string          `json:"unit,omitempty"`
	FarmerCanDeliver  *bool            `json:"farmerCanDeliver,omitempty"`
	AvailabilityStart *time.Time       `json:"availabilityStart,omitempty"`
	AvailabilityEnd   *time.Time       `json:"availabilityEnd,omitempty"`
}

// SearchModel filters the availability search.
type SearchModel struct {
	Name     string `json:"name,omitempty"`
	FarmerID int64  `json:"farmerId,omitempty"`
}
