package addproduce

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/farm2school/order/internal/service/models/produce"
	"github.com/farm2school/order/internal/transport/http/respond"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

type service interface {
	AddProduce(ctx context.Context, p produce.Produce) (produce.Produce, error)
}

type addProduceRequest struct {
	FarmerID          int64           `json:"farmerId"          validate:"gt=0"`
	Name              string          `json:"name"              validate:"required"`
	Description       string          `json:"description"`
	PricePerUnit      decimal.Decimal `json:"pricePerUnit"      validate:"required"`
	AvailableQuantity int             `json:"availableQuantity" validate:"gte=0"`
	Unit              string          `json:"unit"              validate:"required"`
	FarmerCanDeliver  bool            `json:"farmerCanDeliver"`
	AvailabilityStart time.Time       `json:"availabilityStart" validate:"required"`
	AvailabilityEnd   time.Time       `json:"availabilityEnd"   validate:"required"`
}

// toModel converts addProduceRequest to produce.Produce.
func (r *addProduceRequest) toModel() produce.Produce {
	return produce.Produce{
		FarmerID:          r.FarmerID,
		Name:              r.Name,
		Description:       r.Description,
		PricePerUnit:      r.PricePerUnit,
		AvailableQuantity: r.AvailableQuantity,
		Unit:              r.Unit,
		FarmerCanDeliver:  r.FarmerCanDeliver,
		AvailabilityStart: r.AvailabilityStart,
		AvailabilityEnd:   r.AvailabilityEnd,
	}
}

// Validate validates the add produce request.
func (r *addProduceRequest) Validate() error {
	return validator.New().Struct(r)
}

// AddProduce creates a produce listing.
func AddProduce(w http.ResponseWriter, r *http.Request, service service) {
	req := addProduceRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		slog.Error("Error decoding request body for add produce", "error", err)

		return
	}

	if err := req.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		slog.Error("Error validating request body for add produce", "error", err)

		return
	}

	p, err := service.AddProduce(r.Context(), req.toModel())
	if err != nil {
		respond.Error(w, err)
		slog.Error("Error adding produce", "farmer_id", req.FarmerID, "error", err)

		return
	}

	respond.JSON(w, http.StatusCreated, p)
}
