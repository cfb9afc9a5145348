package iproducerepo

import (
	"context"

	"github.com/farm2school/order/internal/service/models/produce"
)

// IProduceRepository is an interface for the produce postgres repository.
type IProduceRepository interface {
	Insert(ctx context.Context, p produce.Produce) (produce.Produce, error)
	GetByID(ctx context.Context, produceID int64) (*produce.Produce, error)
	ListByFarmer(ctx context.Context, farmerID int64) ([]produce.Produce, error)
	SearchAvailable(ctx context.Context, filter *produce.SearchModel) ([]produce.Produce, error)
	Update(ctx context.Context, produceID int64, model *produce.UpdateModel) error

	// DecrementQuantity subtracts qty from available_quantity only when
	// enough stock remains; it fails with an insufficient-inventory error
	// otherwise, so a surrounding transaction can roll back.
	DecrementQuantity(ctx context.Context, produceID int64, qty int) error
}
