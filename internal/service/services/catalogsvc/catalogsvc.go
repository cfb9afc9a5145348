package catalogsvc

import (
	"context"
	"time"

	"github.com/farm2school/order/internal/dal/interfaces/iproducerepo"
	"github.com/farm2school/order/internal/service/models/apperr"
	"github.com/farm2school/order/internal/service/models/produce"
)

// CatalogService manages produce listings: what farmers sell, at what price,
// and over which availability window.
type CatalogService struct {
	produceRepo iproducerepo.IProduceRepository
}

// option is a function that configures the CatalogService.
type option func(*CatalogService)

// MustNewCatalogService creates a new CatalogService.
func MustNewCatalogService(opts ...option) *CatalogService {
	s := &CatalogService{}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// WithProduceRepository sets the produce repository.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithProduceRepository(repo iproducerepo.IProduceRepository) option {
	return func(s *CatalogService) {
		s.produceRepo = repo
	}
}

// AddProduce creates a listing for a farmer.
func (s *CatalogService) AddProduce(ctx context.Context, p produce.Produce) (produce.Produce, error) {
	if p.FarmerID <= 0 {
		return produce.Produce{}, apperr.New(apperr.KindValidation, "farmer id is required")
	}
	if p.Name == "" {
		return produce.Produce{}, apperr.New(apperr.KindValidation, "produce name is required")
	}
	if p.PricePerUnit.IsNegative() {
		return produce.Produce{}, apperr.New(apperr.KindValidation, "price per unit must not be negative")
	}
	if p.AvailableQuantity < 0 {
		return produce.Produce{}, apperr.New(apperr.KindValidation, "available quantity must not be negative")
	}
	if p.AvailabilityEnd.Before(p.AvailabilityStart) {
		return produce.Produce{}, apperr.New(apperr.KindValidation, "availability window end precedes start")
	}

	p.CreatedAt = time.Now()

	return s.produceRepo.Insert(ctx, p)
}

// GetProduce returns a single listing.
func (s *CatalogService) GetProduce(ctx context.Context, produceID int64) (*produce.Produce, error) {
	return s.produceRepo.GetByID(ctx, produceID)
}

// UpdateProduce partially updates a listing; nil fields keep their value.
func (s *CatalogService) UpdateProduce(
	ctx context.Context,
	produceID int64,
	model *produce.UpdateModel,
) (*produce.Produce, error) {
	if model.PricePerUnit != nil && model.PricePerUnit.IsNegative() {
		return nil, apperr.New(apperr.KindValidation, "price per unit must not be negative")
	}
	if model.AvailableQuantity != nil && *model.AvailableQuantity < 0 {
		return nil, apperr.New(apperr.KindValidation, "available quantity must not be negative")
	}

	if err := s.produceRepo.Update(ctx, produceID, model); err != nil {
		return nil, err
	}

	return s.produceRepo.GetByID(ctx, produceID)
}

// ListByFarmer returns a farmer's listings, newest first.
func (s *CatalogService) ListByFarmer(ctx context.Context, farmerID int64) ([]produce.Produce, error) {
	return s.produceRepo.ListByFarmer(ctx, farmerID)
}

// SearchAvailable returns listings that are in stock and whose availability
// window covers today, optionally filtered by name and farmer.
func (s *CatalogService) SearchAvailable(
	ctx context.Context,
	filter *produce.SearchModel,
) ([]produce.Produce, error) {
	return s.produceRepo.SearchAvailable(ctx, filter)
}
