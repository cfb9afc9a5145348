package deliverysvc

import (
	"context"
	"time"

	"github.com/farm2school/order/internal/dal/interfaces/ideliveryrepo"
	"github.com/farm2school/order/internal/dal/interfaces/iorderrepo"
	"github.com/farm2school/order/internal/service/models/apperr"
	"github.com/farm2school/order/internal/service/models/delivery"
	"github.com/shopspring/decimal"
)

// DeliveryService schedules deliveries and tracks their status. Each order
// has at most one delivery; the fee is split evenly between the school and
// the farmer.
type DeliveryService struct {
	deliveryRepo ideliveryrepo.IDeliveryRepository
	orderRepo    iorderrepo.IOrderRepository
}

// option is a function that configures the DeliveryService.
type option func(*DeliveryService)

// MustNewDeliveryService creates a new DeliveryService.
func MustNewDeliveryService(opts ...option) *DeliveryService {
	s := &DeliveryService{}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// WithDeliveryRepository sets the delivery repository.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithDeliveryRepository(repo ideliveryrepo.IDeliveryRepository) option {
	return func(s *DeliveryService) {
		s.deliveryRepo = repo
	}
}

// WithOrderRepository sets the order repository.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithOrderRepository(repo iorderrepo.IOrderRepository) option {
	return func(s *DeliveryService) {
		s.orderRepo = repo
	}
}

// ScheduleModel is the input for scheduling a delivery.
type ScheduleModel struct {
	OrderID          int64
	TruckCompany     string
	TruckContact     string
	FeeTotal         decimal.Decimal
	EstimatedArrival time.Time
}

// Schedule creates the delivery for an order with the fee split evenly.
// A second delivery for the same order is a conflict.
func (s *DeliveryService) Schedule(ctx context.Context, model ScheduleModel) (delivery.Delivery, error) {
	if model.OrderID <= 0 {
		return delivery.Delivery{}, apperr.New(apperr.KindValidation, "order id is required")
	}
	if model.FeeTotal.IsNegative() {
		return delivery.Delivery{}, apperr.New(apperr.KindValidation, "delivery fee must not be negative")
	}

	if _, err := s.orderRepo.GetByID(ctx, model.OrderID); err != nil {
		return delivery.Delivery{}, err
	}

	schoolShare, farmerShare := delivery.SplitFee(model.FeeTotal)

	d := delivery.Delivery{
		OrderID:          model.OrderID,
		TruckCompany:     model.TruckCompany,
		TruckContact:     model.TruckContact,
		FeeTotal:         model.FeeTotal,
		SchoolShare:      schoolShare,
		FarmerShare:      farmerShare,
		Status:           delivery.StatusScheduled,
		EstimatedArrival: model.EstimatedArrival,
	}

	return s.deliveryRepo.Insert(ctx, d)
}

// GetByOrder returns the delivery scheduled for an order.
func (s *DeliveryService) GetByOrder(ctx context.Context, orderID int64) (*delivery.Delivery, error) {
	return s.deliveryRepo.GetByOrder(ctx, orderID)
}

// UpdateStatus sets a delivery's status. Unknown statuses are rejected.
func (s *DeliveryService) UpdateStatus(ctx context.Context, deliveryID int64, status string) error {
	parsed, err := delivery.ParseStatus(status)
	if err != nil {
		return apperr.Newf(apperr.KindValidation, "unknown delivery status %q", status)
	}

	return s.deliveryRepo.UpdateStatus(ctx, deliveryID, parsed)
}
