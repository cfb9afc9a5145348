package paymentsvc

import (
	"context"
	"fmt"
	"time"

	"github.com/farm2school/order/internal/dal/interfaces/iorderrepo"
	"github.com/farm2school/order/internal/dal/interfaces/ipaymentrepo"
	"github.com/farm2school/order/internal/service/models/apperr"
	"github.com/farm2school/order/internal/service/models/order"
	"github.com/farm2school/order/internal/service/models/payment"
	"github.com/shopspring/decimal"
)

const creditCardMethod = "Credit Card"

// PaymentService records payments against orders and keeps the order-level
// payment status in step with them.
type PaymentService struct {
	paymentRepo ipaymentrepo.IPaymentRepository
	orderRepo   iorderrepo.IOrderRepository
}

// option is a function that configures the PaymentService.
type option func(*PaymentService)

// MustNewPaymentService creates a new PaymentService.
func MustNewPaymentService(opts ...option) *PaymentService {
	s := &PaymentService{}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// WithPaymentRepository sets the payment repository.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithPaymentRepository(repo ipaymentrepo.IPaymentRepository) option {
	return func(s *PaymentService) {
		s.paymentRepo = repo
	}
}

// WithOrderRepository sets the order repository.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithOrderRepository(repo iorderrepo.IOrderRepository) option {
	return func(s *PaymentService) {
		s.orderRepo = repo
	}
}

// CaptureModel is the input for recording a standalone payment.
type CaptureModel struct {
	OrderID       int64
	Amount        decimal.Decimal
	PaymentMethod string
	TransactionID string
}

// Capture records a successful payment for an order and marks the order
// Paid. A transaction reference is generated when the caller supplies none.
func (s *PaymentService) Capture(ctx context.Context, model CaptureModel) (payment.Payment, error) {
	if model.OrderID <= 0 {
		return payment.Payment{}, apperr.New(apperr.KindValidation, "order id is required")
	}
	if !model.Amount.IsPositive() {
		return payment.Payment{}, apperr.New(apperr.KindValidation, "payment amount must be positive")
	}

	if _, err := s.orderRepo.GetByID(ctx, model.OrderID); err != nil {
		return payment.Payment{}, err
	}

	txRef := model.TransactionID
	if txRef == "" {
		txRef = fmt.Sprintf("mock_%d", time.Now().UnixMilli())
	}

	p := payment.Payment{
		OrderID:       model.OrderID,
		Amount:        model.Amount,
		PaymentMethod: model.PaymentMethod,
		TransactionID: txRef,
		PaymentDate:   time.Now(),
		Status:        payment.StatusSuccessful,
	}

	p, err := s.paymentRepo.Insert(ctx, p)
	if err != nil {
		return payment.Payment{}, err
	}

	if err := s.orderRepo.UpdatePaymentStatus(ctx, model.OrderID, order.PaymentStatusPaid); err != nil {
		return payment.Payment{}, err
	}

	return p, nil
}

// CheckoutModel is the input for the fused pay-and-set-fee operation.
type CheckoutModel struct {
	OrderID     int64
	Amount      decimal.Decimal
	DeliveryFee decimal.Decimal
}

// Checkout marks the order Paid with its delivery fee, then records a
// Credit Card payment row. No payment row is written for a zero amount.
func (s *PaymentService) Checkout(ctx context.Context, model CheckoutModel) error {
	if model.OrderID <= 0 {
		return apperr.New(apperr.KindValidation, "order id is required")
	}
	if model.Amount.IsNegative() {
		return apperr.New(apperr.KindValidation, "payment amount must not be negative")
	}
	if model.DeliveryFee.IsNegative() {
		return apperr.New(apperr.KindValidation, "delivery fee must not be negative")
	}

	err := s.orderRepo.UpdatePaymentAndFee(
		ctx,
		model.OrderID,
		order.PaymentStatusPaid,
		model.DeliveryFee,
	)
	if err != nil {
		return err
	}

	if !model.Amount.IsPositive() {
		return nil
	}

	p := payment.Payment{
		OrderID:       model.OrderID,
		Amount:        model.Amount,
		PaymentMethod: creditCardMethod,
		TransactionID: fmt.Sprintf("card_%d", time.Now().UnixMilli()),
		PaymentDate:   time.Now(),
		Status:        payment.StatusSuccessful,
	}
	if _, err := s.paymentRepo.Insert(ctx, p); err != nil {
		return err
	}

	return nil
}

// GetLatestByOrder returns the most recent payment for an order.
func (s *PaymentService) GetLatestByOrder(ctx context.Context, orderID int64) (*payment.Payment, error) {
	return s.paymentRepo.GetLatestByOrder(ctx, orderID)
}
