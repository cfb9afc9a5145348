package paymentsvc

import (
	"context"
	"strings"
	"testing"

	"github.com/farm2school/order/internal/service/models/apperr"
	"github.com/farm2school/order/internal/service/models/order"
	"github.com/farm2school/order/internal/service/models/payment"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePaymentRepo struct {
	nextID   int64
	payments []payment.Payment
}

func (r *fakePaymentRepo) Insert(_ context.Context, p payment.Payment) (payment.Payment, error) {
	r.nextID++
	p.ID = r.nextID
	r.payments = append(r.payments, p)
	return p, nil
}

func (r *fakePaymentRepo) GetLatestByOrder(_ context.Context, orderID int64) (*payment.Payment, error) {
	var latest *payment.Payment
	for i := range r.payments {
		p := &r.payments[i]
		if p.OrderID != orderID {
			continue
		}
		if latest == nil || !p.PaymentDate.Before(latest.PaymentDate) {
			latest = p
		}
	}
	if latest == nil {
		return nil, apperr.Newf(apperr.KindNotFound, "no payment found for order %d", orderID)
	}
	return latest, nil
}

type fakeOrderRepo struct {
	orders map[int64]*order.Order
}

func (r *fakeOrderRepo) Insert(_ context.Context, o order.Order) (order.Order, error) {
	return o, nil
}

func (r *fakeOrderRepo) GetByID(_ context.Context, orderID int64) (*order.Order, error) {
	o, ok := r.orders[orderID]
	if !ok {
		return nil, apperr.Newf(apperr.KindNotFound, "order %d not found", orderID)
	}
	return o, nil
}

func (r *fakeOrderRepo) Query(_ context.Context, _ *order.QueryOrdersModel) ([]order.Order, error) {
	return nil, nil
}

func (r *fakeOrderRepo) UpdateStatus(_ context.Context, _ int64, _ order.Status) error {
	return nil
}

func (r *fakeOrderRepo) UpdatePaymentStatus(_ context.Context, orderID int64, status order.PaymentStatus) error {
	o, ok := r.orders[orderID]
	if !ok {
		return apperr.Newf(apperr.KindNotFound, "order %d not found", orderID)
	}
	o.PaymentStatus = status
	return nil
}

func (r *fakeOrderRepo) UpdatePaymentAndFee(
	_ context.Context,
	orderID int64,
	status order.PaymentStatus,
	deliveryFee decimal.Decimal,
) error {
	o, ok := r.orders[orderID]
	if !ok {
		return apperr.Newf(apperr.KindNotFound, "order %d not found", orderID)
	}
	o.PaymentStatus = status
	o.DeliveryFee = deliveryFee
	return nil
}

func newFixture() (*PaymentService, *fakePaymentRepo, *fakeOrderRepo) {
	paymentRepo := &fakePaymentRepo{}
	orderRepo := &fakeOrderRepo{orders: map[int64]*order.Order{
		1: {ID: 1, PaymentStatus: order.PaymentStatusUnpaid},
	}}

	svc := MustNewPaymentService(
		WithPaymentRepository(paymentRepo),
		WithOrderRepository(orderRepo),
	)

	return svc, paymentRepo, orderRepo
}

func TestCapture(t *testing.T) {
	svc, paymentRepo, orderRepo := newFixture()

	p, err := svc.Capture(context.Background(), CaptureModel{
		OrderID: 1,
		Amount:  decimal.RequireFromString("25.00"),
	})
	require.NoError(t, err)

	assert.Equal(t, payment.StatusSuccessful, p.Status)
	assert.True(t, strings.HasPrefix(p.TransactionID, "mock_"), "got %q", p.TransactionID)
	assert.Equal(t, order.PaymentStatusPaid, orderRepo.orders[1].PaymentStatus)
	assert.Len(t, paymentRepo.payments, 1)
}

func TestCaptureKeepsSuppliedTransactionRef(t *testing.T) {
	svc, _, _ := newFixture()

	p, err := svc.Capture(context.Background(), CaptureModel{
		OrderID:       1,
		Amount:        decimal.RequireFromString("25.00"),
		TransactionID: "bank-777",
	})
	require.NoError(t, err)
	assert.Equal(t, "bank-777", p.TransactionID)
}

func TestCaptureValidation(t *testing.T) {
	svc, paymentRepo, _ := newFixture()

	_, err := svc.Capture(context.Background(), CaptureModel{OrderID: 1, Amount: decimal.Zero})
	assert.True(t, apperr.IsKind(err, apperr.KindValidation), "got %v", err)

	_, err = svc.Capture(context.Background(), CaptureModel{
		OrderID: 0,
		Amount:  decimal.RequireFromString("5.00"),
	})
	assert.True(t, apperr.IsKind(err, apperr.KindValidation), "got %v", err)

	assert.Empty(t, paymentRepo.payments)
}

func TestCaptureUnknownOrder(t *testing.T) {
	svc, paymentRepo, _ := newFixture()

	_, err := svc.Capture(context.Background(), CaptureModel{
		OrderID: 99,
		Amount:  decimal.RequireFromString("5.00"),
	})
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound), "got %v", err)
	assert.Empty(t, paymentRepo.payments)
}

func TestCheckout(t *testing.T) {
	svc, paymentRepo, orderRepo := newFixture()

	err := svc.Checkout(context.Background(), CheckoutModel{
		OrderID:     1,
		Amount:      decimal.RequireFromString("42.00"),
		DeliveryFee: decimal.RequireFromString("6.00"),
	})
	require.NoError(t, err)

	assert.Equal(t, order.PaymentStatusPaid, orderRepo.orders[1].PaymentStatus)
	assert.True(t, orderRepo.orders[1].DeliveryFee.Equal(decimal.RequireFromString("6.00")))

	require.Len(t, paymentRepo.payments, 1)
	p := paymentRepo.payments[0]
	assert.Equal(t, "Credit Card", p.PaymentMethod)
	assert.True(t, strings.HasPrefix(p.TransactionID, "card_"), "got %q", p.TransactionID)
	assert.Equal(t, payment.StatusSuccessful, p.Status)
}

func TestCheckoutZeroAmountWritesNoPaymentRow(t *testing.T) {
	svc, paymentRepo, orderRepo := newFixture()

	err := svc.Checkout(context.Background(), CheckoutModel{
		OrderID:     1,
		Amount:      decimal.Zero,
		DeliveryFee: decimal.RequireFromString("6.00"),
	})
	require.NoError(t, err)

	assert.Equal(t, order.PaymentStatusPaid, orderRepo.orders[1].PaymentStatus)
	assert.Empty(t, paymentRepo.payments)
}

func TestCheckoutUnknownOrder(t *testing.T) {
	svc, paymentRepo, _ := newFixture()

	err := svc.Checkout(context.Background(), CheckoutModel{
		OrderID: 99,
		Amount:  decimal.RequireFromString("1.00"),
	})
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound), "got %v", err)
	assert.Empty(t, paymentRepo.payments)
}

func TestGetLatestByOrder(t *testing.T) {
	svc, _, _ := newFixture()

	_, err := svc.Capture(context.Background(), CaptureModel{
		OrderID: 1,
		Amount:  decimal.RequireFromString("5.00"),
	})
	require.NoError(t, err)

	second, err := svc.Capture(context.Background(), CaptureModel{
		OrderID: 1,
		Amount:  decimal.RequireFromString("7.00"),
	})
	require.NoError(t, err)

	latest, err := svc.GetLatestByOrder(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, second.ID, latest.ID)

	_, err = svc.GetLatestByOrder(context.Background(), 99)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}
