package deliverysvc

import (
	"context"
	"testing"
	"time"

	"github.com/farm2school/order/internal/service/models/apperr"
	"github.com/farm2school/order/internal/service/models/delivery"
	"github.com/farm2school/order/internal/service/models/order"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDeliveryRepo struct {
	nextID     int64
	deliveries map[int64]delivery.Delivery // keyed by order id
}

func (r *fakeDeliveryRepo) Insert(_ context.Context, d delivery.Delivery) (delivery.Delivery, error) {
	if _, ok := r.deliveries[d.OrderID]; ok {
		return delivery.Delivery{}, apperr.Newf(apperr.KindConflict, "order %d already has a delivery", d.OrderID)
	}
	r.nextID++
	d.ID = r.nextID
	r.deliveries[d.OrderID] = d
	return d, nil
}

func (r *fakeDeliveryRepo) GetByOrder(_ context.Context, orderID int64) (*delivery.Delivery, error) {
	d, ok := r.deliveries[orderID]
	if !ok {
		return nil, apperr.Newf(apperr.KindNotFound, "no delivery found for order %d", orderID)
	}
	return &d, nil
}

func (r *fakeDeliveryRepo) UpdateStatus(_ context.Context, deliveryID int64, status delivery.Status) error {
	for orderID, d := range r.deliveries {
		if d.ID == deliveryID {
			d.Status = status
			r.deliveries[orderID] = d
			return nil
		}
	}
	return apperr.Newf(apperr.KindNotFound, "delivery %d not found", deliveryID)
}

type fakeOrderRepo struct {
	known map[int64]bool
}

func (r *fakeOrderRepo) Insert(_ context.Context, o order.Order) (order.Order, error) {
	return o, nil
}

func (r *fakeOrderRepo) GetByID(_ context.Context, orderID int64) (*order.Order, error) {
	if !r.known[orderID] {
		return nil, apperr.Newf(apperr.KindNotFound, "order %d not found", orderID)
	}
	return &order.Order{ID: orderID}, nil
}

func (r *fakeOrderRepo) Query(_ context.Context, _ *order.QueryOrdersModel) ([]order.Order, error) {
	return nil, nil
}

func (r *fakeOrderRepo) UpdateStatus(_ context.Context, _ int64, _ order.Status) error { return nil }

func (r *fakeOrderRepo) UpdatePaymentStatus(_ context.Context, _ int64, _ order.PaymentStatus) error {
	return nil
}

func (r *fakeOrderRepo) UpdatePaymentAndFee(
	_ context.Context, _ int64, _ order.PaymentStatus, _ decimal.Decimal,
) error {
	return nil
}

func newFixture() (*DeliveryService, *fakeDeliveryRepo) {
	deliveryRepo := &fakeDeliveryRepo{deliveries: make(map[int64]delivery.Delivery)}
	svc := MustNewDeliveryService(
		WithDeliveryRepository(deliveryRepo),
		WithOrderRepository(&fakeOrderRepo{known: map[int64]bool{1: true}}),
	)

	return svc, deliveryRepo
}

func TestSchedule(t *testing.T) {
	svc, _ := newFixture()

	d, err := svc.Schedule(context.Background(), ScheduleModel{
		OrderID:          1,
		TruckCompany:     "Valley Freight",
		FeeTotal:         decimal.RequireFromString("10.01"),
		EstimatedArrival: time.Now().Add(48 * time.Hour),
	})
	require.NoError(t, err)

	assert.Equal(t, delivery.StatusScheduled, d.Status)
	assert.True(t, d.SchoolShare.Equal(decimal.RequireFromString("5.005")))
	assert.True(t, d.FarmerShare.Equal(decimal.RequireFromString("5.005")))
	assert.True(t, d.SchoolShare.Add(d.FarmerShare).Equal(d.FeeTotal))
}

func TestScheduleTwiceIsConflict(t *testing.T) {
	svc, _ := newFixture()

	model := ScheduleModel{
		OrderID:          1,
		FeeTotal:         decimal.RequireFromString("4.00"),
		EstimatedArrival: time.Now().Add(48 * time.Hour),
	}

	_, err := svc.Schedule(context.Background(), model)
	require.NoError(t, err)

	_, err = svc.Schedule(context.Background(), model)
	assert.True(t, apperr.IsKind(err, apperr.KindConflict), "got %v", err)
}

func TestScheduleUnknownOrder(t *testing.T) {
	svc, deliveryRepo := newFixture()

	_, err := svc.Schedule(context.Background(), ScheduleModel{
		OrderID:          99,
		FeeTotal:         decimal.RequireFromString("4.00"),
		EstimatedArrival: time.Now(),
	})
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound), "got %v", err)
	assert.Empty(t, deliveryRepo.deliveries)
}

func TestScheduleNegativeFee(t *testing.T) {
	svc, _ := newFixture()

	_, err := svc.Schedule(context.Background(), ScheduleModel{
		OrderID:  1,
		FeeTotal: decimal.RequireFromString("-1.00"),
	})
	assert.True(t, apperr.IsKind(err, apperr.KindValidation), "got %v", err)
}

func TestUpdateStatus(t *testing.T) {
	svc, deliveryRepo := newFixture()

	d, err := svc.Schedule(context.Background(), ScheduleModel{
		OrderID:          1,
		FeeTotal:         decimal.RequireFromString("4.00"),
		EstimatedArrival: time.Now().Add(48 * time.Hour),
	})
	require.NoError(t, err)

	require.NoError(t, svc.UpdateStatus(context.Background(), d.ID, "In Transit"))
	assert.Equal(t, delivery.StatusInTransit, deliveryRepo.deliveries[1].Status)

	err = svc.UpdateStatus(context.Background(), d.ID, "Teleporting")
	assert.True(t, apperr.IsKind(err, apperr.KindValidation), "got %v", err)
}

func TestGetByOrder(t *testing.T) {
	svc, _ := newFixture()

	_, err := svc.GetByOrder(context.Background(), 1)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))

	scheduled, err := svc.Schedule(context.Background(), ScheduleModel{
		OrderID:          1,
		FeeTotal:         decimal.RequireFromString("4.00"),
		EstimatedArrival: time.Now().Add(48 * time.Hour),
	})
	require.NoError(t, err)

	got, err := svc.GetByOrder(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, scheduled.ID, got.ID)
}
