package ordersvc

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/farm2school/order/internal/dal/interfaces/iorderitemrepo"
	"github.com/farm2school/order/internal/dal/interfaces/iorderrepo"
	"github.com/farm2school/order/internal/dal/interfaces/iproducerepo"
	"github.com/farm2school/order/internal/service/models/apperr"
	"github.com/farm2school/order/internal/service/models/order"
	"github.com/farm2school/order/internal/service/models/orderitem"
	"github.com/farm2school/order/internal/service/models/outbox"
	"github.com/farm2school/order/internal/service/models/produce"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore is the shared state behind the fake repositories. It mimics the
// database: inserts and decrements are visible immediately (row locks), and
// a rollback undoes everything the transaction wrote.
type fakeStore struct {
	mu          sync.Mutex
	nextOrderID int64
	nextItemID  int64
	orders      map[int64]order.Order
	items       []orderitem.OrderItem
	stock       map[int64]int

	failItemInsert bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		orders: make(map[int64]order.Order),
		stock:  make(map[int64]int),
	}
}

type fakeUOW struct {
	store *fakeStore

	began      bool
	committed  bool
	rolledBack bool

	insertedOrders []int64
	decrements     map[int64]int
}

func newFakeUOW(store *fakeStore) *fakeUOW {
	return &fakeUOW{store: store, decrements: make(map[int64]int)}
}

func (u *fakeUOW) Begin(_ context.Context) error {
	u.began = true
	return nil
}

func (u *fakeUOW) Commit(_ context.Context) error {
	u.committed = true
	return nil
}

func (u *fakeUOW) Rollback(_ context.Context) error {
	u.rolledBack = true

	u.store.mu.Lock()
	defer u.store.mu.Unlock()

	for _, id := range u.insertedOrders {
		delete(u.store.orders, id)
		kept := u.store.items[:0]
		for _, item := range u.store.items {
			if item.OrderID != id {
				kept = append(kept, item)
			}
		}
		u.store.items = kept
	}
	for produceID, qty := range u.decrements {
		u.store.stock[produceID] += qty
	}

	return nil
}

func (u *fakeUOW) OrderRepository() iorderrepo.IOrderRepository {
	return &fakeOrderRepo{u: u}
}

func (u *fakeUOW) OrderItemRepository() iorderitemrepo.IOrderItemRepository {
	return &fakeOrderItemRepo{u: u}
}

func (u *fakeUOW) ProduceRepository() iproducerepo.IProduceRepository {
	return &fakeProduceRepo{u: u}
}

type fakeOrderRepo struct {
	u *fakeUOW
}

func (r *fakeOrderRepo) Insert(_ context.Context, o order.Order) (order.Order, error) {
	s := r.u.store
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextOrderID++
	o.ID = s.nextOrderID
	s.orders[o.ID] = o
	r.u.insertedOrders = append(r.u.insertedOrders, o.ID)

	return o, nil
}

func (r *fakeOrderRepo) GetByID(_ context.Context, orderID int64) (*order.Order, error) {
	s := r.u.store
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders[orderID]
	if !ok {
		return nil, apperr.Newf(apperr.KindNotFound, "order %d not found", orderID)
	}
	o.OrderItems = nil

	return &o, nil
}

func (r *fakeOrderRepo) Query(_ context.Context, filter *order.QueryOrdersModel) ([]order.Order, error) {
	s := r.u.store
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []order.Order
	for _, o := range s.orders {
		if len(filter.SchoolIds) > 0 && !containsID(filter.SchoolIds, o.SchoolID) {
			continue
		}
		if len(filter.FarmerIds) > 0 && !containsID(filter.FarmerIds, o.FarmerID) {
			continue
		}
		o.OrderItems = nil
		out = append(out, o)
	}

	return out, nil
}

func containsID(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func (r *fakeOrderRepo) UpdateStatus(_ context.Context, orderID int64, status order.Status) error {
	s := r.u.store
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders[orderID]
	if !ok {
		return apperr.Newf(apperr.KindNotFound, "order %d not found", orderID)
	}
	o.Status = status
	s.orders[orderID] = o

	return nil
}

func (r *fakeOrderRepo) UpdatePaymentStatus(_ context.Context, orderID int64, status order.PaymentStatus) error {
	s := r.u.store
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders[orderID]
	if !ok {
		return apperr.Newf(apperr.KindNotFound, "order %d not found", orderID)
	}
	o.PaymentStatus = status
	s.orders[orderID] = o

	return nil
}

func (r *fakeOrderRepo) UpdatePaymentAndFee(
	_ context.Context,
	orderID int64,
	status order.PaymentStatus,
	deliveryFee decimal.Decimal,
) error {
	s := r.u.store
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders[orderID]
	if !ok {
		return apperr.Newf(apperr.KindNotFound, "order %d not found", orderID)
	}
	o.PaymentStatus = status
	o.DeliveryFee = deliveryFee
	s.orders[orderID] = o

	return nil
}

type fakeOrderItemRepo struct {
	u *fakeUOW
}

func (r *fakeOrderItemRepo) BulkInsert(
	_ context.Context,
	items []orderitem.OrderItem,
) ([]orderitem.OrderItem, error) {
	s := r.u.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failItemInsert {
		return nil, errors.New("connection reset by peer")
	}

	out := make([]orderitem.OrderItem, 0, len(items))
	for _, item := range items {
		s.nextItemID++
		item.ID = s.nextItemID
		s.items = append(s.items, item)
		out = append(out, item)
	}

	return out, nil
}

func (r *fakeOrderItemRepo) Query(
	_ context.Context,
	filter *orderitem.QueryOrderItemsModel,
) ([]orderitem.OrderItem, error) {
	s := r.u.store
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []orderitem.OrderItem
	for _, item := range s.items {
		if len(filter.OrderIds) > 0 && !containsID(filter.OrderIds, item.OrderID) {
			continue
		}
		out = append(out, item)
	}

	return out, nil
}

type fakeProduceRepo struct {
	u *fakeUOW
}

func (r *fakeProduceRepo) DecrementQuantity(_ context.Context, produceID int64, qty int) error {
	s := r.u.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stock[produceID] < qty {
		return apperr.Newf(
			apperr.KindInsufficientInventory,
			"produce %d has insufficient inventory",
			produceID,
		)
	}
	s.stock[produceID] -= qty
	r.u.decrements[produceID] += qty

	return nil
}

func (r *fakeProduceRepo) Insert(_ context.Context, p produce.Produce) (produce.Produce, error) {
	return p, nil
}

func (r *fakeProduceRepo) GetByID(_ context.Context, _ int64) (*produce.Produce, error) {
	return nil, apperr.New(apperr.KindNotFound, "not implemented")
}

func (r *fakeProduceRepo) ListByFarmer(_ context.Context, _ int64) ([]produce.Produce, error) {
	return nil, nil
}

func (r *fakeProduceRepo) SearchAvailable(_ context.Context, _ *produce.SearchModel) ([]produce.Produce, error) {
	return nil, nil
}

func (r *fakeProduceRepo) Update(_ context.Context, _ int64, _ *produce.UpdateModel) error {
	return nil
}

type fakeOutboxRepo struct {
	mu       sync.Mutex
	messages []outbox.Message
}

func (r *fakeOutboxRepo) Insert(_ context.Context, msg outbox.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, msg)
	return nil
}

func (r *fakeOutboxRepo) GetPendingMessages(_ context.Context, _ int) ([]outbox.Message, error) {
	return nil, nil
}

func (r *fakeOutboxRepo) Delete(_ context.Context, _ int64) error { return nil }

func (r *fakeOutboxRepo) UpdateRetry(_ context.Context, _ int64, _ int, _ string, _ time.Time) error {
	return nil
}

type fakeAuditRepo struct {
	fail   bool
	logged []order.Order
}

func (r *fakeAuditRepo) LogOrderCreated(_ context.Context, o order.Order) error {
	if r.fail {
		return errors.New("broker unavailable")
	}
	r.logged = append(r.logged, o)
	return nil
}

func newService(store *fakeStore) *OrderService {
	return MustNewOrderService(
		WithUnitOfWorkFactory(func() unitOfWork {
			return newFakeUOW(store)
		}),
	)
}

func validOrder() order.Order {
	return order.Order{
		SchoolID:     1,
		FarmerID:     2,
		DeliveryDate: time.Now().Add(72 * time.Hour),
		OrderItems: []orderitem.OrderItem{
			{ProduceID: 10, Quantity: 3, UnitPrice: decimal.RequireFromString("2.50")},
			{ProduceID: 11, Quantity: 2, UnitPrice: decimal.RequireFromString("1.25")},
		},
	}
}

func TestCreateOrder(t *testing.T) {
	store := newFakeStore()
	store.stock[10] = 5
	store.stock[11] = 5
	svc := newService(store)

	created, err := svc.Create(context.Background(), validOrder())
	require.NoError(t, err)

	assert.Equal(t, order.StatusPending, created.Status)
	assert.Equal(t, order.PaymentStatusUnpaid, created.PaymentStatus)
	assert.True(t, created.TotalCost.Equal(decimal.RequireFromString("10.00")))
	require.Len(t, created.OrderItems, 2)
	assert.Equal(t, created.ID, created.OrderItems[0].OrderID)
	assert.True(t, created.OrderItems[0].Subtotal.Equal(decimal.RequireFromString("7.50")))
	assert.True(t, created.OrderItems[1].Subtotal.Equal(decimal.RequireFromString("2.50")))

	assert.Equal(t, 2, store.stock[10])
	assert.Equal(t, 3, store.stock[11])
}

func TestCreateOrderValidation(t *testing.T) {
	store := newFakeStore()
	svc := newService(store)

	cases := []struct {
		name   string
		mutate func(*order.Order)
	}{
		{"missing school", func(o *order.Order) { o.SchoolID = 0 }},
		{"missing farmer", func(o *order.Order) { o.FarmerID = 0 }},
		{"no items", func(o *order.Order) { o.OrderItems = nil }},
		{"zero quantity", func(o *order.Order) { o.OrderItems[0].Quantity = 0 }},
		{"negative price", func(o *order.Order) {
			o.OrderItems[0].UnitPrice = decimal.RequireFromString("-1")
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			o := validOrder()
			tc.mutate(&o)

			_, err := svc.Create(context.Background(), o)
			assert.True(t, apperr.IsKind(err, apperr.KindValidation), "got %v", err)
			assert.Empty(t, store.orders)
		})
	}
}

func TestCreateOrderInsufficientInventoryRollsBack(t *testing.T) {
	store := newFakeStore()
	store.stock[10] = 5
	store.stock[11] = 1 // second item wants 2
	svc := newService(store)

	_, err := svc.Create(context.Background(), validOrder())
	assert.True(t, apperr.IsKind(err, apperr.KindInsufficientInventory), "got %v", err)

	assert.Empty(t, store.orders, "no order row may survive the rollback")
	assert.Empty(t, store.items)
	assert.Equal(t, 5, store.stock[10], "first decrement must be undone")
	assert.Equal(t, 1, store.stock[11])
}

func TestCreateOrderMidTransactionFailureLeavesNoRows(t *testing.T) {
	store := newFakeStore()
	store.stock[10] = 5
	store.stock[11] = 5
	store.failItemInsert = true
	svc := newService(store)

	_, err := svc.Create(context.Background(), validOrder())
	assert.True(t, apperr.IsKind(err, apperr.KindTransactionFailed), "got %v", err)

	assert.Empty(t, store.orders)
	assert.Empty(t, store.items)
	assert.Equal(t, 5, store.stock[10])
}

func TestConcurrentCreateNeverOversells(t *testing.T) {
	store := newFakeStore()
	store.stock[10] = 5
	svc := newService(store)

	const attempts = 20

	var wg sync.WaitGroup
	results := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Create(context.Background(), order.Order{
				SchoolID:     1,
				FarmerID:     2,
				DeliveryDate: time.Now().Add(72 * time.Hour),
				OrderItems: []orderitem.OrderItem{
					{ProduceID: 10, Quantity: 1, UnitPrice: decimal.RequireFromString("2.00")},
				},
			})
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	succeeded := 0
	for err := range results {
		if err == nil {
			succeeded++
		} else {
			assert.True(t, apperr.IsKind(err, apperr.KindInsufficientInventory), "got %v", err)
		}
	}

	assert.Equal(t, 5, succeeded)
	assert.Equal(t, 0, store.stock[10])
	assert.Len(t, store.orders, 5)
}

func TestCreateOrderFallsBackToOutbox(t *testing.T) {
	store := newFakeStore()
	store.stock[10] = 5
	store.stock[11] = 5
	auditRepo := &fakeAuditRepo{fail: true}
	outboxRepo := &fakeOutboxRepo{}

	svc := MustNewOrderService(
		WithUnitOfWorkFactory(func() unitOfWork { return newFakeUOW(store) }),
		WithAuditRepository(auditRepo),
		WithOutboxRepository(outboxRepo),
	)

	_, err := svc.Create(context.Background(), validOrder())
	require.NoError(t, err, "publish failures must not fail the order")

	require.Len(t, outboxRepo.messages, 1)
	assert.Equal(t, "f2s.order.created", outboxRepo.messages[0].QueueName)
}

func TestCreateOrderPublishesAuditEvent(t *testing.T) {
	store := newFakeStore()
	store.stock[10] = 5
	store.stock[11] = 5
	auditRepo := &fakeAuditRepo{}
	outboxRepo := &fakeOutboxRepo{}

	svc := MustNewOrderService(
		WithUnitOfWorkFactory(func() unitOfWork { return newFakeUOW(store) }),
		WithAuditRepository(auditRepo),
		WithOutboxRepository(outboxRepo),
	)

	created, err := svc.Create(context.Background(), validOrder())
	require.NoError(t, err)

	require.Len(t, auditRepo.logged, 1)
	assert.Equal(t, created.ID, auditRepo.logged[0].ID)
	assert.Empty(t, outboxRepo.messages)
}

func TestGetByIDAttachesItems(t *testing.T) {
	store := newFakeStore()
	store.stock[10] = 5
	store.stock[11] = 5
	svc := newService(store)

	created, err := svc.Create(context.Background(), validOrder())
	require.NoError(t, err)

	got, err := svc.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Len(t, got.OrderItems, 2)
}

func TestGetByIDNotFound(t *testing.T) {
	svc := newService(newFakeStore())

	_, err := svc.GetByID(context.Background(), 42)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestUpdateStatus(t *testing.T) {
	store := newFakeStore()
	store.stock[10] = 5
	store.stock[11] = 5
	svc := newService(store)

	created, err := svc.Create(context.Background(), validOrder())
	require.NoError(t, err)

	updated, err := svc.UpdateStatus(context.Background(), created.ID, order.StatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, order.StatusConfirmed, updated.Status)

	_, err = svc.UpdateStatus(context.Background(), created.ID, order.StatusPending)
	assert.True(t, apperr.IsKind(err, apperr.KindInvalidTransition), "got %v", err)
}

func TestUpdateStatusSkippingAStepIsRejected(t *testing.T) {
	store := newFakeStore()
	store.stock[10] = 5
	store.stock[11] = 5
	svc := newService(store)

	created, err := svc.Create(context.Background(), validOrder())
	require.NoError(t, err)

	_, err = svc.UpdateStatus(context.Background(), created.ID, order.StatusDelivered)
	assert.True(t, apperr.IsKind(err, apperr.KindInvalidTransition), "got %v", err)
}

func TestCancel(t *testing.T) {
	store := newFakeStore()
	store.stock[10] = 5
	store.stock[11] = 5
	svc := newService(store)

	created, err := svc.Create(context.Background(), validOrder())
	require.NoError(t, err)

	cancelled, err := svc.Cancel(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, order.StatusCancelled, cancelled.Status)

	// Reserved inventory stays reserved after cancellation.
	assert.Equal(t, 2, store.stock[10])

	_, err = svc.Cancel(context.Background(), created.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindAlreadyCancelled), "got %v", err)
}

func TestCancelDeliveredOrderIsRejected(t *testing.T) {
	store := newFakeStore()
	store.stock[10] = 5
	store.stock[11] = 5
	svc := newService(store)

	created, err := svc.Create(context.Background(), validOrder())
	require.NoError(t, err)

	for _, next := range []order.Status{order.StatusConfirmed, order.StatusShipped, order.StatusDelivered} {
		_, err = svc.UpdateStatus(context.Background(), created.ID, next)
		require.NoError(t, err)
	}

	_, err = svc.Cancel(context.Background(), created.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindInvalidTransition), "got %v", err)
}

func TestListBySchool(t *testing.T) {
	store := newFakeStore()
	store.stock[10] = 50
	store.stock[11] = 50
	svc := newService(store)

	_, err := svc.Create(context.Background(), validOrder())
	require.NoError(t, err)

	other := validOrder()
	other.SchoolID = 7
	_, err = svc.Create(context.Background(), other)
	require.NoError(t, err)

	orders, err := svc.ListBySchool(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, int64(1), orders[0].SchoolID)
	assert.Len(t, orders[0].OrderItems, 2)

	orders, err = svc.ListBySchool(context.Background(), 99)
	require.NoError(t, err)
	assert.Empty(t, orders)
}
