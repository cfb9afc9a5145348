package ordersvc

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/farm2school/order/internal/dal/interfaces/iauditrepo"
	"github.com/farm2school/order/internal/dal/interfaces/iorderitemrepo"
	"github.com/farm2school/order/internal/dal/interfaces/iorderrepo"
	"github.com/farm2school/order/internal/dal/interfaces/ioutboxrepo"
	"github.com/farm2school/order/internal/dal/interfaces/iproducerepo"
	"github.com/farm2school/order/internal/dal/postgres"
	"github.com/farm2school/order/internal/dal/repositories/audit"
	"github.com/farm2school/order/internal/dal/uow"
	"github.com/farm2school/order/internal/service/models/apperr"
	"github.com/farm2school/order/internal/service/models/order"
	"github.com/farm2school/order/internal/service/models/orderitem"
	"github.com/farm2school/order/internal/service/models/outbox"
	"github.com/shopspring/decimal"
)

const outboxMaxRetries = 5

// OrderService manages the order lifecycle: creation with inventory
// decrement, status transitions and cancellation.
type OrderService struct {
	pgClient   *postgres.Client
	auditRepo  iauditrepo.IAuditRepository
	outboxRepo ioutboxrepo.IOutboxRepository
	newUOW     func() unitOfWork
}

type unitOfWork interface {
	Begin(ctx context.Context) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error

	OrderRepository() iorderrepo.IOrderRepository
	OrderItemRepository() iorderitemrepo.IOrderItemRepository
	ProduceRepository() iproducerepo.IProduceRepository
}

// option is a function that configures the OrderService.
type option func(*OrderService)

// MustNewOrderService creates a new OrderService.
func MustNewOrderService(opts ...option) *OrderService {
	s := &OrderService{}
	for _, opt := range opts {
		opt(s)
	}

	if s.newUOW == nil {
		s.newUOW = func() unitOfWork {
			return uow.NewUnitOfWork(s.pgClient)
		}
	}

	return s
}

// WithPostgresClient sets the Postgres client for the OrderService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithPostgresClient(pgClient *postgres.Client) option {
	return func(s *OrderService) {
		s.pgClient = pgClient
	}
}

// WithAuditRepository sets the audit event publisher.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithAuditRepository(repo iauditrepo.IAuditRepository) option {
	return func(s *OrderService) {
		s.auditRepo = repo
	}
}

// WithOutboxRepository sets the outbox used when publishing fails.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithOutboxRepository(repo ioutboxrepo.IOutboxRepository) option {
	return func(s *OrderService) {
		s.outboxRepo = repo
	}
}

// WithUnitOfWorkFactory overrides how transactions are opened.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithUnitOfWorkFactory(factory func() unitOfWork) option {
	return func(s *OrderService) {
		s.newUOW = factory
	}
}

func validateNewOrder(o order.Order) error {
	if o.SchoolID <= 0 {
		return apperr.New(apperr.KindValidation, "school id is required")
	}
	if o.FarmerID <= 0 {
		return apperr.New(apperr.KindValidation, "farmer id is required")
	}
	if len(o.OrderItems) == 0 {
		return apperr.New(apperr.KindValidation, "order must contain at least one item")
	}
	for _, item := range o.OrderItems {
		if item.ProduceID <= 0 {
			return apperr.New(apperr.KindValidation, "order item produce id is required")
		}
		if item.Quantity <= 0 {
			return apperr.New(apperr.KindValidation, "order item quantity must be positive")
		}
		if item.UnitPrice.IsNegative() {
			return apperr.New(apperr.KindValidation, "order item unit price must not be negative")
		}
	}

	return nil
}

// Create inserts the order with its items and decrements produce inventory,
// all in one transaction. If any listing lacks stock the whole order fails
// and nothing is written.
func (s *OrderService) Create(ctx context.Context, o order.Order) (order.Order, error) {
	if err := validateNewOrder(o); err != nil {
		return order.Order{}, err
	}

	now := time.Now()
	o.OrderDate = now
	o.CreatedAt = now
	o.Status = order.StatusPending
	o.PaymentStatus = order.PaymentStatusUnpaid
	o.TotalCost = order.ComputeTotal(o.OrderItems)

	work := s.newUOW()
	if err := work.Begin(ctx); err != nil {
		return order.Order{}, apperr.Wrap(apperr.KindTransactionFailed, "failed to start order transaction", err)
	}

	created, err := s.createInTx(ctx, work, o)
	if err != nil {
		if rbErr := work.Rollback(ctx); rbErr != nil {
			slog.Error("failed to roll back order transaction", "error", rbErr)
		}

		return order.Order{}, err
	}

	if err := work.Commit(ctx); err != nil {
		return order.Order{}, apperr.Wrap(apperr.KindTransactionFailed, "failed to commit order transaction", err)
	}

	s.publishOrderCreated(ctx, created)

	return created, nil
}

func (s *OrderService) createInTx(
	ctx context.Context,
	work unitOfWork,
	o order.Order,
) (order.Order, error) {
	created, err := work.OrderRepository().Insert(ctx, o)
	if err != nil {
		return order.Order{}, wrapTxErr("failed to insert order", err)
	}

	items := make([]orderitem.OrderItem, 0, len(o.OrderItems))
	for _, item := range o.OrderItems {
		item.OrderID = created.ID
		item.Subtotal = item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
		items = append(items, item)
	}

	created.OrderItems, err = work.OrderItemRepository().BulkInsert(ctx, items)
	if err != nil {
		return order.Order{}, wrapTxErr("failed to insert order items", err)
	}

	for _, item := range created.OrderItems {
		if err := work.ProduceRepository().DecrementQuantity(ctx, item.ProduceID, item.Quantity); err != nil {
			return order.Order{}, wrapTxErr("failed to reserve inventory", err)
		}
	}

	return created, nil
}

// wrapTxErr keeps classified errors intact and marks everything else as a
// failed transaction.
func wrapTxErr(message string, err error) error {
	if apperr.KindOf(err) != apperr.KindInternal {
		return err
	}

	return apperr.Wrap(apperr.KindTransactionFailed, message, err)
}

// publishOrderCreated sends the audit event, falling back to the outbox so
// the event survives a broker outage. Failures never fail the order.
func (s *OrderService) publishOrderCreated(ctx context.Context, o order.Order) {
	if s.auditRepo != nil {
		err := s.auditRepo.LogOrderCreated(ctx, o)
		if err == nil {
			return
		}
		slog.Warn("failed to publish order created event, queueing in outbox", "order_id", o.ID, "error", err)
	}

	if s.outboxRepo == nil {
		return
	}

	payload, err := json.Marshal(o)
	if err != nil {
		slog.Error("failed to marshal order for outbox", "order_id", o.ID, "error", err)
		return
	}

	now := time.Now()
	msg := outbox.Message{
		QueueName:   audit.OrderCreatedQueue,
		Payload:     payload,
		ContentType: "application/json",
		MaxRetries:  outboxMaxRetries,
		CreatedAt:   now,
		UpdatedAt:   now,
		NextRetryAt: now,
	}
	if err := s.outboxRepo.Insert(ctx, msg); err != nil {
		slog.Error("failed to queue order created event in outbox", "order_id", o.ID, "error", err)
	}
}

// GetByID retrieves an order with its items.
func (s *OrderService) GetByID(ctx context.Context, orderID int64) (*order.Order, error) {
	work := s.newUOW()

	o, err := work.OrderRepository().GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	items, err := work.OrderItemRepository().Query(ctx, &orderitem.QueryOrderItemsModel{
		OrderIds: []int64{orderID},
	})
	if err != nil {
		return nil, err
	}
	o.OrderItems = items

	return o, nil
}

// ListBySchool retrieves a school's orders, most recent first.
func (s *OrderService) ListBySchool(ctx context.Context, schoolID int64) ([]order.Order, error) {
	return s.list(ctx, &order.QueryOrdersModel{SchoolIds: []int64{schoolID}})
}

// ListByFarmer retrieves a farmer's orders, most recent first.
func (s *OrderService) ListByFarmer(ctx context.Context, farmerID int64) ([]order.Order, error) {
	return s.list(ctx, &order.QueryOrdersModel{FarmerIds: []int64{farmerID}})
}

func (s *OrderService) list(
	ctx context.Context,
	filter *order.QueryOrdersModel,
) ([]order.Order, error) {
	work := s.newUOW()

	orders, err := work.OrderRepository().Query(ctx, filter)
	if err != nil {
		return nil, err
	}

	if len(orders) == 0 {
		return []order.Order{}, nil
	}

	itemQuery := &orderitem.QueryOrderItemsModel{}
	for _, o := range orders {
		itemQuery.OrderIds = append(itemQuery.OrderIds, o.ID)
	}
	items, err := work.OrderItemRepository().Query(ctx, itemQuery)
	if err != nil {
		return nil, err
	}

	for i := range orders {
		for _, item := range items {
			if item.OrderID == orders[i].ID {
				orders[i].OrderItems = append(orders[i].OrderItems, item)
			}
		}
	}

	return orders, nil
}

// UpdateStatus moves an order along the lifecycle. Transitions outside the
// table are rejected; terminal statuses never change.
func (s *OrderService) UpdateStatus(
	ctx context.Context,
	orderID int64,
	next order.Status,
) (*order.Order, error) {
	work := s.newUOW()

	o, err := work.OrderRepository().GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if !o.Status.CanTransitionTo(next) {
		return nil, apperr.Newf(
			apperr.KindInvalidTransition,
			"cannot transition order from %s to %s",
			o.Status, next,
		)
	}

	if err := work.OrderRepository().UpdateStatus(ctx, orderID, next); err != nil {
		return nil, err
	}
	o.Status = next

	return o, nil
}

// Cancel cancels an order. Already-cancelled and delivered orders are
// rejected. Reserved inventory is not restored.
func (s *OrderService) Cancel(ctx context.Context, orderID int64) (*order.Order, error) {
	work := s.newUOW()

	o, err := work.OrderRepository().GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	switch o.Status {
	case order.StatusCancelled:
		return nil, apperr.Newf(apperr.KindAlreadyCancelled, "order %d is already cancelled", orderID)
	case order.StatusDelivered:
		return nil, apperr.Newf(apperr.KindInvalidTransition, "order %d has already been delivered", orderID)
	}

	if err := work.OrderRepository().UpdateStatus(ctx, orderID, order.StatusCancelled); err != nil {
		return nil, err
	}
	o.Status = order.StatusCancelled

	return o, nil
}
