package uow

import (
	"context"

	"github.com/farm2school/order/internal/dal/interfaces/iorderitemrepo"
	"github.com/farm2school/order/internal/dal/interfaces/iorderrepo"
	"github.com/farm2school/order/internal/dal/interfaces/iproducerepo"
	"github.com/farm2school/order/internal/dal/postgres"
	orderrepo "github.com/farm2school/order/internal/dal/repositories/order/postgres"
	orderitemrepo "github.com/farm2school/order/internal/dal/repositories/orderitem/postgres"
	producerepo "github.com/farm2school/order/internal/dal/repositories/produce/postgres"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// UnitOfWork binds the order, order item and produce repositories to a single
// transaction so checkout writes commit or roll back together.
type UnitOfWork struct {
	pool          *pgxpool.Pool
	tx            pgx.Tx
	orderRepo     iorderrepo.IOrderRepository
	orderItemRepo iorderitemrepo.IOrderItemRepository
	produceRepo   iproducerepo.IProduceRepository
}

func NewUnitOfWork(client *postgres.Client) *UnitOfWork {
	return &UnitOfWork{
		pool:          client.Pool(),
		orderRepo:     orderrepo.NewPostgresOrderRepository(client.Pool()),
		orderItemRepo: orderitemrepo.NewPostgresOrderItemRepository(client.Pool()),
		produceRepo:   producerepo.NewPostgresProduceRepository(client.Pool()),
	}
}

func (u *UnitOfWork) OrderRepository() iorderrepo.IOrderRepository {
	return u.orderRepo
}

func (u *UnitOfWork) OrderItemRepository() iorderitemrepo.IOrderItemRepository {
	return u.orderItemRepo
}

func (u *UnitOfWork) ProduceRepository() iproducerepo.IProduceRepository {
	return u.produceRepo
}

// Begin opens a transaction and rebinds the repositories to it.
func (u *UnitOfWork) Begin(ctx context.Context) error {
	tx, err := u.pool.Begin(ctx)
	if err != nil {
		return err
	}

	u.tx = tx
	u.orderRepo = orderrepo.NewPostgresOrderRepository(tx)
	u.orderItemRepo = orderitemrepo.NewPostgresOrderItemRepository(tx)
	u.produceRepo = producerepo.NewPostgresProduceRepository(tx)

	return nil
}

func (u *UnitOfWork) Commit(ctx context.Context) error {
	if u.tx == nil {
		return nil
	}
	return u.tx.Commit(ctx)
}

func (u *UnitOfWork) Rollback(ctx context.Context) error {
	if u.tx == nil {
		return nil
	}
	return u.tx.Rollback(ctx)
}
