package postgresrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/farm2school/order/internal/dal/postgres"
	"github.com/farm2school/order/internal/service/models/apperr"
	"github.com/farm2school/order/internal/service/models/order"
	"github.com/farm2school/order/internal/service/models/orderitem"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// OrderDal represents the order data access layer model.
type OrderDal struct {
	Id            int64           `db:"order_id"`
	SchoolId      int64           `db:"school_id"`
	FarmerId      int64           `db:"farmer_id"`
	OrderDate     time.Time       `db:"order_date"`
	DeliveryDate  time.Time       `db:"delivery_date"`
	Status        string          `db:"status"`
	TotalCost     decimal.Decimal `db:"total_cost"`
	PaymentStatus string          `db:"payment_status"`
	DeliveryFee   decimal.Decimal `db:"delivery_fee"`
	CreatedAt     time.Time       `db:"created_at"`
}

// ToModel converts OrderDal to the service layer Order model.
func (o *OrderDal) ToModel() (*order.Order, error) {
	status, err := order.ParseStatus(o.Status)
	if err != nil {
		return nil, err
	}
	paymentStatus, err := order.ParsePaymentStatus(o.PaymentStatus)
	if err != nil {
		return nil, err
	}

	return &order.Order{
		ID:            o.Id,
		SchoolID:      o.SchoolId,
		FarmerID:      o.FarmerId,
		OrderDate:     o.OrderDate,
		DeliveryDate:  o.DeliveryDate,
		Status:        status,
		TotalCost:     o.TotalCost,
		PaymentStatus: paymentStatus,
		DeliveryFee:   o.DeliveryFee,
		CreatedAt:     o.CreatedAt,
		OrderItems:    []orderitem.OrderItem{}, // populated separately
	}, nil
}

// PostgresOrderRepository represents a Postgres order repository.
type PostgresOrderRepository struct {
	conn postgres.GenericConn
	sb   sq.StatementBuilderType
}

// NewPostgresOrderRepository creates a new Postgres order repository bound to
// either the pool or a transaction.
func NewPostgresOrderRepository(conn postgres.GenericConn) *PostgresOrderRepository {
	return &PostgresOrderRepository{
		conn: conn,
		sb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

var orderColumns = []string{
	"order_id",
	"school_id",
	"farmer_id",
	"order_date",
	"delivery_date",
	"status",
	"total_cost",
	"payment_status",
	"delivery_fee",
	"created_at",
}

func scanOrder(row pgx.Row) (*order.Order, error) {
	var dal OrderDal
	err := row.Scan(
		&dal.Id,
		&dal.SchoolId,
		&dal.FarmerId,
		&dal.OrderDate,
		&dal.DeliveryDate,
		&dal.Status,
		&dal.TotalCost,
		&dal.PaymentStatus,
		&dal.DeliveryFee,
		&dal.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	return dal.ToModel()
}

// Insert inserts a single order and returns it with its generated id and
// creation timestamp.
func (r *PostgresOrderRepository) Insert(ctx context.Context, o order.Order) (order.Order, error) {
	query, args, err := r.sb.
		Insert("orders").
		Columns(
			"school_id",
			"farmer_id",
			"order_date",
			"delivery_date",
			"status",
			"total_cost",
			"payment_status",
			"delivery_fee",
			"created_at",
		).
		Values(
			o.SchoolID,
			o.FarmerID,
			o.OrderDate,
			o.DeliveryDate,
			o.Status,
			o.TotalCost,
			o.PaymentStatus,
			o.DeliveryFee,
			o.CreatedAt,
		).
		Suffix("RETURNING order_id, created_at").
		ToSql()
	if err != nil {
		return order.Order{}, fmt.Errorf("failed to build insert query: %w", err)
	}

	if err := r.conn.QueryRow(ctx, query, args...).Scan(&o.ID, &o.CreatedAt); err != nil {
		return order.Order{}, fmt.Errorf("failed to insert order: %w", err)
	}

	return o, nil
}

// GetByID retrieves one order by its id.
func (r *PostgresOrderRepository) GetByID(ctx context.Context, orderID int64) (*order.Order, error) {
	query, args, err := r.sb.
		Select(orderColumns...).
		From("orders").
		Where(sq.Eq{"order_id": orderID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	model, err := scanOrder(r.conn.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.Newf(apperr.KindNotFound, "order %d not found", orderID)
		}

		return nil, fmt.Errorf("failed to get order %d: %w", orderID, err)
	}

	return model, nil
}

// Query retrieves orders based on filter criteria, newest order date first.
func (r *PostgresOrderRepository) Query(
	ctx context.Context,
	filter *order.QueryOrdersModel,
) ([]order.Order, error) {
	query := r.sb.
		Select(orderColumns...).
		From("orders").
		OrderBy("order_date DESC")

	if len(filter.Ids) > 0 {
		query = query.Where(sq.Eq{"order_id": filter.Ids})
	}

	if len(filter.SchoolIds) > 0 {
		query = query.Where(sq.Eq{"school_id": filter.SchoolIds})
	}

	if len(filter.FarmerIds) > 0 {
		query = query.Where(sq.Eq{"farmer_id": filter.FarmerIds})
	}

	if filter.Limit > 0 {
		query = query.Limit(uint64(filter.Limit))
	}

	if filter.Offset > 0 {
		query = query.Offset(uint64(filter.Offset))
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.conn.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var result []order.Order
	for rows.Next() {
		model, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		result = append(result, *model)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return result, nil
}

// UpdateStatus sets the lifecycle status of an order.
func (r *PostgresOrderRepository) UpdateStatus(
	ctx context.Context,
	orderID int64,
	status order.Status,
) error {
	query, args, err := r.sb.
		Update("orders").
		Set("status", status).
		Where(sq.Eq{"order_id": orderID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update query: %w", err)
	}

	tag, err := r.conn.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update order %d status: %w", orderID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.Newf(apperr.KindNotFound, "order %d not found", orderID)
	}

	return nil
}

// UpdatePaymentStatus sets the payment status of an order.
func (r *PostgresOrderRepository) UpdatePaymentStatus(
	ctx context.Context,
	orderID int64,
	status order.PaymentStatus,
) error {
	query, args, err := r.sb.
		Update("orders").
		Set("payment_status", status).
		Where(sq.Eq{"order_id": orderID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update query: %w", err)
	}

	tag, err := r.conn.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update order %d payment status: %w", orderID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.Newf(apperr.KindNotFound, "order %d not found", orderID)
	}

	return nil
}

// UpdatePaymentAndFee sets payment status and delivery fee in one statement,
// the checkout path's single update.
func (r *PostgresOrderRepository) UpdatePaymentAndFee(
	ctx context.Context,
	orderID int64,
	status order.PaymentStatus,
	deliveryFee decimal.Decimal,
) error {
	query, args, err := r.sb.
		Update("orders").
		Set("payment_status", status).
		Set("delivery_fee", deliveryFee).
		Where(sq.Eq{"order_id": orderID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update query: %w", err)
	}

	tag, err := r.conn.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update order %d payment and fee: %w", orderID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.Newf(apperr.KindNotFound, "order %d not found", orderID)
	}

	return nil
}
