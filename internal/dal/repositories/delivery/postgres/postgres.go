package postgresrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/farm2school/order/internal/dal/postgres"
	"github.com/farm2school/order/internal/service/models/apperr"
	"github.com/farm2school/order/internal/service/models/delivery"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
)

// DeliveryDal represents the delivery data access layer model.
type DeliveryDal struct {
	Id               int64           `db:"delivery_id"`
	OrderId          int64           `db:"order_id"`
	TruckCompany     *string         `db:"truck_company"`
	TruckContact     *string         `db:"truck_contact"`
	DeliveryFeeTotal decimal.Decimal `db:"delivery_fee_total"`
	SchoolShare      decimal.Decimal `db:"school_share"`
	FarmerShare      decimal.Decimal `db:"farmer_share"`
	DeliveryStatus   string          `db:"delivery_status"`
	EstimatedArrival time.Time       `db:"estimated_arrival"`
}

// ToModel converts DeliveryDal to the service layer Delivery model.
func (d *DeliveryDal) ToModel() (*delivery.Delivery, error) {
	status, err := delivery.ParseStatus(d.DeliveryStatus)
	if err != nil {
		return nil, err
	}

	truckCompany, truckContact := "", ""
	if d.TruckCompany != nil {
		truckCompany = *d.TruckCompany
	}
	if d.TruckContact != nil {
		truckContact = *d.TruckContact
	}

	return &delivery.Delivery{
		ID:               d.Id,
		OrderID:          d.OrderId,
		TruckCompany:     truckCompany,
		TruckContact:     truckContact,
		FeeTotal:         d.DeliveryFeeTotal,
		SchoolShare:      d.SchoolShare,
		FarmerShare:      d.FarmerShare,
		Status:           status,
		EstimatedArrival: d.EstimatedArrival,
	}, nil
}

// PostgresDeliveryRepository represents a Postgres delivery repository.
type PostgresDeliveryRepository struct {
	conn postgres.GenericConn
	sb   sq.StatementBuilderType
}

// NewPostgresDeliveryRepository creates a new Postgres delivery repository.
func NewPostgresDeliveryRepository(conn postgres.GenericConn) *PostgresDeliveryRepository {
	return &PostgresDeliveryRepository{
		conn: conn,
		sb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

const uniqueViolation = "23505"

// Insert creates the delivery for an order. The table carries a unique
// constraint on order_id; a second insert for the same order is a conflict.
func (r *PostgresDeliveryRepository) Insert(
	ctx context.Context,
	d delivery.Delivery,
) (delivery.Delivery, error) {
	query, args, err := r.sb.
		Insert("deliveries").
		Columns(
			"order_id",
			"truck_company",
			"truck_contact",
			"delivery_fee_total",
			"school_share",
			"farmer_share",
			"delivery_status",
			"estimated_arrival",
		).
		Values(
			d.OrderID,
			d.TruckCompany,
			d.TruckContact,
			d.FeeTotal,
			d.SchoolShare,
			d.FarmerShare,
			d.Status,
			d.EstimatedArrival,
		).
		Suffix("RETURNING delivery_id").
		ToSql()
	if err != nil {
		return delivery.Delivery{}, fmt.Errorf("failed to build insert query: %w", err)
	}

	if err := r.conn.QueryRow(ctx, query, args...).Scan(&d.ID); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return delivery.Delivery{}, apperr.Newf(
				apperr.KindConflict,
				"order %d already has a delivery",
				d.OrderID,
			)
		}

		return delivery.Delivery{}, fmt.Errorf("failed to insert delivery: %w", err)
	}

	return d, nil
}

// GetByOrder retrieves the delivery for an order.
func (r *PostgresDeliveryRepository) GetByOrder(
	ctx context.Context,
	orderID int64,
) (*delivery.Delivery, error) {
	query, args, err := r.sb.
		Select(
			"delivery_id",
			"order_id",
			"truck_company",
			"truck_contact",
			"delivery_fee_total",
			"school_share",
			"farmer_share",
			"delivery_status",
			"estimated_arrival",
		).
		From("deliveries").
		Where(sq.Eq{"order_id": orderID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	var dal DeliveryDal
	err = r.conn.QueryRow(ctx, query, args...).Scan(
		&dal.Id,
		&dal.OrderId,
		&dal.TruckCompany,
		&dal.TruckContact,
		&dal.DeliveryFeeTotal,
		&dal.SchoolShare,
		&dal.FarmerShare,
		&dal.DeliveryStatus,
		&dal.EstimatedArrival,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.Newf(apperr.KindNotFound, "no delivery found for order %d", orderID)
		}

		return nil, fmt.Errorf("failed to get delivery for order %d: %w", orderID, err)
	}

	return dal.ToModel()
}

// UpdateStatus sets the delivery status.
func (r *PostgresDeliveryRepository) UpdateStatus(
	ctx context.Context,
	deliveryID int64,
	status delivery.Status,
) error {
	query, args, err := r.sb.
		Update("deliveries").
		Set("delivery_status", status).
		Where(sq.Eq{"delivery_id": deliveryID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update query: %w", err)
	}

	tag, err := r.conn.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update delivery %d status: %w", deliveryID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.Newf(apperr.KindNotFound, "delivery %d not found", deliveryID)
	}

	return nil
}
