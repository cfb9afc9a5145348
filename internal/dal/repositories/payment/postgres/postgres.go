package postgresrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/farm2school/order/internal/dal/postgres"
	"github.com/farm2school/order/internal/service/models/apperr"
	"github.com/farm2school/order/internal/service/models/payment"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// PaymentDal represents the payment data access layer model.
type PaymentDal struct {
	Id            int64           `db:"payment_id"`
	OrderId       int64           `db:"order_id"`
	Amount        decimal.Decimal `db:"amount"`
	PaymentMethod string          `db:"payment_method"`
	TransactionId *string         `db:"transaction_id"`
	PaymentDate   time.Time       `db:"payment_date"`
	Status        string          `db:"status"`
}

// ToModel converts PaymentDal to the service layer Payment model.
func (p *PaymentDal) ToModel() (*payment.Payment, error) {
	status, err := payment.ParseStatus(p.Status)
	if err != nil {
		return nil, err
	}

	transactionID := ""
	if p.TransactionId != nil {
		transactionID = *p.TransactionId
	}

	return &payment.Payment{
		ID:            p.Id,
		OrderID:       p.OrderId,
		Amount:        p.Amount,
		PaymentMethod: p.PaymentMethod,
		TransactionID: transactionID,
		PaymentDate:   p.PaymentDate,
		Status:        status,
	}, nil
}

// PostgresPaymentRepository represents a Postgres payment repository.
type PostgresPaymentRepository struct {
	conn postgres.GenericConn
	sb   sq.StatementBuilderType
}

// NewPostgresPaymentRepository creates a new Postgres payment repository.
func NewPostgresPaymentRepository(conn postgres.GenericConn) *PostgresPaymentRepository {
	return &PostgresPaymentRepository{
		conn: conn,
		sb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// Insert appends a payment attempt and returns it with its generated id.
func (r *PostgresPaymentRepository) Insert(
	ctx context.Context,
	p payment.Payment,
) (payment.Payment, error) {
	query, args, err := r.sb.
		Insert("payments").
		Columns("order_id", "amount", "payment_method", "transaction_id", "payment_date", "status").
		Values(p.OrderID, p.Amount, p.PaymentMethod, p.TransactionID, p.PaymentDate, p.Status).
		Suffix("RETURNING payment_id").
		ToSql()
	if err != nil {
		return payment.Payment{}, fmt.Errorf("failed to build insert query: %w", err)
	}

	if err := r.conn.QueryRow(ctx, query, args...).Scan(&p.ID); err != nil {
		return payment.Payment{}, fmt.Errorf("failed to insert payment: %w", err)
	}

	return p, nil
}

// GetLatestByOrder retrieves the most recent payment for an order by
// payment date.
func (r *PostgresPaymentRepository) GetLatestByOrder(
	ctx context.Context,
	orderID int64,
) (*payment.Payment, error) {
	query, args, err := r.sb.
		Select("payment_id", "order_id", "amount", "payment_method", "transaction_id", "payment_date", "status").
		From("payments").
		Where(sq.Eq{"order_id": orderID}).
		OrderBy("payment_date DESC").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	var dal PaymentDal
	err = r.conn.QueryRow(ctx, query, args...).Scan(
		&dal.Id,
		&dal.OrderId,
		&dal.Amount,
		&dal.PaymentMethod,
		&dal.TransactionId,
		&dal.PaymentDate,
		&dal.Status,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.Newf(apperr.KindNotFound, "no payment found for order %d", orderID)
		}

		return nil, fmt.Errorf("failed to get latest payment for order %d: %w", orderID, err)
	}

	return dal.ToModel()
}
