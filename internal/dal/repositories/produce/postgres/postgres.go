package postgresrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/farm2school/order/internal/dal/postgres"
	"github.com/farm2school/order/internal/service/models/apperr"
	"github.com/farm2school/order/internal/service/models/produce"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// ProduceDal represents the produce data access layer model.
type ProduceDal struct {
	Id                int64           `db:"produce_id"`
	FarmerId          int64           `db:"farmer_id"`
	ProduceName       string          `db:"produce_name"`
	Description       *string         `db:"description"`
	PricePerUnit      decimal.Decimal `db:"price_per_unit"`
	AvailableQuantity int             `db:"available_quantity"`
	Unit              string          `db:"unit"`
	FarmerCanDeliver  bool            `db:"farmer_can_deliver"`
	AvailabilityStart time.Time       `db:"availability_start"`
	AvailabilityEnd   time.Time       `db:"availability_end"`
	CreatedAt         time.Time       `db:"created_at"`
}

// ToModel converts ProduceDal to the service layer Produce model.
func (p *ProduceDal) ToModel() *produce.Produce {
	description := ""
	if p.Description != nil {
		description = *p.Description
	}

	return &produce.Produce{
		ID:                p.Id,
		FarmerID:          p.FarmerId,
		Name:              p.ProduceName,
		Description:       description,
		PricePerUnit:      p.PricePerUnit,
		AvailableQuantity: p.AvailableQuantity,
		Unit:              p.Unit,
		FarmerCanDeliver:  p.FarmerCanDeliver,
		AvailabilityStart: p.AvailabilityStart,
		AvailabilityEnd:   p.AvailabilityEnd,
		CreatedAt:         p.CreatedAt,
	}
}

// PostgresProduceRepository represents a Postgres produce repository.
type PostgresProduceRepository struct {
	conn postgres.GenericConn
	sb   sq.StatementBuilderType
}

// NewPostgresProduceRepository creates a new Postgres produce repository
// bound to either the pool or a transaction.
func NewPostgresProduceRepository(conn postgres.GenericConn) *PostgresProduceRepository {
	return &PostgresProduceRepository{
		conn: conn,
		sb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

var produceColumns = []string{
	"produce_id",
	"farmer_id",
	"produce_name",
	"description",
	"price_per_unit",
	"available_quantity",
	"unit",
	"farmer_can_deliver",
	"availability_start",
	"availability_end",
	"created_at",
}

func scanProduce(row pgx.Row) (*produce.Produce, error) {
	var dal ProduceDal
	err := row.Scan(
		&dal.Id,
		&dal.FarmerId,
		&dal.ProduceName,
		&dal.Description,
		&dal.PricePerUnit,
		&dal.AvailableQuantity,
		&dal.Unit,
		&dal.FarmerCanDeliver,
		&dal.AvailabilityStart,
		&dal.AvailabilityEnd,
		&dal.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	return dal.ToModel(), nil
}

// Insert adds a new produce listing and returns it with its generated id.
func (r *PostgresProduceRepository) Insert(
	ctx context.Context,
	p produce.Produce,
) (produce.Produce, error) {
	query, args, err := r.sb.
		Insert("produce").
		Columns(
			"farmer_id",
			"produce_name",
			"description",
			"price_per_unit",
			"available_quantity",
			"unit",
			"farmer_can_deliver",
			"availability_start",
			"availability_end",
			"created_at",
		).
		Values(
			p.FarmerID,
			p.Name,
			p.Description,
			p.PricePerUnit,
			p.AvailableQuantity,
			p.Unit,
			p.FarmerCanDeliver,
			p.AvailabilityStart,
			p.AvailabilityEnd,
			p.CreatedAt,
		).
		Suffix("RETURNING produce_id, created_at").
		ToSql()
	if err != nil {
		return produce.Produce{}, fmt.Errorf("failed to build insert query: %w", err)
	}

	if err := r.conn.QueryRow(ctx, query, args...).Scan(&p.ID, &p.CreatedAt); err != nil {
		return produce.Produce{}, fmt.Errorf("failed to insert produce: %w", err)
	}

	return p, nil
}

// GetByID retrieves one produce listing by its id.
func (r *PostgresProduceRepository) GetByID(
	ctx context.Context,
	produceID int64,
) (*produce.Produce, error) {
	query, args, err := r.sb.
		Select(produceColumns...).
		From("produce").
		Where(sq.Eq{"produce_id": produceID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	model, err := scanProduce(r.conn.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.Newf(apperr.KindNotFound, "produce %d not found", produceID)
		}

		return nil, fmt.Errorf("failed to get produce %d: %w", produceID, err)
	}

	return model, nil
}

// ListByFarmer retrieves all listings of one farmer, newest first.
func (r *PostgresProduceRepository) ListByFarmer(
	ctx context.Context,
	farmerID int64,
) ([]produce.Produce, error) {
	query, args, err := r.sb.
		Select(produceColumns...).
		From("produce").
		Where(sq.Eq{"farmer_id": farmerID}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	return r.queryProduce(ctx, query, args)
}

// SearchAvailable retrieves listings with stock whose availability window
// covers the current date, newest first.
func (r *PostgresProduceRepository) SearchAvailable(
	ctx context.Context,
	filter *produce.SearchModel,
) ([]produce.Produce, error) {
	query := r.sb.
		Select(produceColumns...).
		From("produce").
		Where(sq.Gt{"available_quantity": 0}).
		Where(sq.Expr("availability_start <= CURRENT_DATE")).
		Where(sq.Expr("availability_end >= CURRENT_DATE")).
		OrderBy("created_at DESC")

	if filter.Name != "" {
		query = query.Where(sq.ILike{"produce_name": "%" + filter.Name + "%"})
	}

	if filter.FarmerID > 0 {
		query = query.Where(sq.Eq{"farmer_id": filter.FarmerID})
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	return r.queryProduce(ctx, sql, args)
}

func (r *PostgresProduceRepository) queryProduce(
	ctx context.Context,
	sql string,
	args []interface{},
) ([]produce.Produce, error) {
	rows, err := r.conn.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query produce: %w", err)
	}
	defer rows.Close()

	var result []produce.Produce
	for rows.Next() {
		model, err := scanProduce(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan produce: %w", err)
		}
		result = append(result, *model)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return result, nil
}

// Update applies a partial update; absent fields keep their current value.
func (r *PostgresProduceRepository) Update(
	ctx context.Context,
	produceID int64,
	model *produce.UpdateModel,
) error {
	query := r.sb.Update("produce").Where(sq.Eq{"produce_id": produceID})

	set := false
	if model.Name != nil {
		query = query.Set("produce_name", *model.Name)
		set = true
	}
	if model.Description != nil {
		query = query.Set("description", *model.Description)
		set = true
	}
	if model.PricePerUnit != nil {
		query = query.Set("price_per_unit", *model.PricePerUnit)
		set = true
	}
	if model.AvailableQuantity != nil {
		query = query.Set("available_quantity", *model.AvailableQuantity)
		set = true
	}
	if model.Unit != nil {
		query = query.Set("unit", *model.Unit)
		set = true
	}
	if model.FarmerCanDeliver != nil {
		query = query.Set("farmer_can_deliver", *model.FarmerCanDeliver)
		set = true
	}
	if model.AvailabilityStart != nil {
		query = query.Set("availability_start", *model.AvailabilityStart)
		set = true
	}
	if model.AvailabilityEnd != nil {
		query = query.Set("availability_end", *model.AvailabilityEnd)
		set = true
	}

	if !set {
		return nil
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update query: %w", err)
	}

	tag, err := r.conn.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("failed to update produce %d: %w", produceID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.Newf(apperr.KindNotFound, "produce %d not found", produceID)
	}

	return nil
}

// DecrementQuantity performs the guarded inventory decrement. The WHERE
// clause keeps available_quantity from ever going negative; zero affected
// rows means not enough stock (or no such listing) and the surrounding
// transaction must roll back.
func (r *PostgresProduceRepository) DecrementQuantity(
	ctx context.Context,
	produceID int64,
	qty int,
) error {
	query, args, err := r.sb.
		Update("produce").
		Set("available_quantity", sq.Expr("available_quantity - ?", qty)).
		Where(sq.Eq{"produce_id": produceID}).
		Where(sq.GtOrEq{"available_quantity": qty}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build decrement query: %w", err)
	}

	tag, err := r.conn.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to decrement produce %d quantity: %w", produceID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.Newf(
			apperr.KindInsufficientInventory,
			"produce %d has fewer than %d units available",
			produceID, qty,
		)
	}

	return nil
}
