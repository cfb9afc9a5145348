package postgresrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/farm2school/order/internal/dal/postgres"
	"github.com/farm2school/order/internal/service/models/apperr"
	"github.com/farm2school/order/internal/service/models/farmer"
	"github.com/jackc/pgx/v5"
)

// FarmerDal represents the farmer account data access layer model.
type FarmerDal struct {
	Id           int64     `db:"farmer_id"`
	FarmName     string    `db:"farm_name"`
	FirstName    string    `db:"first_name"`
	LastName     string    `db:"last_name"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	Phone        *string   `db:"phone"`
	Address      *string   `db:"address"`
	City         *string   `db:"city"`
	State        *string   `db:"state"`
	ZipCode      *string   `db:"zip_code"`
	CreatedAt    time.Time `db:"created_at"`
}

// ToModel converts FarmerDal to the service layer Farmer model.
func (d *FarmerDal) ToModel() *farmer.Farmer {
	return &farmer.Farmer{
		ID:           d.Id,
		FarmName:     d.FarmName,
		FirstName:    d.FirstName,
		LastName:     d.LastName,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		Phone:        deref(d.Phone),
		Address:      deref(d.Address),
		City:         deref(d.City),
		State:        deref(d.State),
		ZipCode:      deref(d.ZipCode),
		CreatedAt:    d.CreatedAt,
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}

	return *s
}

// PostgresFarmerRepository represents a Postgres farmer account repository.
type PostgresFarmerRepository struct {
	conn postgres.GenericConn
	sb   sq.StatementBuilderType
}

// NewPostgresFarmerRepository creates a new Postgres farmer account repository.
func NewPostgresFarmerRepository(conn postgres.GenericConn) *PostgresFarmerRepository {
	return &PostgresFarmerRepository{
		conn: conn,
		sb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

var farmerColumns = []string{
	"farmer_id",
	"farm_name",
	"first_name",
	"last_name",
	"email",
	"password_hash",
	"phone",
	"address",
	"city",
	"state",
	"zip_code",
	"created_at",
}

func scanFarmer(row pgx.Row) (*FarmerDal, error) {
	var dal FarmerDal
	err := row.Scan(
		&dal.Id,
		&dal.FarmName,
		&dal.FirstName,
		&dal.LastName,
		&dal.Email,
		&dal.PasswordHash,
		&dal.Phone,
		&dal.Address,
		&dal.City,
		&dal.State,
		&dal.ZipCode,
		&dal.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &dal, nil
}

// Authenticate looks up a farmer by email and password hash.
func (r *PostgresFarmerRepository) Authenticate(
	ctx context.Context,
	email, passwordHash string,
) (*farmer.Farmer, error) {
	query, args, err := r.sb.
		Select(farmerColumns...).
		From("farmers").
		Where(sq.Eq{"email": email, "password_hash": passwordHash}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	dal, err := scanFarmer(r.conn.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.New(apperr.KindUnauthorized, "invalid email or password")
		}

		return nil, fmt.Errorf("failed to authenticate farmer: %w", err)
	}

	return dal.ToModel(), nil
}

// EmailExists reports whether a farmer account with the email already exists.
func (r *PostgresFarmerRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	query, args, err := r.sb.
		Select("1").
		From("farmers").
		Where(sq.Eq{"email": email}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build query: %w", err)
	}

	var one int
	err = r.conn.QueryRow(ctx, query, args...).Scan(&one)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}

		return false, fmt.Errorf("failed to check farmer email: %w", err)
	}

	return true, nil
}

// Insert creates a new farmer account and returns its id.
func (r *PostgresFarmerRepository) Insert(ctx context.Context, f farmer.Farmer) (int64, error) {
	query, args, err := r.sb.
		Insert("farmers").
		Columns(
			"farm_name",
			"first_name",
			"last_name",
			"email",
			"password_hash",
			"phone",
			"address",
			"city",
			"state",
			"zip_code",
		).
		Values(
			f.FarmName,
			f.FirstName,
			f.LastName,
			f.Email,
			f.PasswordHash,
			f.Phone,
			f.Address,
			f.City,
			f.State,
			f.ZipCode,
		).
		Suffix("RETURNING farmer_id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build insert query: %w", err)
	}

	var id int64
	if err := r.conn.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to insert farmer: %w", err)
	}

	return id, nil
}

// GetByID retrieves a farmer account by id.
func (r *PostgresFarmerRepository) GetByID(ctx context.Context, farmerID int64) (*farmer.Farmer, error) {
	query, args, err := r.sb.
		Select(farmerColumns...).
		From("farmers").
		Where(sq.Eq{"farmer_id": farmerID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	dal, err := scanFarmer(r.conn.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.Newf(apperr.KindNotFound, "farmer %d not found", farmerID)
		}

		return nil, fmt.Errorf("failed to get farmer %d: %w", farmerID, err)
	}

	return dal.ToModel(), nil
}

// UpdateProfile applies a partial profile update. Name fields keep their
// current value when nil, contact fields are written as supplied.
func (r *PostgresFarmerRepository) UpdateProfile(
	ctx context.Context,
	farmerID int64,
	model *farmer.UpdateModel,
) error {
	builder := r.sb.
		Update("farmers").
		Set("farm_name", sq.Expr("COALESCE(?, farm_name)", model.FarmName)).
		Set("first_name", sq.Expr("COALESCE(?, first_name)", model.FirstName)).
		Set("last_name", sq.Expr("COALESCE(?, last_name)", model.LastName)).
		Set("phone", model.Phone).
		Set("address", model.Address).
		Set("city", model.City).
		Set("state", model.State).
		Set("zip_code", model.ZipCode).
		Where(sq.Eq{"farmer_id": farmerID})

	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update query: %w", err)
	}

	tag, err := r.conn.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update farmer %d profile: %w", farmerID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.Newf(apperr.KindNotFound, "farmer %d not found", farmerID)
	}

	return nil
}
