package postgresrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/farm2school/order/internal/dal/postgres"
	"github.com/farm2school/order/internal/service/models/apperr"
	"github.com/farm2school/order/internal/service/models/school"
	"github.com/jackc/pgx/v5"
)

// SchoolDal represents the school account data access layer model.
type SchoolDal struct {
	Id           int64   `db:"school_id"`
	SchoolName   string  `db:"school_name"`
	ContactName  string  `db:"contact_name"`
	Email        string  `db:"email"`
	PasswordHash string  `db:"password_hash"`
	Phone        *string `db:"phone"`
	Address      *string `db:"address"`
	City         *string `db:"city"`
	State        *string `db:"state"`
	ZipCode      *string `db:"zip_code"`
	IsVerified   bool      `db:"is_verified"`
	CreatedAt    time.Time `db:"created_at"`
}

// ToModel converts SchoolDal to the service layer School model.
func (d *SchoolDal) ToModel() *school.School {
	return &school.School{
		ID:           d.Id,
		SchoolName:   d.SchoolName,
		ContactName:  d.ContactName,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		Phone:        deref(d.Phone),
		Address:      deref(d.Address),
		City:         deref(d.City),
		State:        deref(d.State),
		ZipCode:      deref(d.ZipCode),
		IsVerified:   d.IsVerified,
		CreatedAt:    d.CreatedAt,
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}

	return *s
}

// PostgresSchoolRepository represents a Postgres school account repository.
type PostgresSchoolRepository struct {
	conn postgres.GenericConn
	sb   sq.StatementBuilderType
}

// NewPostgresSchoolRepository creates a new Postgres school account repository.
func NewPostgresSchoolRepository(conn postgres.GenericConn) *PostgresSchoolRepository {
	return &PostgresSchoolRepository{
		conn: conn,
		sb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

var schoolColumns = []string{
	"school_id",
	"school_name",
	"contact_name",
	"email",
	"password_hash",
	"phone",
	"address",
	"city",
	"state",
	"zip_code",
	"is_verified",
	"created_at",
}

func scanSchool(row pgx.Row) (*SchoolDal, error) {
	var dal SchoolDal
	err := row.Scan(
		&dal.Id,
		&dal.SchoolName,
		&dal.ContactName,
		&dal.Email,
		&dal.PasswordHash,
		&dal.Phone,
		&dal.Address,
		&dal.City,
		&dal.State,
		&dal.ZipCode,
		&dal.IsVerified,
		&dal.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &dal, nil
}

// Authenticate looks up a school by email and password hash.
func (r *PostgresSchoolRepository) Authenticate(
	ctx context.Context,
	email, passwordHash string,
) (*school.School, error) {
	query, args, err := r.sb.
		Select(schoolColumns...).
		From("schools").
		Where(sq.Eq{"email": email, "password_hash": passwordHash}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	dal, err := scanSchool(r.conn.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.New(apperr.KindUnauthorized, "invalid email or password")
		}

		return nil, fmt.Errorf("failed to authenticate school: %w", err)
	}

	return dal.ToModel(), nil
}

// EmailExists reports whether a school account with the email already exists.
func (r *PostgresSchoolRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	query, args, err := r.sb.
		Select("1").
		From("schools").
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

		return false, fmt.Errorf("failed to check school email: %w", err)
	}

	return true, nil
}

// Insert creates a new school account and returns its id.
func (r *PostgresSchoolRepository) Insert(ctx context.Context, s school.School) (int64, error) {
	query, args, err := r.sb.
		Insert("schools").
		Columns(
			"school_name",
			"contact_name",
			"email",
			"password_hash",
			"phone",
			"address",
			"city",
			"state",
			"zip_code",
		).
		Values(
			s.SchoolName,
			s.ContactName,
			s.Email,
			s.PasswordHash,
			s.Phone,
			s.Address,
			s.City,
			s.State,
			s.ZipCode,
		).
		Suffix("RETURNING school_id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build insert query: %w", err)
	}

	var id int64
	if err := r.conn.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to insert school: %w", err)
	}

	return id, nil
}

// GetByID retrieves a school account by id.
func (r *PostgresSchoolRepository) GetByID(ctx context.Context, schoolID int64) (*school.School, error) {
	query, args, err := r.sb.
		Select(schoolColumns...).
		From("schools").
		Where(sq.Eq{"school_id": schoolID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	dal, err := scanSchool(r.conn.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.Newf(apperr.KindNotFound, "school %d not found", schoolID)
		}

		return nil, fmt.Errorf("failed to get school %d: %w", schoolID, err)
	}

	return dal.ToModel(), nil
}

// UpdateProfile applies a partial profile update. Name fields keep their
// current value when nil, contact fields are written as supplied.
func (r *PostgresSchoolRepository) UpdateProfile(
	ctx context.Context,
	schoolID int64,
	model *school.UpdateModel,
) error {
	builder := r.sb.
		Update("schools").
		Set("school_name", sq.Expr("COALESCE(?, school_name)", model.SchoolName)).
		Set("contact_name", sq.Expr("COALESCE(?, contact_name)", model.ContactName)).
		Set("phone", model.Phone).
		Set("address", model.Address).
		Set("city", model.City).
		Set("state", model.State).
		Set("zip_code", model.ZipCode).
		Where(sq.Eq{"school_id": schoolID})

	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update query: %w", err)
	}

	tag, err := r.conn.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update school %d profile: %w", schoolID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.Newf(apperr.KindNotFound, "school %d not found", schoolID)
	}

	return nil
}
