package ischoolrepo

import (
	"context"

	"github.com/farm2school/order/internal/service/models/school"
)

// ISchoolRepository is an interface for the school account postgres repository.
type ISchoolRepository interface {
	Authenticate(ctx context.Context, email, passwordHash string) (*school.School, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	Insert(ctx context.Context, s school.School) (int64, error)
	GetByID(ctx context.Context, schoolID int64) (*school.School, error)
	UpdateProfile(ctx context.Context, schoolID int64, model *school.UpdateModel) error
}
