package ifarmerrepo

import (
	"context"

	"github.com/farm2school/order/internal/service/models/farmer"
)

// IFarmerRepository is an interface for the farmer account postgres repository.
type IFarmerRepository interface {
	Authenticate(ctx context.Context, email, passwordHash string) (*farmer.Farmer, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	Insert(ctx context.Context, f farmer.Farmer) (int64, error)
	GetByID(ctx context.Context, farmerID int64) (*farmer.Farmer, error)
	UpdateProfile(ctx context.Context, farmerID int64, model *farmer.UpdateModel) error
}
