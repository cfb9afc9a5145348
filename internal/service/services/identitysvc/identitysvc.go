package identitysvc

import (
	"context"
	"crypto/sha256"
	"encoding/base64"

	"github.com/farm2school/order/internal/dal/interfaces/ifarmerrepo"
	"github.com/farm2school/order/internal/dal/interfaces/ischoolrepo"
	"github.com/farm2school/order/internal/service/models/apperr"
	"github.com/farm2school/order/internal/service/models/farmer"
	"github.com/farm2school/order/internal/service/models/school"
)

// IdentityService handles school and farmer accounts: signup, login and
// profile management.
type IdentityService struct {
	schoolRepo ischoolrepo.ISchoolRepository
	farmerRepo ifarmerrepo.IFarmerRepository
}

// option is a function that configures the IdentityService.
type option func(*IdentityService)

// MustNewIdentityService creates a new IdentityService.
func MustNewIdentityService(opts ...option) *IdentityService {
	s := &IdentityService{}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// WithSchoolRepository sets the school account repository.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithSchoolRepository(repo ischoolrepo.ISchoolRepository) option {
	return func(s *IdentityService) {
		s.schoolRepo = repo
	}
}

// WithFarmerRepository sets the farmer account repository.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithFarmerRepository(repo ifarmerrepo.IFarmerRepository) option {
	return func(s *IdentityService) {
		s.farmerRepo = repo
	}
}

// HashPassword derives the stored credential from a plaintext password.
func HashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))

	return base64.StdEncoding.EncodeToString(sum[:])
}

// LoginSchool authenticates a school account by email and password.
func (s *IdentityService) LoginSchool(ctx context.Context, email, password string) (*school.School, error) {
	if email == "" || password == "" {
		return nil, apperr.New(apperr.KindValidation, "email and password are required")
	}

	return s.schoolRepo.Authenticate(ctx, email, HashPassword(password))
}

// LoginFarmer authenticates a farmer account by email and password.
func (s *IdentityService) LoginFarmer(ctx context.Context, email, password string) (*farmer.Farmer, error) {
	if email == "" || password == "" {
		return nil, apperr.New(apperr.KindValidation, "email and password are required")
	}

	return s.farmerRepo.Authenticate(ctx, email, HashPassword(password))
}

// SchoolSignupModel is the input for registering a school.
type SchoolSignupModel struct {
	SchoolName  string
	ContactName string
	Email       string
	Password    string
	Phone       string
	Address     string
	City        string
	State       string
	ZipCode     string
}

// SignupSchool registers a school account. A reused email is a conflict.
func (s *IdentityService) SignupSchool(ctx context.Context, model SchoolSignupModel) (*school.School, error) {
	if model.SchoolName == "" || model.ContactName == "" || model.Email == "" || model.Password == "" {
		return nil, apperr.New(apperr.KindValidation, "school name, contact name, email and password are required")
	}

	exists, err := s.schoolRepo.EmailExists(ctx, model.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperr.Newf(apperr.KindConflict, "email %s is already registered", model.Email)
	}

	acc := school.School{
		SchoolName:   model.SchoolName,
		ContactName:  model.ContactName,
		Email:        model.Email,
		PasswordHash: HashPassword(model.Password),
		Phone:        model.Phone,
		Address:      model.Address,
		City:         model.City,
		State:        model.State,
		ZipCode:      model.ZipCode,
	}

	id, err := s.schoolRepo.Insert(ctx, acc)
	if err != nil {
		return nil, err
	}

	return s.schoolRepo.GetByID(ctx, id)
}

// FarmerSignupModel is the input for registering a farmer.
type FarmerSignupModel struct {
	FarmName  string
	FirstName string
	LastName  string
	Email     string
	Password  string
	Phone     string
	Address   string
	City      string
	State     string
	ZipCode   string
}

// SignupFarmer registers a farmer account. A reused email is a conflict.
func (s *IdentityService) SignupFarmer(ctx context.Context, model FarmerSignupModel) (*farmer.Farmer, error) {
	if model.FarmName == "" || model.FirstName == "" || model.LastName == "" ||
		model.Email == "" || model.Password == "" {
		return nil, apperr.New(apperr.KindValidation, "farm name, first name, last name, email and password are required")
	}

	exists, err := s.farmerRepo.EmailExists(ctx, model.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperr.Newf(apperr.KindConflict, "email %s is already registered", model.Email)
	}

	acc := farmer.Farmer{
		FarmName:     model.FarmName,
		FirstName:    model.FirstName,
		LastName:     model.LastName,
		Email:        model.Email,
		PasswordHash: HashPassword(model.Password),
		Phone:        model.Phone,
		Address:      model.Address,
		City:         model.City,
		State:        model.State,
		ZipCode:      model.ZipCode,
	}

	id, err := s.farmerRepo.Insert(ctx, acc)
	if err != nil {
		return nil, err
	}

	return s.farmerRepo.GetByID(ctx, id)
}

// GetSchool returns a school profile.
func (s *IdentityService) GetSchool(ctx context.Context, schoolID int64) (*school.School, error) {
	return s.schoolRepo.GetByID(ctx, schoolID)
}

// GetFarmer returns a farmer profile.
func (s *IdentityService) GetFarmer(ctx context.Context, farmerID int64) (*farmer.Farmer, error) {
	return s.farmerRepo.GetByID(ctx, farmerID)
}

// UpdateSchoolProfile applies a partial profile update and returns the
// updated profile.
func (s *IdentityService) UpdateSchoolProfile(
	ctx context.Context,
	schoolID int64,
	model *school.UpdateModel,
) (*school.School, error) {
	if err := s.schoolRepo.UpdateProfile(ctx, schoolID, model); err != nil {
		return nil, err
	}

	return s.schoolRepo.GetByID(ctx, schoolID)
}

// UpdateFarmerProfile applies a partial profile update and returns the
// updated profile.
func (s *IdentityService) UpdateFarmerProfile(
	ctx context.Context,
	farmerID int64,
	model *farmer.UpdateModel,
) (*farmer.Farmer, error) {
	if err := s.farmerRepo.UpdateProfile(ctx, farmerID, model); err != nil {
		return nil, err
	}

	return s.farmerRepo.GetByID(ctx, farmerID)
}
