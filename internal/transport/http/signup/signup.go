package signup

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/farm2school/order/internal/service/models/farmer"
	"github.com/farm2school/order/internal/service/models/school"
	"github.com/farm2school/order/internal/service/services/identitysvc"
	"github.com/farm2school/order/internal/transport/http/respond"
	"github.com/go-playground/validator/v10"
)

type service interface {
	SignupSchool(ctx context.Context, model identitysvc.SchoolSignupModel) (*school.School, error)
	SignupFarmer(ctx context.Context, model identitysvc.FarmerSignupModel) (*farmer.Farmer, error)
}

type schoolSignupRequest struct {
	SchoolName  string `json:"schoolName"  validate:"required"`
	ContactName string `json:"contactName" validate:"required"`
	Email       string `json:"email"       validate:"required,email"`
	Password    string `json:"password"    validate:"required,min=8"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
	City        string `json:"city"`
	State       string `json:"state"`
	ZipCode     string `json:"zipCode"`
}

// School registers a school account.
func School(w http.ResponseWriter, r *http.Request, service service) {
	req := schoolSignupRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		slog.Error("Error decoding school signup request", "error", err)

		return
	}

	if err := validator.New().Struct(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)

		return
	}

	acc, err := service.SignupSchool(r.Context(), identitysvc.SchoolSignupModel{
		SchoolName:  req.SchoolName,
		ContactName: req.ContactName,
		Email:       req.Email,
		Password:    req.Password,
		Phone:       req.Phone,
		Address:     req.Address,
		City:        req.City,
		State:       req.State,
		ZipCode:     req.ZipCode,
	})
	if err != nil {
		respond.Error(w, err)
		slog.Error("Error signing up school", "error", err)

		return
	}

	respond.JSON(w, http.StatusCreated, acc)
}

type farmerSignupRequest struct {
	FarmName  string `json:"farmName"  validate:"required"`
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName"  validate:"required"`
	Email     string `json:"email"     validate:"required,email"`
	Password  string `json:"password"  validate:"required,min=8"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	City      string `json:"city"`
	State     string `json:"state"`
	ZipCode   string `json:"zipCode"`
}

// Farmer registers a farmer account.
func Farmer(w http.ResponseWriter, r *http.Request, service service) {
	req := farmerSignupRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		slog.Error("Error decoding farmer signup request", "error", err)

		return
	}

	if err := validator.New().Struct(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)

		return
	}

	acc, err := service.SignupFarmer(r.Context(), identitysvc.FarmerSignupModel{
		FarmName:  req.FarmName,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
		Phone:     req.Phone,
		Address:   req.Address,
		City:      req.City,
		State:     req.State,
		ZipCode:   req.ZipCode,
	})
	if err != nil {
		respond.Error(w, err)
		slog.Error("Error signing up farmer", "error", err)

		return
	}

	respond.JSON(w, http.StatusCreated, acc)
}
