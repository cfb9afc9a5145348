package login

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/farm2school/order/internal/service/models/farmer"
	"github.com/farm2school/order/internal/service/models/school"
	"github.com/farm2school/order/internal/transport/http/respond"
	"github.com/go-playground/validator/v10"
)

type service interface {
	LoginSchool(ctx context.Context, email, password string) (*school.School, error)
	LoginFarmer(ctx context.Context, email, password string) (*farmer.Farmer, error)
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Validate validates the login request.
func (r *loginRequest) Validate() error {
	return validator.New().Struct(r)
}

func decode(w http.ResponseWriter, r *http.Request) (*loginRequest, bool) {
	req := loginRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		slog.Error("Error decoding login request", "error", err)

		return nil, false
	}

	if err := req.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)

		return nil, false
	}

	return &req, true
}

// School authenticates a school account.
func School(w http.ResponseWriter, r *http.Request, service service) {
	req, ok := decode(w, r)
	if !ok {
		return
	}

	acc, err := service.LoginSchool(r.Context(), req.Email, req.Password)
	if err != nil {
		respond.Error(w, err)
		slog.Error("Error logging in school", "error", err)

		return
	}

	respond.JSON(w, http.StatusOK, acc)
}

// Farmer authenticates a farmer account.
func Farmer(w http.ResponseWriter, r *http.Request, service service) {
	req, ok := decode(w, r)
	if !ok {
		return
	}

	acc, err := service.LoginFarmer(r.Context(), req.Email, req.Password)
	if err != nil {
		respond.Error(w, err)
		slog.Error("Error logging in farmer", "error", err)

		return
	}

	respond.JSON(w, http.StatusOK, acc)
}
