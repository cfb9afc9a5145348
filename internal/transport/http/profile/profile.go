package profile

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/farm2school/order/internal/service/models/farmer"
	"github.com/farm2school/order/internal/service/models/school"
	"github.com/farm2school/order/internal/transport/http/respond"
	"github.com/go-chi/chi/v5"
)

type service interface {
	GetSchool(ctx context.Context, schoolID int64) (*school.School, error)
	GetFarmer(ctx context.Context, farmerID int64) (*farmer.Farmer, error)
	UpdateSchoolProfile(ctx context.Context, schoolID int64, model *school.UpdateModel) (*school.School, error)
	UpdateFarmerProfile(ctx context.Context, farmerID int64, model *farmer.UpdateModel) (*farmer.Farmer, error)
}

func idParam(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)

		return 0, false
	}

	return id, true
}

// GetSchool returns a school profile.
func GetSchool(w http.ResponseWriter, r *http.Request, service service) {
	schoolID, ok := idParam(w, r, "schoolID")
	if !ok {
		return
	}

	acc, err := service.GetSchool(r.Context(), schoolID)
	if err != nil {
		respond.Error(w, err)
		slog.Error("Error getting school profile", "school_id", schoolID, "error", err)

		return
	}

	respond.JSON(w, http.StatusOK, acc)
}

// UpdateSchool applies a partial school profile update.
func UpdateSchool(w http.ResponseWriter, r *http.Request, service service) {
	schoolID, ok := idParam(w, r, "schoolID")
	if !ok {
		return
	}

	model := school.UpdateModel{}
	if err := json.NewDecoder(r.Body).Decode(&model); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		slog.Error("Error decoding school profile update", "error", err)

		return
	}

	acc, err := service.UpdateSchoolProfile(r.Context(), schoolID, &model)
	if err != nil {
		respond.Error(w, err)
		slog.Error("Error updating school profile", "school_id", schoolID, "error", err)

		return
	}

	respond.JSON(w, http.StatusOK, acc)
}

// GetFarmer returns a farmer profile.
func GetFarmer(w http.ResponseWriter, r *http.Request, service service) {
	farmerID, ok := idParam(w, r, "farmerID")
	if !ok {
		return
	}

	acc, err := service.GetFarmer(r.Context(), farmerID)
	if err != nil {
		respond.Error(w, err)
		slog.Error("Error getting farmer profile", "farmer_id", farmerID, "error", err)

		return
	}

	respond.JSON(w, http.StatusOK, acc)
}

// UpdateFarmer applies a partial farmer profile update.
func UpdateFarmer(w http.ResponseWriter, r *http.Request, service service) {
	farmerID, ok := idParam(w, r, "farmerID")
	if !ok {
		return
	}

	model := farmer.UpdateModel{}
	if err := json.NewDecoder(r.Body).Decode(&model); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		slog.Error("Error decoding farmer profile update", "error", err)

		return
	}

	acc, err := service.UpdateFarmerProfile(r.Context(), farmerID, &model)
	if err != nil {
		respond.Error(w, err)
		slog.Error("Error updating farmer profile", "farmer_id", farmerID, "error", err)

		return
	}

	respond.JSON(w, http.StatusOK, acc)
}
