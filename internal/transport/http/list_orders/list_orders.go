package listorders

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/farm2school/order/internal/service/models/order"
	"github.com/farm2school/order/internal/transport/http/respond"
	"github.com/go-chi/chi/v5"
)

type service interface {
	ListBySchool(ctx context.Context, schoolID int64) ([]order.Order, error)
	ListByFarmer(ctx context.Context, farmerID int64) ([]order.Order, error)
}

// BySchool handles listing a school's orders.
func BySchool(w http.ResponseWriter, r *http.Request, service service) {
	schoolID, err := strconv.ParseInt(chi.URLParam(r, "schoolID"), 10, 64)
	if err != nil {
		http.Error(w, "invalid school id", http.StatusBadRequest)

		return
	}

	orders, err := service.ListBySchool(r.Context(), schoolID)
	if err != nil {
		respond.Error(w, err)
		slog.Error("Error listing school orders", "school_id", schoolID, "error", err)

		return
	}

	respond.JSON(w, http.StatusOK, orders)
}

// ByFarmer handles listing a farmer's orders.
func ByFarmer(w http.ResponseWriter, r *http.Request, service service) {
	farmerID, err := strconv.ParseInt(chi.URLParam(r, "farmerID"), 10, 64)
	if err != nil {
		http.Error(w, "invalid farmer id", http.StatusBadRequest)

		return
	}

	orders, err := service.ListByFarmer(r.Context(), farmerID)
	if err != nil {
		respond.Error(w, err)
		slog.Error("Error listing farmer orders", "farmer_id", farmerID, "error", err)

		return
	}

	respond.JSON(w, http.StatusOK, orders)
}
