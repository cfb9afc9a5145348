package listproduce

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/farm2school/order/internal/service/models/produce"
	"github.com/farm2school/order/internal/transport/http/respond"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/schema"
)

type service interface {
	SearchAvailable(ctx context.Context, filter *produce.SearchModel) ([]produce.Produce, error)
	ListByFarmer(ctx context.Context, farmerID int64) ([]produce.Produce, error)
}

type searchProduceRequest struct {
	Name     string `schema:"name,omitempty"`
	FarmerID int64  `schema:"farmerId,omitempty"`
}

func (q *searchProduceRequest) toModel() *produce.SearchModel {
	return &produce.SearchModel{
		Name:     q.Name,
		FarmerID: q.FarmerID,
	}
}

// SearchAvailable lists in-stock produce whose availability window covers
// today, filtered by the query string.
func SearchAvailable(w http.ResponseWriter, r *http.Request, service service) {
	decoder := schema.NewDecoder()
	query := &searchProduceRequest{}
	if err := decoder.Decode(query, r.URL.Query()); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		slog.Error("Error decoding produce search query", "error", err)

		return
	}

	listings, err := service.SearchAvailable(r.Context(), query.toModel())
	if err != nil {
		respond.Error(w, err)
		slog.Error("Error searching produce", "error", err)

		return
	}

	respond.JSON(w, http.StatusOK, listings)
}

// ByFarmer lists a farmer's produce, newest first.
func ByFarmer(w http.ResponseWriter, r *http.Request, service service) {
	farmerID, err := strconv.ParseInt(chi.URLParam(r, "farmerID"), 10, 64)
	if err != nil {
		http.Error(w, "invalid farmer id", http.StatusBadRequest)

		return
	}

	listings, err := service.ListByFarmer(r.Context(), farmerID)
	if err != nil {
		respond.Error(w, err)
		slog.Error("Error listing farmer produce", "farmer_id", farmerID, "error", err)

		return
	}

	respond.JSON(w, http.StatusOK, listings)
}
