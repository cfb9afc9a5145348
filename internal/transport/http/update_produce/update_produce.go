package updateproduce

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/farm2school/order/internal/service/models/produce"
	"github.com/farm2school/order/internal/transport/http/respond"
	"github.com/go-chi/chi/v5"
)

type service interface {
	UpdateProduce(ctx context.Context, produceID int64, model *produce.UpdateModel) (*produce.Produce, error)
}

// UpdateProduce partially updates a produce listing.
func UpdateProduce(w http.ResponseWriter, r *http.Request, service service) {
	produceID, err := strconv.ParseInt(chi.URLParam(r, "produceID"), 10, 64)
	if err != nil {
		http.Error(w, "invalid produce id", http.StatusBadRequest)

		return
	}

	model := produce.UpdateModel{}
	if err := json.NewDecoder(r.Body).Decode(&model); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		slog.Error("Error decoding request body for update produce", "error", err)

		return
	}

	p, err := service.UpdateProduce(r.Context(), produceID, &model)
	if err != nil {
		respond.Error(w, err)
		slog.Error("Error updating produce", "produce_id", produceID, "error", err)

		return
	}

	respond.JSON(w, http.StatusOK, p)
}
