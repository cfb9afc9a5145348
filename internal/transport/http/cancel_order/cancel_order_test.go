package cancelorder

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/farm2school/order/internal/service/models/apperr"
	"github.com/farm2school/order/internal/service/models/order"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
)

type stubService struct {
	err   error
	gotID int64
}

func (s *stubService) Cancel(_ context.Context, orderID int64) (*order.Order, error) {
	s.gotID = orderID
	if s.err != nil {
		return nil, s.err
	}
	return &order.Order{ID: orderID, Status: order.StatusCancelled}, nil
}

func do(svc *stubService, path string) *httptest.ResponseRecorder {
	router := chi.NewRouter()
	router.Post("/api/orders/{orderID}/cancel", func(w http.ResponseWriter, r *http.Request) {
		CancelOrder(w, r, svc)
	})

	req := httptest.NewRequest(http.MethodPost, path, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	return rec
}

func TestCancelOrder(t *testing.T) {
	svc := &stubService{}

	rec := do(svc, "/api/orders/7/cancel")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(7), svc.gotID)
	assert.Contains(t, rec.Body.String(), `"Cancelled"`)
}

func TestCancelOrderInvalidID(t *testing.T) {
	rec := do(&stubService{}, "/api/orders/seven/cancel")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCancelOrderErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
	}{
		{"already cancelled", apperr.New(apperr.KindAlreadyCancelled, "order 7 is already cancelled"), http.StatusBadRequest},
		{"delivered", apperr.New(apperr.KindInvalidTransition, "order 7 has already been delivered"), http.StatusBadRequest},
		{"not found", apperr.New(apperr.KindNotFound, "order 7 not found"), http.StatusNotFound},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := do(&stubService{err: tc.err}, "/api/orders/7/cancel")
			assert.Equal(t, tc.code, rec.Code)
		})
	}
}
