package respond

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/farm2school/order/internal/service/models/apperr"
	"github.com/stretchr/testify/assert"
)

func TestStatusOf(t *testing.T) {
	cases := []struct {
		kind apperr.Kind
		code int
	}{
		{apperr.KindValidation, http.StatusBadRequest},
		{apperr.KindInvalidTransition, http.StatusBadRequest},
		{apperr.KindAlreadyCancelled, http.StatusBadRequest},
		{apperr.KindNotFound, http.StatusNotFound},
		{apperr.KindUnauthorized, http.StatusUnauthorized},
		{apperr.KindConflict, http.StatusConflict},
		{apperr.KindInsufficientInventory, http.StatusConflict},
		{apperr.KindTransactionFailed, http.StatusInternalServerError},
		{apperr.KindInternal, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(string(tc.kind), func(t *testing.T) {
			assert.Equal(t, tc.code, StatusOf(apperr.New(tc.kind, "boom")))
		})
	}
}

func TestStatusOfUnclassifiedError(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, StatusOf(errors.New("boom")))
}

func TestErrorUsesCallerSafeMessage(t *testing.T) {
	rec := httptest.NewRecorder()
	Error(rec, apperr.Wrap(apperr.KindNotFound, "order 7 not found", errors.New("pg: relation missing")))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "order 7 not found\n", rec.Body.String())
}
