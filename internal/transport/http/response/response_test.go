package response

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pizzanova/order/internal/service/models/menuitem"
	"github.com/pizzanova/order/internal/service/models/order"
	"github.com/pizzanova/order/internal/service/pricing"
	"github.com/pizzanova/order/internal/service/services/ordersvc"
)

func TestErrorStatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{
			"price unavailable",
			&pricing.PriceUnavailableError{ItemID: 2, ItemName: "Cola", Size: menuitem.SizeLarge},
			http.StatusUnprocessableEntity,
		},
		{"not found", ordersvc.ErrNotFound, http.StatusNotFound},
		{"wrapped not found", fmt.Errorf("order 7: %w", ordersvc.ErrNotFound), http.StatusNotFound},
		{"not editable", order.ErrNotEditable, http.StatusBadRequest},
		{"invalid transition", order.ErrInvalidTransition, http.StatusBadRequest},
		{"last line", ordersvc.ErrCannotRemoveLastLine, http.StatusBadRequest},
		{"empty order", ordersvc.ErrEmptyOrder, http.StatusBadRequest},
		{"invalid size", menuitem.ErrInvalidSize, http.StatusBadRequest},
		{"unknown", errors.New("pool exhausted"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			Error(rec, tt.err)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestErrorHidesInternalDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	Error(rec, errors.New("dial tcp 10.0.0.5:5432: connection refused"))

	if body := rec.Body.String(); strings.Contains(body, "5432") {
		t.Errorf("response leaks connection details: %s", body)
	}
}
