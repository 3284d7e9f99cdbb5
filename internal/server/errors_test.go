package server

import (
	"fmt"
	"net/http"
	"testing"

	cartapp "github.com/rmaia/farmadelivery/internal/cart/app"
	cartdomain "github.com/rmaia/farmadelivery/internal/cart/domain"
	catalogapp "github.com/rmaia/farmadelivery/internal/catalog/app"
	catalogdomain "github.com/rmaia/farmadelivery/internal/catalog/domain"
	checkoutapp "github.com/rmaia/farmadelivery/internal/checkout/app"
	checkoutdomain "github.com/rmaia/farmadelivery/internal/checkout/domain"
	orderapp "github.com/rmaia/farmadelivery/internal/order/app"
	orderdomain "github.com/rmaia/farmadelivery/internal/order/domain"
)

func TestHTTPStatusFromErr(t *testing.T) {
	ref := int64(1990)

	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{
			name:       "invalid price",
			err:        &catalogdomain.InvalidPriceError{ProposedAmount: 2500, ReferenceAmount: &ref, Reason: "above ceiling"},
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   "INVALID_PRICE",
		},
		{
			name:       "insufficient stock",
			err:        &catalogdomain.InsufficientStockError{EntryID: 7, Requested: 3, Available: 1},
			wantStatus: http.StatusConflict,
			wantCode:   "INSUFFICIENT_STOCK",
		},
		{
			name:       "cross establishment",
			err:        &cartdomain.CrossEstablishmentError{CartEstablishmentID: 10, EntryEstablishmentID: 20},
			wantStatus: http.StatusConflict,
			wantCode:   "CROSS_ESTABLISHMENT",
		},
		{
			name: "assembly failure",
			err: &checkoutdomain.AssemblyError{Lines: []checkoutdomain.UnavailableLine{
				{EntryID: 7, Requested: 3, Available: 1},
			}},
			wantStatus: http.StatusConflict,
			wantCode:   "ORDER_ASSEMBLY",
		},
		{
			name:       "invalid transition",
			err:        &orderdomain.InvalidTransitionError{OrderID: 1, From: orderdomain.StatusEntregue, To: orderdomain.StatusEmRota},
			wantStatus: http.StatusConflict,
			wantCode:   "INVALID_TRANSITION",
		},
		{
			name:       "catalog not found",
			err:        fmt.Errorf("loading entry 7: %w", catalogapp.ErrNotFound),
			wantStatus: http.StatusNotFound,
			wantCode:   "NOT_FOUND",
		},
		{
			name:       "cart not found",
			err:        cartapp.ErrNotFound,
			wantStatus: http.StatusNotFound,
			wantCode:   "NOT_FOUND",
		},
		{
			name:       "order not found",
			err:        orderapp.ErrNotFound,
			wantStatus: http.StatusNotFound,
			wantCode:   "NOT_FOUND",
		},
		{
			name:       "invalid input",
			err:        fmt.Errorf("name is required: %w", catalogapp.ErrInvalidInput),
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_ARGUMENT",
		},
		{
			name:       "empty cart",
			err:        checkoutapp.ErrEmptyCart,
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_ARGUMENT",
		},
		{
			name:       "unknown error",
			err:        fmt.Errorf("connection reset"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   "INTERNAL",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, code := httpStatusFromErr(tc.err)
			if status != tc.wantStatus {
				t.Errorf("status = %d, want %d", status, tc.wantStatus)
			}
			if code != tc.wantCode {
				t.Errorf("code = %q, want %q", code, tc.wantCode)
			}
		})
	}
}
