package server

import (
	"errors"
	"net/http"

	accountapp "github.com/rmaia/farmadelivery/internal/account/app"
	cartapp "github.com/rmaia/farmadelivery/internal/cart/app"
	cartdomain "github.com/rmaia/farmadelivery/internal/cart/domain"
	catalogapp "github.com/rmaia/farmadelivery/internal/catalog/app"
	catalogdomain "github.com/rmaia/farmadelivery/internal/catalog/domain"
	checkoutapp "github.com/rmaia/farmadelivery/internal/checkout/app"
	checkoutdomain "github.com/rmaia/farmadelivery/internal/checkout/domain"
	orderapp "github.com/rmaia/farmadelivery/internal/order/app"
	orderdomain "github.com/rmaia/farmadelivery/internal/order/domain"
)

// httpStatusFromErr maps domain errors onto the HTTP boundary. Business
// rule violations surface unchanged as client errors, never retried or
// swallowed here.
func httpStatusFromErr(err error) (int, string) {
	var (
		priceErr *catalogdomain.InvalidPriceError
		stockErr *catalogdomain.InsufficientStockError
		crossErr *cartdomain.CrossEstablishmentError
		asmErr   *checkoutdomain.AssemblyError
		transErr *orderdomain.InvalidTransitionError
	)

	switch {
	case errors.As(err, &priceErr):
		return http.StatusUnprocessableEntity, "INVALID_PRICE"
	case errors.As(err, &stockErr):
		return http.StatusConflict, "INSUFFICIENT_STOCK"
	case errors.As(err, &crossErr):
		return http.StatusConflict, "CROSS_ESTABLISHMENT"
	case errors.As(err, &asmErr):
		return http.StatusConflict, "ORDER_ASSEMBLY"
	case errors.As(err, &transErr):
		return http.StatusConflict, "INVALID_TRANSITION"
	case errors.Is(err, catalogapp.ErrNotFound),
		errors.Is(err, cartapp.ErrNotFound),
		errors.Is(err, orderapp.ErrNotFound),
		errors.Is(err, accountapp.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, catalogapp.ErrInvalidInput),
		errors.Is(err, cartapp.ErrInvalidInput),
		errors.Is(err, accountapp.ErrInvalidInput),
		errors.Is(err, checkoutapp.ErrEmptyCart):
		return http.StatusBadRequest, "INVALID_ARGUMENT"
	default:
		return http.StatusInternalServerError, "INTERNAL"
	}
}
