package webserver

import (
	"net/http"

	"github.com/fatboylabs/gamestore/internal/shop"
	"github.com/fatboylabs/gamestore/internal/store"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type apiResponse struct {
	Code    string      `json:"code"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Detail  interface{} `json:"detail,omitempty"`
}

type pagedResponse struct {
	Code     string      `json:"code"`
	Data     interface{} `json:"data"`
	Total    int64       `json:"total"`
	Page     int         `json:"page"`
	PageSize int         `json:"page_size"`
}

// OK answers a successful request.
func OK(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, apiResponse{Code: "OK", Data: data})
}

// Fail answers with a stable error code; detail carries machine readable
// extras such as redirect hints.
func Fail(c echo.Context, status int, code, message string, detail interface{}) error {
	return c.JSON(status, apiResponse{Code: code, Message: message, Detail: detail})
}

// Paged answers a list request with pagination metadata.
func Paged(c echo.Context, rows interface{}, total int64, page, pageSize int) error {
	return c.JSON(http.StatusOK, pagedResponse{
		Code: "OK", Data: rows, Total: total, Page: page, PageSize: pageSize,
	})
}

// FailErr maps workflow sentinel errors to their API error codes. Anything
// unrecognized is reported as a persistence failure, the only remaining
// error class the workflows let through.
func FailErr(c echo.Context, err error) error {
	switch {
	case errors.Is(err, shop.ErrEmptyCart):
		return Fail(c, http.StatusBadRequest, "EMPTY_CART", err.Error(), nil)
	case errors.Is(err, shop.ErrNoPaymentMethod):
		return Fail(c, http.StatusBadRequest, "NO_PAYMENT_METHOD", err.Error(), nil)
	case errors.Is(err, shop.ErrInvalidPaymentNumber):
		return Fail(c, http.StatusBadRequest, "INVALID_PAYMENT_NUMBER", err.Error(), nil)
	case errors.Is(err, shop.ErrAlreadyInCart):
		return Fail(c, http.StatusConflict, "ALREADY_OWNED_OR_IN_CART", err.Error(), nil)
	case errors.Is(err, shop.ErrDuplicateOwnership):
		return Fail(c, http.StatusConflict, "DUPLICATE_OWNERSHIP", err.Error(), nil)
	case errors.Is(err, shop.ErrCartIndexOutOfRange):
		return Fail(c, http.StatusBadRequest, "CART_INDEX_OUT_OF_RANGE", err.Error(), nil)
	case errors.Is(err, shop.ErrAccountProtected):
		return Fail(c, http.StatusForbidden, "ACCOUNT_PROTECTED", err.Error(), nil)
	case errors.Is(err, store.ErrGameNotFound):
		return Fail(c, http.StatusNotFound, "GAME_NOT_FOUND", err.Error(), nil)
	case errors.Is(err, store.ErrAccountNotFound):
		return Fail(c, http.StatusNotFound, "ACCOUNT_NOT_FOUND", err.Error(), nil)
	default:
		return Fail(c, http.StatusInternalServerError, "PERSISTENCE_FAILURE", err.Error(), nil)
	}
}
