package shopapi

import (
	"net/http"

	"github.com/fatboylabs/gamestore/internal/shop"
	"github.com/fatboylabs/gamestore/internal/webserver"
	"github.com/labstack/echo/v4"
)

type checkoutPayload struct {
	Method       string `json:"method" validate:"required"`
	MobileNumber string `json:"mobile_number"`
	ReceiptEmail string `json:"receipt_email" validate:"omitempty,email"`
}

func registerCheckoutRoutes() {
	webserver.UserPOST("/store/checkout", doCheckout)
}

func doCheckout(c echo.Context) error {
	var payload checkoutPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse checkout", err.Error())
	}
	if err := c.Validate(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid checkout", err.Error())
	}

	appx := webserver.App()
	acct := webserver.CurrentAccount(c)

	record, err := appx.CheckoutService().Checkout(c.Request().Context(), acct, shop.PaymentInput{
		Method:       payload.Method,
		MobileNumber: payload.MobileNumber,
		ReceiptEmail: payload.ReceiptEmail,
	})
	if err != nil {
		return failErr(c, err)
	}

	// sales counts changed, next listing must re-rank
	appx.RankingCache().Invalidate()

	return ok(c, map[string]interface{}{
		"record": record,
		"cart":   cartOf(acct),
	})
}
