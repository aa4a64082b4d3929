package shopapi

import (
	"net/http"
	"strconv"

	"github.com/fatboylabs/gamestore/internal/domain"
	"github.com/fatboylabs/gamestore/internal/webserver"
	"github.com/labstack/echo/v4"
)

type addCartPayload struct {
	GameID int64 `json:"game_id" validate:"required"`
}

type cartView struct {
	Items []domain.GameSnapshot `json:"items"`
	Total float64               `json:"total"`
	Badge int                   `json:"badge"`
}

func registerCartRoutes() {
	webserver.UserGET("/store/cart", getCart)
	webserver.UserPOST("/store/cart", addCartItem)
	webserver.UserDELETE("/store/cart/:index", removeCartItem)
}

func cartOf(acct *domain.Account) cartView {
	items := acct.Cart
	if items == nil {
		items = []domain.GameSnapshot{}
	}
	return cartView{Items: items, Total: acct.CartTotal(), Badge: len(items)}
}

func getCart(c echo.Context) error {
	return ok(c, cartOf(webserver.CurrentAccount(c)))
}

func addCartItem(c echo.Context) error {
	var payload addCartPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse cart request", err.Error())
	}
	if err := c.Validate(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid cart request", err.Error())
	}

	appx := webserver.App()
	acct := webserver.CurrentAccount(c)
	if _, err := appx.CartService().AddToCart(c.Request().Context(), acct, payload.GameID); err != nil {
		return failErr(c, err)
	}
	return ok(c, cartOf(acct))
}

func removeCartItem(c echo.Context) error {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Cart position must be a number", err.Error())
	}

	appx := webserver.App()
	acct := webserver.CurrentAccount(c)
	if err := appx.CartService().RemoveFromCart(c.Request().Context(), acct, index); err != nil {
		return failErr(c, err)
	}
	return ok(c, cartOf(acct))
}
