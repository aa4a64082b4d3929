// Package shopapi exposes the storefront endpoints: authentication, catalog
// browsing, cart, checkout and the library/dashboard views.
package shopapi

import (
	"github.com/fatboylabs/gamestore/internal/webserver"
	"github.com/labstack/echo/v4"
)

// InitRouter registers every storefront route.
func InitRouter() {
	registerAuthRoutes()
	registerCatalogRoutes()
	registerCartRoutes()
	registerCheckoutRoutes()
	registerLibraryRoutes()
}

func ok(c echo.Context, data interface{}) error {
	return webserver.OK(c, data)
}

func fail(c echo.Context, status int, code, message string, detail interface{}) error {
	return webserver.Fail(c, status, code, message, detail)
}

func failErr(c echo.Context, err error) error {
	return webserver.FailErr(c, err)
}
