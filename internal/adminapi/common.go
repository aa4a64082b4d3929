// Package adminapi exposes the admin panel endpoints: inventory management,
// user management, the sales overview and report exports. Every route sits
// behind the session gate plus the admin role gate.
package adminapi

import (
	"strconv"

	"github.com/fatboylabs/gamestore/internal/webserver"
	"github.com/labstack/echo/v4"
)

// InitRouter registers every admin panel route.
func InitRouter() {
	registerGameRoutes()
	registerAccountRoutes()
	registerOverviewRoutes()
	registerExportRoutes()
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

func paged(c echo.Context, rows interface{}, total int64, page, pageSize int) error {
	return webserver.Paged(c, rows, total, page, pageSize)
}

func parsePagination(c echo.Context) (page, pageSize int) {
	page, pageSize = 1, 20
	if p, err := strconv.Atoi(c.QueryParam("page")); err == nil && p > 0 {
		page = p
	}
	if ps, err := strconv.Atoi(c.QueryParam("perPage")); err == nil && ps > 0 && ps <= 500 {
		pageSize = ps
	}
	return page, pageSize
}

func parseIDParam(c echo.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}

// logOpr records the acting admin and the panel action for the audit view.
func logOpr(c echo.Context, action, desc string) {
	acct := webserver.CurrentAccount(c)
	name := "unknown"
	if acct != nil {
		name = acct.Username
	}
	webserver.App().LogOpr(name, c.RealIP(), action, desc)
}
