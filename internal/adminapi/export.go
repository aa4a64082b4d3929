package adminapi

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/360EntSecGroup-Skylar/excelize"
	"github.com/araddon/dateparse"
	"github.com/fatboylabs/gamestore/internal/domain"
	"github.com/fatboylabs/gamestore/internal/webserver"
	"github.com/gocarina/gocsv"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// purchaseExportRow is one flattened purchase record for the report files.
type purchaseExportRow struct {
	Username      string  `csv:"username"`
	OrderNo       string  `csv:"order_no"`
	Date          string  `csv:"date"`
	Items         int     `csv:"items"`
	Titles        string  `csv:"titles"`
	Total         float64 `csv:"total"`
	PaymentMethod string  `csv:"payment_method"`
}

func registerExportRoutes() {
	webserver.ApiGET("/store/export/purchases.csv", exportPurchasesCSV)
	webserver.ApiGET("/store/export/purchases.xlsx", exportPurchasesXLSX)
}

// parseExportWindow reads the optional from/to filters. Both accept any
// common date layout.
func parseExportWindow(c echo.Context) (from, to time.Time, err error) {
	if s := strings.TrimSpace(c.QueryParam("from")); s != "" {
		from, err = dateparse.ParseAny(s)
		if err != nil {
			return from, to, errors.Wrap(err, "from")
		}
	}
	if s := strings.TrimSpace(c.QueryParam("to")); s != "" {
		to, err = dateparse.ParseAny(s)
		if err != nil {
			return from, to, errors.Wrap(err, "to")
		}
	}
	return from, to, nil
}

func collectPurchaseRows(c echo.Context, from, to time.Time) ([]purchaseExportRow, error) {
	accounts, err := webserver.App().AccountStore().List(c.Request().Context())
	if err != nil {
		return nil, err
	}

	rows := []purchaseExportRow{}
	for _, acct := range accounts {
		if acct.Role == domain.RoleAdmin {
			continue
		}
		for _, record := range acct.History {
			if !from.IsZero() && record.Date.Before(from) {
				continue
			}
			if !to.IsZero() && record.Date.After(to) {
				continue
			}
			titles := make([]string, len(record.Items))
			for i, item := range record.Items {
				titles[i] = item.Title
			}
			rows = append(rows, purchaseExportRow{
				Username:      acct.Username,
				OrderNo:       record.OrderNo,
				Date:          record.Date.Format(time.RFC3339),
				Items:         len(record.Items),
				Titles:        strings.Join(titles, "; "),
				Total:         record.Total,
				PaymentMethod: record.PaymentMethod,
			})
		}
	}
	return rows, nil
}

func exportPurchasesCSV(c echo.Context) error {
	from, to, err := parseExportWindow(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse date filter", err.Error())
	}
	rows, err := collectPurchaseRows(c, from, to)
	if err != nil {
		return failErr(c, err)
	}

	c.Response().Header().Set(echo.HeaderContentType, "text/csv")
	c.Response().Header().Set(echo.HeaderContentDisposition,
		`attachment; filename="purchases.csv"`)
	c.Response().WriteHeader(http.StatusOK)

	logOpr(c, "ExportPurchases", fmt.Sprintf("csv, %d rows", len(rows)))
	return gocsv.Marshal(&rows, c.Response())
}

func exportPurchasesXLSX(c echo.Context) error {
	from, to, err := parseExportWindow(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse date filter", err.Error())
	}
	rows, err := collectPurchaseRows(c, from, to)
	if err != nil {
		return failErr(c, err)
	}

	xlsx := excelize.NewFile()
	headers := []string{"Username", "Order No", "Date", "Items", "Titles", "Total", "Payment Method"}
	for i, h := range headers {
		xlsx.SetCellValue("Sheet1", fmt.Sprintf("%s1", string(rune('A'+i))), h)
	}
	for i, row := range rows {
		line := i + 2
		xlsx.SetCellValue("Sheet1", fmt.Sprintf("A%d", line), row.Username)
		xlsx.SetCellValue("Sheet1", fmt.Sprintf("B%d", line), row.OrderNo)
		xlsx.SetCellValue("Sheet1", fmt.Sprintf("C%d", line), row.Date)
		xlsx.SetCellValue("Sheet1", fmt.Sprintf("D%d", line), row.Items)
		xlsx.SetCellValue("Sheet1", fmt.Sprintf("E%d", line), row.Titles)
		xlsx.SetCellValue("Sheet1", fmt.Sprintf("F%d", line), row.Total)
		xlsx.SetCellValue("Sheet1", fmt.Sprintf("G%d", line), row.PaymentMethod)
	}

	c.Response().Header().Set(echo.HeaderContentType,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Response().Header().Set(echo.HeaderContentDisposition,
		`attachment; filename="purchases.xlsx"`)
	c.Response().WriteHeader(http.StatusOK)

	logOpr(c, "ExportPurchases", fmt.Sprintf("xlsx, %d rows", len(rows)))
	return xlsx.Write(c.Response())
}
