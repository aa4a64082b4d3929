package adminapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/fatboylabs/gamestore/internal/domain"
	"github.com/fatboylabs/gamestore/internal/webserver"
	"github.com/labstack/echo/v4"
)

// accountRow is the user management listing entry. Credentials and documents
// never leave the server, only the derived figures do.
type accountRow struct {
	UID           string    `json:"uid"`
	Username      string    `json:"username"`
	Email         string    `json:"email"`
	EmailVerified bool      `json:"email_verified"`
	Orders        int       `json:"orders"`
	TotalSpent    float64   `json:"total_spent"`
	CartCount     int       `json:"cart_count"`
	LastLogin     time.Time `json:"last_login"`
	CreatedAt     time.Time `json:"created_at"`
}

func registerAccountRoutes() {
	webserver.ApiGET("/store/accounts", listAccounts)
	webserver.ApiDELETE("/store/accounts/:username", deleteAccount)
}

// listAccounts serves the non-admin accounts with their order counts and
// lifetime spend.
func listAccounts(c echo.Context) error {
	appx := webserver.App()
	accounts, err := appx.AccountStore().List(c.Request().Context())
	if err != nil {
		return failErr(c, err)
	}

	q := strings.ToLower(strings.TrimSpace(c.QueryParam("q")))
	rows := []accountRow{}
	for _, acct := range accounts {
		if acct.Role == domain.RoleAdmin {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(acct.Username), q) {
			continue
		}
		var spent float64
		for _, record := range acct.History {
			spent += record.Total
		}
		rows = append(rows, accountRow{
			UID:           acct.ID,
			Username:      acct.Username,
			Email:         acct.Email,
			EmailVerified: acct.EmailVerified,
			Orders:        len(acct.History),
			TotalSpent:    spent,
			CartCount:     len(acct.Cart),
			LastLogin:     acct.LastLogin,
			CreatedAt:     acct.CreatedAt,
		})
	}

	page, pageSize := parsePagination(c)
	total := int64(len(rows))
	start := (page - 1) * pageSize
	if start > len(rows) {
		start = len(rows)
	}
	end := start + pageSize
	if end > len(rows) {
		end = len(rows)
	}
	return paged(c, rows[start:end], total, page, pageSize)
}

// deleteAccount removes an account by display name. Admin accounts are
// refused; past sales figures recompute from the accounts that remain.
func deleteAccount(c echo.Context) error {
	username := strings.TrimSpace(c.Param("username"))
	if username == "" {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Username is required", nil)
	}

	appx := webserver.App()
	if err := appx.AdminService().DeleteAccount(c.Request().Context(), username); err != nil {
		return failErr(c, err)
	}

	appx.RankingCache().Invalidate()
	logOpr(c, "DeleteAccount", username)
	return ok(c, map[string]string{"username": username})
}
