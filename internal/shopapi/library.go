package shopapi

import (
	"time"

	"github.com/fatboylabs/gamestore/internal/domain"
	"github.com/fatboylabs/gamestore/internal/webserver"
	"github.com/labstack/echo/v4"
	"github.com/montanaflynn/stats"
)

// libraryItem is one owned game. Games bought more than once never happen,
// so the library is just the distinct union of every purchase record.
type libraryItem struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Img         string    `json:"img"`
	PurchasedAt time.Time `json:"purchased_at"`
}

type dashboardView struct {
	CartCount  int     `json:"cart_count"`
	GamesOwned int     `json:"games_owned"`
	TotalSpent float64 `json:"total_spent"`
}

func registerLibraryRoutes() {
	webserver.UserGET("/store/history", getHistory)
	webserver.UserGET("/store/library", getLibrary)
	webserver.UserGET("/store/dashboard", getDashboard)
}

// getHistory returns the purchase ledger newest first. Records themselves
// are immutable, ordering is presentation only.
func getHistory(c echo.Context) error {
	acct := webserver.CurrentAccount(c)

	records := make([]domain.PurchaseRecord, len(acct.History))
	for i, record := range acct.History {
		records[len(acct.History)-1-i] = record
	}
	return ok(c, records)
}

func getLibrary(c echo.Context) error {
	acct := webserver.CurrentAccount(c)

	seen := make(map[int64]bool)
	items := []libraryItem{}
	for _, record := range acct.History {
		for _, item := range record.Items {
			if seen[item.ID] {
				continue
			}
			seen[item.ID] = true
			items = append(items, libraryItem{
				ID:          item.ID,
				Title:       item.Title,
				Img:         item.Img,
				PurchasedAt: record.Date,
			})
		}
	}
	return ok(c, items)
}

func getDashboard(c echo.Context) error {
	acct := webserver.CurrentAccount(c)

	totals := make([]float64, 0, len(acct.History))
	for _, record := range acct.History {
		totals = append(totals, record.Total)
	}
	spent, err := stats.Sum(totals)
	if err != nil {
		spent = 0
	}

	return ok(c, dashboardView{
		CartCount:  len(acct.Cart),
		GamesOwned: len(acct.OwnedGameIDs()),
		TotalSpent: spent,
	})
}
