// Package ranking derives catalog popularity from purchase history.
// Everything here is a pure transform over the two store snapshots; the
// cache is the only stateful piece.
package ranking

import (
	"sort"
	"strings"

	"github.com/fatboylabs/gamestore/internal/domain"
)

// SalesCounts maps game id to the number of times the game appears across
// every purchase record of every account. One occurrence per record item.
func SalesCounts(accounts []domain.Account) map[int64]int {
	counts := make(map[int64]int)
	for _, acct := range accounts {
		for _, record := range acct.History {
			for _, item := range record.Items {
				counts[item.ID]++
			}
		}
	}
	return counts
}

// Rank attaches sales counts to each catalog entry and sorts by sales
// descending. The sort is stable so ties keep original catalog order, and
// the output always has the same length as the input catalog.
func Rank(games []domain.Game, accounts []domain.Account) []domain.RankedGame {
	counts := SalesCounts(accounts)
	ranked := make([]domain.RankedGame, len(games))
	for i, g := range games {
		ranked[i] = domain.RankedGame{Game: g, Sales: counts[g.ID]}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Sales > ranked[j].Sales
	})
	return ranked
}

// Search filters an already ranked listing by case insensitive substring
// match on the title. It never goes back to the store; callers filter the
// cached ranking locally.
func Search(ranked []domain.RankedGame, query string) []domain.RankedGame {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return ranked
	}
	matched := make([]domain.RankedGame, 0, len(ranked))
	for _, g := range ranked {
		if strings.Contains(strings.ToLower(g.Title), query) {
			matched = append(matched, g)
		}
	}
	return matched
}

// BestSeller returns the title with the highest sales count, preferring the
// current catalog title over the snapshot title when the game still exists.
// Ties break on first encountered; returns "None" for an empty ledger.
func BestSeller(games []domain.Game, accounts []domain.Account) (string, int) {
	titles := make(map[int64]string, len(games))
	for _, g := range games {
		titles[g.ID] = g.Title
	}

	sales := make(map[string]int)
	var order []string
	for _, acct := range accounts {
		for _, record := range acct.History {
			for _, item := range record.Items {
				title := titles[item.ID]
				if title == "" {
					title = item.Title
				}
				if _, seen := sales[title]; !seen {
					order = append(order, title)
				}
				sales[title]++
			}
		}
	}

	top, max := "None", 0
	for _, title := range order {
		if sales[title] > max {
			max = sales[title]
			top = title
		}
	}
	return top, max
}
