package shopapi

import (
	"github.com/fatboylabs/gamestore/internal/domain"
	"github.com/fatboylabs/gamestore/internal/imagehost"
	"github.com/fatboylabs/gamestore/internal/ranking"
	"github.com/fatboylabs/gamestore/internal/webserver"
	"github.com/labstack/echo/v4"
)

// gameCard is one storefront card: the ranked catalog entry with its image
// URLs already pointed at the resized variants.
type gameCard struct {
	ID       int64   `json:"id"`
	Title    string  `json:"title"`
	Price    float64 `json:"price"`
	Img      string  `json:"img"`
	HoverImg string  `json:"hover_img"`
	Sales    int     `json:"sales"`
	Owned    bool    `json:"owned"`
	InCart   bool    `json:"in_cart"`
}

func registerCatalogRoutes() {
	webserver.UserGET("/store/games", listGames)
}

func toCards(c echo.Context, ranked []domain.RankedGame) []gameCard {
	appx := webserver.App()
	width := appx.GetSettingsInt64Value("store", "CardImageWidth")
	if width == 0 {
		width = 400
	}

	acct := webserver.CurrentAccount(c)
	owned := acct.OwnedGameIDs()

	cards := make([]gameCard, 0, len(ranked))
	for _, g := range ranked {
		cards = append(cards, gameCard{
			ID:       g.ID,
			Title:    g.Title,
			Price:    g.Price,
			Img:      imagehost.OptimizedURL(g.Img, int(width)),
			HoverImg: imagehost.OptimizedURL(g.HoverImg, int(width)),
			Sales:    g.Sales,
			Owned:    owned[g.ID],
			InCart:   acct.InCart(g.ID),
		})
	}
	return cards
}

// listGames serves the popularity ranked catalog, optionally filtered by a
// title search. The filter runs over the cached ranking, not the store.
func listGames(c echo.Context) error {
	appx := webserver.App()
	ranked := appx.RankingCache().Ranked(c.Request().Context())

	if query := c.QueryParam("q"); query != "" {
		ranked = ranking.Search(ranked, query)
	}

	return ok(c, toCards(c, ranked))
}
