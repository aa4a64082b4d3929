package shop

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/fatboylabs/gamestore/internal/domain"
	"github.com/fatboylabs/gamestore/internal/ranking"
	"github.com/fatboylabs/gamestore/internal/store"
	"github.com/montanaflynn/stats"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// ErrAccountProtected refuses deletion of admin accounts through the user
// management panel.
var ErrAccountProtected = errors.New("admin accounts cannot be deleted")

// AdminService implements the inventory and user management workflows.
type AdminService struct {
	catalog  store.CatalogStore
	accounts store.AccountStore
	node     *snowflake.Node
}

func NewAdminService(catalog store.CatalogStore, accounts store.AccountStore, node *snowflake.Node) *AdminService {
	return &AdminService{catalog: catalog, accounts: accounts, node: node}
}

// GameInput is the admin game form. Image fields left empty on an update
// keep whatever the store already holds.
type GameInput struct {
	ID       int64
	Title    string
	Price    float64
	Img      string
	HoverImg string
}

// SaveGame creates or updates a catalog entry with merge semantics on the
// image fields. A zero id means creation with a freshly generated id.
func (s *AdminService) SaveGame(ctx context.Context, input GameInput) (*domain.Game, error) {
	game := &domain.Game{
		ID:       input.ID,
		Title:    input.Title,
		Price:    input.Price,
		Img:      input.Img,
		HoverImg: input.HoverImg,
	}

	if input.ID == 0 {
		game.ID = s.node.Generate().Int64()
	} else {
		old, err := s.catalog.Get(ctx, input.ID)
		switch {
		case errors.Is(err, store.ErrGameNotFound):
			// editing an id that vanished behaves like creation under that id
		case err != nil:
			return nil, err
		default:
			if game.Img == "" {
				game.Img = old.Img
			}
			if game.HoverImg == "" {
				game.HoverImg = old.HoverImg
			}
			game.CreatedAt = old.CreatedAt
		}
	}

	if err := s.catalog.Upsert(ctx, game); err != nil {
		return nil, err
	}
	zap.L().Info("game saved", zap.Int64("game_id", game.ID), zap.String("title", game.Title))
	return game, nil
}

// DeleteGame removes a catalog entry. Purchase history keeps its snapshots.
func (s *AdminService) DeleteGame(ctx context.Context, id int64) error {
	if err := s.catalog.Delete(ctx, id); err != nil {
		return err
	}
	zap.L().Info("game deleted", zap.Int64("game_id", id))
	return nil
}

// DeleteAccount removes an account by display name. Deletion is immediate
// and irreversible; reports recompute from whatever accounts remain.
func (s *AdminService) DeleteAccount(ctx context.Context, username string) error {
	acct, err := s.accounts.FindByDisplayName(ctx, username)
	if err != nil {
		return err
	}
	if acct.Role == domain.RoleAdmin {
		return ErrAccountProtected
	}
	if err := s.accounts.DeleteByName(ctx, username); err != nil {
		return err
	}
	zap.L().Warn("account deleted", zap.String("username", username))
	return nil
}

// Overview is the admin dashboard report.
type Overview struct {
	TotalUsers   int            `json:"total_users"`
	TotalGames   int            `json:"total_games"`
	TotalRevenue float64        `json:"total_revenue"`
	TopGame      string         `json:"top_game"`
	TopGameSales int            `json:"top_game_sales"`
	SalesByTitle map[string]int `json:"sales_by_title"`
}

// BuildOverview recomputes the report from the current store state.
func (s *AdminService) BuildOverview(ctx context.Context) (*Overview, error) {
	games, err := s.catalog.List(ctx)
	if err != nil {
		return nil, err
	}
	accounts, err := s.accounts.List(ctx)
	if err != nil {
		return nil, err
	}

	var users int
	var totals []float64
	titles := make(map[int64]string, len(games))
	for _, g := range games {
		titles[g.ID] = g.Title
	}
	salesByTitle := make(map[string]int)
	for _, acct := range accounts {
		if acct.Role != domain.RoleAdmin {
			users++
		}
		for _, record := range acct.History {
			totals = append(totals, record.Total)
			for _, item := range record.Items {
				title := titles[item.ID]
				if title == "" {
					title = item.Title
				}
				salesByTitle[title]++
			}
		}
	}

	revenue, err := stats.Sum(totals)
	if err != nil {
		// stats.Sum errors only on empty input
		revenue = 0
	}

	top, topSales := ranking.BestSeller(games, accounts)
	return &Overview{
		TotalUsers:   users,
		TotalGames:   len(games),
		TotalRevenue: revenue,
		TopGame:      top,
		TopGameSales: topSales,
		SalesByTitle: salesByTitle,
	}, nil
}
