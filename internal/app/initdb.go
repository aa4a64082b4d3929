package app

import (
	"context"
	"time"

	"github.com/fatboylabs/gamestore/internal/domain"
	"github.com/fatboylabs/gamestore/internal/store"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	superUsername   = "admin"
	defaultPassword = "gamestore"
)

// checkSuper makes sure a super admin account exists so the admin panel is
// reachable on a fresh install.
func (a *Application) checkSuper() {
	ctx := context.Background()

	_, err := a.accounts.FindByDisplayName(ctx, superUsername)
	switch {
	case errors.Is(err, store.ErrAccountNotFound):
		hashed, herr := bcrypt.GenerateFromPassword([]byte(defaultPassword), bcrypt.DefaultCost)
		if herr != nil {
			zap.L().Error("failed to hash default admin password", zap.Error(herr))
			return
		}
		acct := &domain.Account{
			ID:            uuid.NewString(),
			Username:      superUsername,
			Email:         "admin@fatboy.games",
			EmailVerified: true,
			Password:      string(hashed),
			Role:          domain.RoleAdmin,
			Cart:          []domain.GameSnapshot{},
			History:       []domain.PurchaseRecord{},
			LastLogin:     time.Now(),
		}
		if err := a.accounts.Upsert(ctx, acct); err != nil {
			zap.L().Error("failed to create default super admin", zap.Error(err))
			return
		}
		zap.L().Info("initialized default super admin account",
			zap.String("username", superUsername))
	case err != nil:
		zap.L().Error("failed to query super admin", zap.Error(err))
	}
}

type settingSchema struct {
	Category    string
	Name        string
	Default     string
	Description string
}

var defaultSettings = []settingSchema{
	{"checkout", "ReceiptEnable", "true", "Send a receipt email after successful checkout"},
	{"store", "RankingCacheSeconds", "300", "Popularity ranking cache lifetime"},
	{"store", "CardImageWidth", "400", "Image host transform width for catalog cards"},
	{"system", "OprLogRetainDays", "365", "Days to keep admin operation log entries"},
}

// checkSettings seeds missing sys_config rows (database backend only).
func (a *Application) checkSettings() {
	if a.gormDB == nil {
		return
	}
	for sortid, schema := range defaultSettings {
		var count int64
		a.gormDB.Model(&domain.SysConfig{}).
			Where("type = ? and name = ?", schema.Category, schema.Name).
			Count(&count)
		if count == 0 {
			a.gormDB.Create(&domain.SysConfig{
				Sort:   sortid,
				Type:   schema.Category,
				Name:   schema.Name,
				Value:  schema.Default,
				Remark: schema.Description,
			})
			zap.L().Info("initialized config",
				zap.String("key", schema.Category+"."+schema.Name),
				zap.String("default", schema.Default))
		}
	}
}

// checkCatalog seeds a starter catalog on an empty store.
func (a *Application) checkCatalog() {
	ctx := context.Background()
	games, err := a.catalog.List(ctx)
	if err != nil {
		zap.L().Warn("catalog seed check failed", zap.Error(err))
		return
	}
	if len(games) > 0 {
		return
	}

	seed := []domain.Game{
		{ID: 1, Title: "Elden Ring", Price: 59.99},
		{ID: 2, Title: "Hades II", Price: 29.99},
		{ID: 3, Title: "Stardew Valley", Price: 14.99},
		{ID: 4, Title: "Hollow Knight: Silksong", Price: 19.99},
	}
	for i := range seed {
		if err := a.catalog.Upsert(ctx, &seed[i]); err != nil {
			zap.L().Error("failed to seed catalog entry",
				zap.String("title", seed[i].Title), zap.Error(err))
			continue
		}
	}
	zap.L().Info("seeded starter catalog", zap.Int("count", len(seed)))
}
