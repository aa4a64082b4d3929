package app

import (
	"github.com/asaskevich/EventBus"
	"github.com/fatboylabs/gamestore/config"
	"github.com/fatboylabs/gamestore/internal/imagehost"
	"github.com/fatboylabs/gamestore/internal/notify"
	"github.com/fatboylabs/gamestore/internal/ranking"
	"github.com/fatboylabs/gamestore/internal/shop"
	"github.com/fatboylabs/gamestore/internal/store"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// DBProvider provides database access. DB returns nil when the embedded
// bolt backend is active; callers that need raw SQL must tolerate that.
type DBProvider interface {
	DB() *gorm.DB
}

// ConfigProvider provides application configuration
type ConfigProvider interface {
	Config() *config.AppConfig
}

// StoreProvider provides the catalog and account store collaborators
type StoreProvider interface {
	CatalogStore() store.CatalogStore
	AccountStore() store.AccountStore
}

// ServiceProvider provides the storefront workflow services
type ServiceProvider interface {
	CartService() *shop.CartService
	CheckoutService() *shop.CheckoutService
	AdminService() *shop.AdminService
}

// RankingProvider provides the cached popularity ranking
type RankingProvider interface {
	RankingCache() *ranking.Cache
}

// NotifyProvider provides the receipt/verification mailer
type NotifyProvider interface {
	Mailer() *notify.Mailer
}

// ImageProvider provides the image host client
type ImageProvider interface {
	ImageClient() *imagehost.Client
}

// BusProvider provides the in-process event bus
type BusProvider interface {
	Bus() EventBus.Bus
}

// SettingsProvider provides system settings access
type SettingsProvider interface {
	GetSettingsStringValue(category, key string) string
	GetSettingsInt64Value(category, key string) int64
	GetSettingsBoolValue(category, key string) bool
}

// SchedulerProvider provides task scheduling capability
type SchedulerProvider interface {
	Scheduler() *cron.Cron
}

// AppContext combines all provider interfaces for full application context.
// Handlers should depend on specific providers or this combined interface.
type AppContext interface {
	DBProvider
	ConfigProvider
	StoreProvider
	ServiceProvider
	RankingProvider
	NotifyProvider
	ImageProvider
	BusProvider
	SettingsProvider
	SchedulerProvider

	// LogOpr records an admin panel action for the audit view.
	LogOpr(oprName, oprIP, action, desc string)

	// Application lifecycle methods
	MigrateDB(track bool) error
	InitDb()
	Release()
}
