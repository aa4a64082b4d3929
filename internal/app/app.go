package app

import (
	"os"
	"path/filepath"
	"runtime/debug"
	"time"
	_ "time/tzdata"

	"github.com/asaskevich/EventBus"
	"github.com/bwmarrin/snowflake"
	"github.com/fatboylabs/gamestore/config"
	"github.com/fatboylabs/gamestore/internal/domain"
	"github.com/fatboylabs/gamestore/internal/imagehost"
	"github.com/fatboylabs/gamestore/internal/notify"
	"github.com/fatboylabs/gamestore/internal/ranking"
	"github.com/fatboylabs/gamestore/internal/shop"
	"github.com/fatboylabs/gamestore/internal/store"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
	"gorm.io/gorm"
)

type Application struct {
	appConfig *config.AppConfig
	gormDB    *gorm.DB
	boltDB    *store.BoltStore
	catalog   store.CatalogStore
	accounts  store.AccountStore
	sched     *cron.Cron
	bus       EventBus.Bus
	node      *snowflake.Node
	rankCache *ranking.Cache
	cart      *shop.CartService
	checkout  *shop.CheckoutService
	admin     *shop.AdminService
	mailer    *notify.Mailer
	images    *imagehost.Client
}

// Ensure Application implements all interfaces
var _ AppContext = (*Application)(nil)

func NewApplication(appConfig *config.AppConfig) *Application {
	return &Application{appConfig: appConfig}
}

func (a *Application) Config() *config.AppConfig        { return a.appConfig }
func (a *Application) DB() *gorm.DB                     { return a.gormDB }
func (a *Application) CatalogStore() store.CatalogStore { return a.catalog }
func (a *Application) AccountStore() store.AccountStore { return a.accounts }
func (a *Application) CartService() *shop.CartService   { return a.cart }
func (a *Application) CheckoutService() *shop.CheckoutService {
	return a.checkout
}
func (a *Application) AdminService() *shop.AdminService { return a.admin }
func (a *Application) RankingCache() *ranking.Cache     { return a.rankCache }
func (a *Application) Mailer() *notify.Mailer           { return a.mailer }
func (a *Application) ImageClient() *imagehost.Client   { return a.images }
func (a *Application) Bus() EventBus.Bus                { return a.bus }
func (a *Application) Scheduler() *cron.Cron            { return a.sched }

// OverrideStores replaces the store collaborators (used in tests).
func (a *Application) OverrideStores(catalog store.CatalogStore, accounts store.AccountStore) {
	a.catalog = catalog
	a.accounts = accounts
	a.wireServices()
}

func (a *Application) Init(cfg *config.AppConfig) {
	loc, err := time.LoadLocation(cfg.System.Location)
	if err != nil {
		zap.S().Error("timezone config error")
	} else {
		time.Local = loc
	}

	a.initLogger(cfg)

	// Storage backend: document database or embedded local store.
	switch cfg.Database.Type {
	case "bolt":
		path := filepath.Join(cfg.System.Workdir, "data", "gamestore.db")
		boltDB, err := store.OpenBolt(path)
		if err != nil {
			zap.S().Panicf("bolt store open failed: %v", err)
		}
		a.boltDB = boltDB
		a.catalog = boltDB.Catalog()
		a.accounts = boltDB.Accounts()
		zap.S().Infof("embedded store ready, file: %s", path)
	default:
		a.gormDB = getDatabase(cfg.Database)
		a.catalog = store.NewGormCatalogStore(a.gormDB)
		a.accounts = store.NewGormAccountStore(a.gormDB)
		zap.S().Infof("database connection successful, type: %s", cfg.Database.Type)
		if err := a.MigrateDB(false); err != nil {
			zap.S().Errorf("database migration failed: %v", err)
		}
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		zap.S().Panicf("snowflake init failed: %v", err)
	}
	a.node = node

	a.bus = EventBus.New()

	a.mailer, err = notify.NewMailer(cfg.Smtp)
	if err != nil {
		zap.S().Panicf("mailer init failed: %v", err)
	}
	if cfg.Checkout.ReceiptEnable {
		if err := a.mailer.SubscribeCheckout(a.bus); err != nil {
			zap.L().Error("receipt subscription failed", zap.Error(err))
		}
	}

	a.images = imagehost.NewClient(cfg.ImageHost)

	a.rankCache = ranking.NewCache(a.catalog, a.accounts,
		time.Duration(cfg.Checkout.RankingTTLSeconds)*time.Second)
	a.wireServices()

	a.checkSuper()
	a.checkSettings()
	a.checkCatalog()

	a.initJob()
}

func (a *Application) wireServices() {
	a.cart = shop.NewCartService(a.catalog, a.accounts)
	a.checkout = shop.NewCheckoutService(a.accounts, a.node, a.bus)
	a.admin = shop.NewAdminService(a.catalog, a.accounts, a.node)
}

func (a *Application) initLogger(cfg *config.AppConfig) {
	var zapConfig zap.Config
	if cfg.Logger.Mode == "production" {
		zapConfig = zap.NewProductionConfig()
	} else {
		zapConfig = zap.NewDevelopmentConfig()
	}

	var logger *zap.Logger
	if cfg.Logger.FileEnable {
		lumberJackLogger := &lumberjack.Logger{
			Filename:   cfg.Logger.Filename,
			MaxSize:    64,
			MaxBackups: 7,
			MaxAge:     7,
			Compress:   false,
		}

		core := zapcore.NewTee(
			zapcore.NewCore(
				zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
				zapcore.AddSync(lumberJackLogger),
				zapConfig.Level,
			),
			zapcore.NewCore(
				zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
				zapcore.AddSync(os.Stdout),
				zapConfig.Level,
			),
		)
		logger = zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1))
	} else {
		var err error
		logger, err = zapConfig.Build(zap.AddCaller(), zap.AddCallerSkip(1))
		if err != nil {
			panic(err)
		}
	}

	zap.ReplaceGlobals(logger)
}

func (a *Application) MigrateDB(track bool) (err error) {
	if a.gormDB == nil {
		return nil
	}
	defer func() {
		if err1 := recover(); err1 != nil {
			if os.Getenv("GO_DEBUG_TRACE") != "" {
				debug.PrintStack()
			}
			err2, ok := err1.(error)
			if ok {
				err = err2
				zap.S().Error(err2.Error())
			}
		}
	}()
	if track {
		if err := a.gormDB.Debug().Migrator().AutoMigrate(domain.Tables...); err != nil {
			zap.S().Error(err)
		}
	} else {
		if err := a.gormDB.Migrator().AutoMigrate(domain.Tables...); err != nil {
			zap.S().Error(err)
		}
	}
	return nil
}

func (a *Application) InitDb() {
	if a.gormDB == nil {
		return
	}
	_ = a.gormDB.Migrator().DropTable(domain.Tables...)
	if err := a.gormDB.Migrator().AutoMigrate(domain.Tables...); err != nil {
		zap.S().Error(err)
	}
}

// Release releases application resources
func (a *Application) Release() {
	if a.sched != nil {
		a.sched.Stop()
	}
	if a.mailer != nil {
		a.mailer.Close()
	}
	if a.boltDB != nil {
		_ = a.boltDB.Close()
	}
	_ = zap.L().Sync()
}
