package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatboylabs/gamestore/config"
	"github.com/fatboylabs/gamestore/internal/adminapi"
	"github.com/fatboylabs/gamestore/internal/app"
	"github.com/fatboylabs/gamestore/internal/shopapi"
	"github.com/fatboylabs/gamestore/internal/webserver"
	"go.uber.org/zap"
)

var (
	confFile = flag.String("c", "gamestore.yml", "config file")
	initDB   = flag.Bool("initdb", false, "drop and recreate all tables, then exit")
	showVer  = flag.Bool("v", false, "print version and exit")
)

var version = "dev"

func main() {
	flag.Parse()

	if *showVer {
		fmt.Println("gamestore", version)
		return
	}

	cfg := config.LoadConfig(*confFile)
	cfg.InitDirs()

	application := app.NewApplication(cfg)
	application.Init(cfg)
	defer application.Release()

	if *initDB {
		application.InitDb()
		zap.S().Info("database initialized")
		return
	}

	webserver.Init(application)
	shopapi.InitRouter()
	adminapi.InitRouter()

	errs := make(chan error, 1)
	go func() {
		errs <- webserver.Listen()
	}()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errs:
		zap.S().Errorf("web server stopped: %v", err)
	case sig := <-sigs:
		zap.S().Infof("received %s, shutting down", sig)
		webserver.Shutdown()
	}
}
