package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/aora/internal/buildinfo"
	"github.com/dmitrijs2005/aora/internal/logging"
	"github.com/dmitrijs2005/aora/internal/server"
	"github.com/dmitrijs2005/aora/internal/server/config"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	cfg, err := config.LoadConfig(os.Args[1:])
	if err != nil {
		log.Fatalf("%v", err)
	}

	logger := logging.NewJSONLogger(os.Stdout, slog.LevelInfo)
	app, err := server.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer app.Close()

	if err := app.Run(ctx); err != nil {
		logger.Error(ctx, "app failed", "error", err)
		os.Exit(1)
	}

}
