package main // Entry point package

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus" // structured logging

	"github.com/iliyamo/court-booking/internal/app"     // server wiring
	"github.com/iliyamo/court-booking/internal/config"  // internal config loader
	"github.com/iliyamo/court-booking/internal/logging" // logger setup
)

func main() {
	cfg, err := config.Load() // Load environment config
	if err != nil {
		logrus.WithError(err).Fatal("load config")
	}
	if err := logging.Init(cfg.LogLevel, cfg.LogFormat); err != nil {
		logrus.WithError(err).Fatal("configure logging")
	}

	// Stop on Ctrl+C or SIGTERM from the orchestrator
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, logrus.StandardLogger())
	if err != nil {
		logrus.WithError(err).Fatal("start application")
	}
	if err := a.Run(ctx); err != nil {
		logrus.WithError(err).Fatal("server stopped")
	}
}
