package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrymomot/galleri/core/config"
	"github.com/dmitrymomot/galleri/core/logger"
	"github.com/dmitrymomot/galleri/internal/app"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := logger.New()

	var cfg app.Config
	if err := config.Load(&cfg); err != nil {
		log.Error("Failed to load configuration", logger.Component("config"), logger.Error(err))
		os.Exit(1)
	}

	a, err := app.New(ctx, cfg)
	if err != nil {
		log.Error("Failed to initialize application", logger.Component("app"), logger.Error(err))
		os.Exit(1)
	}

	if err := a.Run(ctx); err != nil {
		a.Logger().Error("Application stopped with error", logger.Error(err))
		os.Exit(1)
	}
}
