// Command populate loads the demo categories into the configured storage.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrymomot/galleri/core/config"
	"github.com/dmitrymomot/galleri/core/logger"
	"github.com/dmitrymomot/galleri/internal/app"
	"github.com/dmitrymomot/galleri/internal/gallery"
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
	cfg.SeedOnStart = false

	a, err := app.New(ctx, cfg, app.WithLogger(log))
	if err != nil {
		log.Error("Failed to initialize application", logger.Component("app"), logger.Error(err))
		os.Exit(1)
	}
	defer func() { _ = a.Close() }()

	created, err := gallery.Seed(ctx, a.Gallery(), gallery.DemoData)
	if err != nil {
		log.Error("Failed to seed gallery", logger.Component("populate"), logger.Error(err))
		_ = a.Close()
		os.Exit(1)
	}

	if len(created) == 0 {
		fmt.Println("gallery already populated")
		return
	}
	for _, c := range created {
		fmt.Printf("%s (%s): %d kitties\n", c.Name, c.Slug, len(c.Kitties))
	}
}
