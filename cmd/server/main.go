package main

import (
	"context"
	"log"

	"github.com/Abdurahmanit/skip2love/internal/app"
	"github.com/Abdurahmanit/skip2love/internal/config"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logg := app.NewLogger(cfg)
	defer logg.Sync()

	ctx := context.Background()
	a, err := app.New(ctx, cfg, logg)
	if err != nil {
		logg.Fatal("Failed to start", zap.Error(err))
	}
	if err := a.Run(ctx); err != nil {
		logg.Fatal("Server stopped with error", zap.Error(err))
	}
}
