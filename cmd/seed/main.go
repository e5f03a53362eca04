package main

import (
	"context"
	"flag"

	"github.com/gustavopprado/Sistema-RH/internal/app"
	"github.com/gustavopprado/Sistema-RH/internal/config"
	"github.com/gustavopprado/Sistema-RH/internal/shared/logging"

	"go.uber.org/zap"
)

func main() {
	path := flag.String("file", "", "employee roster JSON (defaults to SEED_JSON_PATH)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger, err := logging.New(logging.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		OutputPath: cfg.Log.OutputPath,
	})
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	result, err := app.RunSeed(context.Background(), cfg, *path)
	if err != nil {
		logger.Fatal("seed failed", zap.Error(err))
	}
	logger.Info("seed done",
		zap.Int("created", result.Created),
		zap.Int("updated", result.Updated),
		zap.Int("skipped", result.Skipped),
	)
}
