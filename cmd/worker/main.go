package main

import (
	"github.com/gustavopprado/Sistema-RH/internal/app"
	"github.com/gustavopprado/Sistema-RH/internal/config"
	"github.com/gustavopprado/Sistema-RH/internal/shared/apperror"
	"github.com/gustavopprado/Sistema-RH/internal/shared/logging"

	"go.uber.org/zap"
)

func main() {
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

	apperror.Init()

	if err := app.RunWorker(cfg); err != nil {
		logger.Fatal("run worker failed", zap.Error(err))
	}
}
