package main

import (
	"time"

	"github.com/gustavopprado/Sistema-RH/internal/app"
	"github.com/gustavopprado/Sistema-RH/internal/bootstrap"
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
	r := bootstrap.NewRouter(bootstrap.RouterConfig{
		CORSOrigins: cfg.CORSOrigins,
		Production:  cfg.IsProduction(),
	}, logger)

	// build dependency + routes
	cleanup, err := app.BuildApp(r, cfg)
	if err != nil {
		logger.Fatal("build app failed", zap.Error(err))
	}
	defer cleanup()

	bootstrap.StartHTTPServer(
		r,
		bootstrap.ServerConfig{
			Port:         cfg.Port,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		bootstrap.NewZapAuditLogger(logger),
	)
}
