package app

import (
	"context"

	"github.com/gustavopprado/Sistema-RH/internal/config"
	"github.com/gustavopprado/Sistema-RH/internal/employee"
	"github.com/gustavopprado/Sistema-RH/internal/shared/connection"

	"go.uber.org/zap"
)

// RunSeed loads the employee roster from path, or from SEED_JSON_PATH when path is empty.
func RunSeed(ctx context.Context, cfg *config.Config, path string) (employee.SeedResult, error) {
	logger := zap.L().Named("app.seed")
	if path == "" {
		path = cfg.SeedJSONPath
	}

	db, err := connection.ConnectGORMWithRetry(cfg.DatabaseURL, cfg.DBMaxRetries)
	if err != nil {
		return employee.SeedResult{}, err
	}
	defer closeDB(db, logger)

	if cfg.MigrateOnStart {
		if err := connection.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
			return employee.SeedResult{}, err
		}
	}

	svc := employee.NewService(db, employee.NewRepository(db), nil, logger)
	return svc.Seed(ctx, path)
}
