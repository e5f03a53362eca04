package app

import (
	"github.com/gustavopprado/Sistema-RH/internal/config"
	"github.com/gustavopprado/Sistema-RH/internal/shared/connection"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// BuildApp connects the infrastructure, applies migrations and mounts every module on router.
// The returned func releases the connections.
func BuildApp(router *gin.Engine, cfg *config.Config) (func(), error) {
	logger := zap.L().Named("app")

	db, err := connection.ConnectGORMWithRetry(cfg.DatabaseURL, cfg.DBMaxRetries)
	if err != nil {
		return nil, err
	}
	logger.Info("database connection established")

	if cfg.MigrateOnStart {
		if err := connection.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
			closeDB(db, logger)
			return nil, err
		}
	}

	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb, err = connection.ConnectRedisWithRetry(cfg.RedisAddr, cfg.DBMaxRetries)
		if err != nil {
			closeDB(db, logger)
			return nil, err
		}
		logger.Info("redis connection established")
	} else {
		logger.Info("REDIS_ADDR empty, cache and idempotency disabled")
	}

	registerModules(router, db, rdb, cfg)

	cleanup := func() {
		if rdb != nil {
			if err := rdb.Close(); err != nil {
				logger.Warn("close redis failed", zap.Error(err))
			}
		}
		closeDB(db, logger)
	}
	return cleanup, nil
}

func closeDB(db *gorm.DB, logger *zap.Logger) {
	sqlDB, err := db.DB()
	if err != nil {
		return
	}
	if err := sqlDB.Close(); err != nil {
		logger.Warn("close database failed", zap.Error(err))
	}
}
