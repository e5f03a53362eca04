package app

import (
	"github.com/gustavopprado/Sistema-RH/internal/config"
	"github.com/gustavopprado/Sistema-RH/internal/employee"
	"github.com/gustavopprado/Sistema-RH/internal/messaging/kafka"
	"github.com/gustavopprado/Sistema-RH/internal/middleware"
	"github.com/gustavopprado/Sistema-RH/internal/vouchermarket"
	"github.com/gustavopprado/Sistema-RH/internal/vouchermeal"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

func registerModules(
	router gin.IRouter,
	db *gorm.DB,
	rdb *redis.Client,
	cfg *config.Config,
) {
	// --- Repositories ---
	employeeRepo := employee.NewRepository(db)
	marketRepo := vouchermarket.NewRepository(db)
	mealRepo := vouchermeal.NewRepository(db)

	var outboxRepo kafka.OutboxRepository
	if cfg.OutboxEnabled {
		outboxRepo = kafka.NewOutboxRepository(db)
	}

	// --- Services ---
	employeeService := employee.NewService(db, employeeRepo, rdb)
	marketService := vouchermarket.NewService(db, marketRepo, outboxRepo)
	mealService := vouchermeal.NewService(db, mealRepo, outboxRepo)

	// --- Handlers ---
	employeeHandler := employee.NewHandler(employeeService)
	marketHandler := vouchermarket.NewHandler(marketService)
	mealHandler := vouchermeal.NewHandler(mealService)

	// --- Routes Registration ---
	limit := rate.Limit(cfg.RateLimitRPS)
	idempotency := middleware.Idempotency(rdb, zap.L().Named("idempotency"))

	employee.RegisterRoutes(router, employeeHandler, limit, cfg.RateLimitBurst)
	vouchermarket.RegisterRoutes(router, marketHandler, limit, cfg.RateLimitBurst, idempotency)
	vouchermeal.RegisterRoutes(router, mealHandler, limit, cfg.RateLimitBurst, idempotency)
}
