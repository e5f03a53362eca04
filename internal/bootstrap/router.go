package bootstrap

import (
	"net/http"

	"github.com/gustavopprado/Sistema-RH/internal/middleware"
	"github.com/gustavopprado/Sistema-RH/internal/shared/apperror"
	"github.com/gustavopprado/Sistema-RH/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type RouterConfig struct {
	CORSOrigins []string
	Production  bool
}

// NewRouter returns an engine with the global middleware chain and the health probe mounted.
func NewRouter(cfg RouterConfig, logger *zap.Logger) *gin.Engine {
	if cfg.Production {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(
		gin.Recovery(),
		middleware.ContextLogger(logger),
		middleware.AccessLog(logger),
		middleware.CORS(cfg.CORSOrigins),
	)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	r.NoRoute(func(c *gin.Context) {
		response.Error(c, http.StatusNotFound, apperror.CodeNotFound, "Route not found", nil)
	})

	return r
}
