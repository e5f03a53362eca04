package employee

import (
	"github.com/gustavopprado/Sistema-RH/internal/middleware"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

func RegisterRoutes(r gin.IRouter, handler *Handler, writeLimit rate.Limit, writeBurst int) {
	employees := r.Group("/employees")
	{
		employees.GET("", handler.GetAll)
		employees.GET("/options", handler.GetOptions)
		employees.GET("/:id", handler.GetByID)

		write := middleware.RateLimitByIP(writeLimit, writeBurst)
		employees.POST("", write, handler.Create)
		employees.PUT("/:id", write, handler.Update)
		employees.PATCH("/:id/terminate", write, handler.Terminate)
		employees.PATCH("/:id/reactivate", write, handler.Reactivate)
	}
}
