package vouchermeal

import (
	"github.com/gustavopprado/Sistema-RH/internal/middleware"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

func RegisterRoutes(r gin.IRouter, handler *Handler, writeLimit rate.Limit, writeBurst int, extra ...gin.HandlerFunc) {
	invoices := r.Group("/voucher-meal/invoices")
	{
		invoices.GET("/by-month", handler.GetByMonth)
		invoices.GET("/:id", handler.GetByID)
		invoices.GET("/:id/export", handler.Export)

		mw := append([]gin.HandlerFunc{middleware.RateLimitByIP(writeLimit, writeBurst)}, extra...)
		writes := invoices.Group("", mw...)
		writes.POST("", handler.CreateOrGet)
		writes.PATCH("/:id", handler.UpdateInvoice)
		writes.PATCH("/:id/allocations/:employeeId", handler.UpdateAllocation)
		writes.POST("/:id/close", handler.Close)
		writes.POST("/:id/reopen", handler.Reopen)
	}
}
