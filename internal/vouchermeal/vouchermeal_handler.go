package vouchermeal

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gustavopprado/Sistema-RH/internal/shared/apperror"
	"github.com/gustavopprado/Sistema-RH/internal/shared/response"
	vouchermealerrors "github.com/gustavopprado/Sistema-RH/internal/vouchermeal/errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("vouchermeal.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("vouchermeal.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("voucher meal request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.String("message", httpErr.Message),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) writeBindError(c *gin.Context, err error) {
	h.logger.Warn("http voucher meal validation failed", zap.Error(err))
	appErr := apperror.MapValidationError(err)
	response.Error(c, appErr.HTTPStatus, appErr.Code, appErr.Message, appErr.Details)
}

func parseUintParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func (h *Handler) invoiceID(c *gin.Context) (uint, bool) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		h.writeServiceError(c, vouchermealerrors.ErrInvalidInvoiceID)
	}
	return id, ok
}

func (h *Handler) GetByMonth(c *gin.Context) {
	var req ByMonthRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.writeBindError(c, err)
		return
	}

	resp, err := h.service.GetByMonth(c.Request.Context(), req.Month, req.Branch)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) CreateOrGet(c *gin.Context) {
	var req CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeBindError(c, err)
		return
	}
	h.logger.Debug("http create voucher meal invoice", zap.String("month", req.Month), zap.String("branch", req.Branch))

	resp, err := h.service.CreateOrGet(c.Request.Context(), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	status := http.StatusCreated
	if resp.Existed {
		status = http.StatusOK
	}
	response.Success(c, status, resp, nil)
}

func (h *Handler) GetByID(c *gin.Context) {
	id, ok := h.invoiceID(c)
	if !ok {
		return
	}

	var q DetailRequest
	if err := c.ShouldBindQuery(&q); err != nil {
		h.writeBindError(c, err)
		return
	}

	resp, err := h.service.GetByID(c.Request.Context(), id, q.CostCenter)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) UpdateInvoice(c *gin.Context) {
	id, ok := h.invoiceID(c)
	if !ok {
		return
	}
	var req UpdateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeBindError(c, err)
		return
	}

	resp, err := h.service.UpdateInvoice(c.Request.Context(), id, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) UpdateAllocation(c *gin.Context) {
	id, ok := h.invoiceID(c)
	if !ok {
		return
	}
	employeeID, ok := parseUintParam(c, "employeeId")
	if !ok {
		h.writeServiceError(c, vouchermealerrors.ErrInvalidEmployeeID)
		return
	}
	var req UpdateAllocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeBindError(c, err)
		return
	}
	h.logger.Debug("http update voucher meal allocation", zap.Uint("invoice_id", id), zap.Uint("employee_id", employeeID))

	resp, err := h.service.UpdateAllocation(c.Request.Context(), id, employeeID, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Close(c *gin.Context) {
	id, ok := h.invoiceID(c)
	if !ok {
		return
	}
	var req CloseInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeBindError(c, err)
		return
	}
	h.logger.Debug("http close voucher meal invoice", zap.Uint("invoice_id", id), zap.Int("lines", len(req.Lines)), zap.Int("allocations", len(req.Allocations)))

	resp, err := h.service.Close(c.Request.Context(), id, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Reopen(c *gin.Context) {
	id, ok := h.invoiceID(c)
	if !ok {
		return
	}

	resp, err := h.service.Reopen(c.Request.Context(), id)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Export(c *gin.Context) {
	id, ok := h.invoiceID(c)
	if !ok {
		return
	}

	var q DetailRequest
	if err := c.ShouldBindQuery(&q); err != nil {
		h.writeBindError(c, err)
		return
	}

	file, err := h.service.Export(c.Request.Context(), id, q.CostCenter)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, file.FileName))
	c.Data(http.StatusOK, file.ContentType, file.Data)
}
