package employee

import (
	"net/http"
	"strconv"

	employeeerrors "github.com/gustavopprado/Sistema-RH/internal/employee/errors"
	"github.com/gustavopprado/Sistema-RH/internal/shared/apperror"
	"github.com/gustavopprado/Sistema-RH/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("employee.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("employee request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.String("message", httpErr.Message),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) writeBindError(c *gin.Context, err error) {
	h.logger.Warn("http employee validation failed", zap.Error(err))
	appErr := apperror.MapValidationError(err)
	response.Error(c, appErr.HTTPStatus, appErr.Code, appErr.Message, appErr.Details)
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func (h *Handler) GetAll(c *gin.Context) {
	var req ListEmployeesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.writeBindError(c, err)
		return
	}
	h.logger.Debug("http list employees", zap.String("status", req.Status), zap.String("search", req.Search))

	result, err := h.service.List(c.Request.Context(), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	meta := response.NewPaginationMeta(result.Total, result.Page, result.PageSize)
	response.Success(c, http.StatusOK, result.Items, &meta)
}

func (h *Handler) GetOptions(c *gin.Context) {
	resp, err := h.service.GetOptions(c.Request.Context())
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.writeServiceError(c, employeeerrors.ErrInvalidEmployeeID)
		return
	}
	h.logger.Debug("http get employee by id", zap.Uint("employee_id", id))

	resp, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeBindError(c, err)
		return
	}
	h.logger.Debug("http create employee", zap.String("matricula", req.Matricula))

	resp, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.writeServiceError(c, employeeerrors.ErrInvalidEmployeeID)
		return
	}
	var req UpdateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeBindError(c, err)
		return
	}
	h.logger.Debug("http update employee", zap.Uint("employee_id", id))

	resp, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Terminate(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.writeServiceError(c, employeeerrors.ErrInvalidEmployeeID)
		return
	}
	var req TerminateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeBindError(c, err)
		return
	}
	h.logger.Debug("http terminate employee", zap.Uint("employee_id", id))

	resp, err := h.service.Terminate(c.Request.Context(), id, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Reactivate(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.writeServiceError(c, employeeerrors.ErrInvalidEmployeeID)
		return
	}
	h.logger.Debug("http reactivate employee", zap.Uint("employee_id", id))

	resp, err := h.service.Reactivate(c.Request.Context(), id)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}
