package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"rescue-roster/internal/dto"
	"rescue-roster/internal/service"
	"rescue-roster/pkg/response"
)

// WorkShiftHandler 班次 HTTP 处理器
type WorkShiftHandler struct {
	shiftSvc service.WorkShiftService
}

// NewWorkShiftHandler 创建 WorkShiftHandler
func NewWorkShiftHandler(shiftSvc service.WorkShiftService) *WorkShiftHandler {
	return &WorkShiftHandler{shiftSvc: shiftSvc}
}

// ListShifts 班次列表
// GET /api/v1/work-shifts
func (h *WorkShiftHandler) ListShifts(c *gin.Context) {
	shifts, err := h.shiftSvc.List(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OKList(c, shifts)
}

// GetShift 班次详情
// GET /api/v1/work-shifts/:id
func (h *WorkShiftHandler) GetShift(c *gin.Context) {
	shift, err := h.shiftSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleShiftError(c, err)
		return
	}
	response.OK(c, shift)
}

// CreateShift 创建班次
// POST /api/v1/work-shifts
func (h *WorkShiftHandler) CreateShift(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	var req dto.CreateWorkShiftRequest
	if !bindJSON(c, &req) {
		return
	}

	shift, err := h.shiftSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleShiftError(c, err)
		return
	}
	response.Created(c, shift)
}

// UpdateShift 更新班次
// PUT /api/v1/work-shifts/:id
func (h *WorkShiftHandler) UpdateShift(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	var req dto.UpdateWorkShiftRequest
	if !bindJSON(c, &req) {
		return
	}

	shift, err := h.shiftSvc.Update(c.Request.Context(), c.Param("id"), &req, callerID)
	if err != nil {
		h.handleShiftError(c, err)
		return
	}
	response.OK(c, shift)
}

// DeleteShift 删除班次
// DELETE /api/v1/work-shifts/:id
func (h *WorkShiftHandler) DeleteShift(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.shiftSvc.Delete(c.Request.Context(), c.Param("id"), callerID); err != nil {
		h.handleShiftError(c, err)
		return
	}
	response.OK(c, nil)
}

func (h *WorkShiftHandler) handleShiftError(c *gin.Context, err error) {
	if handleCommonError(c, err) {
		return
	}
	switch {
	case errors.Is(err, service.ErrShiftNotFound):
		response.NotFound(c, 14001, "班次不存在")
	case errors.Is(err, service.ErrShiftCodeExists):
		response.Conflict(c, 14002, "班次代码已存在")
	default:
		response.InternalError(c)
	}
}
