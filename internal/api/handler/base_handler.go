package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"rescue-roster/internal/dto"
	"rescue-roster/internal/service"
	"rescue-roster/pkg/response"
)

// BaseHandler 急救基地 HTTP 处理器
type BaseHandler struct {
	baseSvc service.BaseService
}

// NewBaseHandler 创建 BaseHandler
func NewBaseHandler(baseSvc service.BaseService) *BaseHandler {
	return &BaseHandler{baseSvc: baseSvc}
}

// ListBases 基地列表
// GET /api/v1/bases
func (h *BaseHandler) ListBases(c *gin.Context) {
	bases, err := h.baseSvc.List(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OKList(c, bases)
}

// GetBase 基地详情
// GET /api/v1/bases/:id
func (h *BaseHandler) GetBase(c *gin.Context) {
	base, err := h.baseSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleBaseError(c, err)
		return
	}
	response.OK(c, base)
}

// CreateBase 创建基地
// POST /api/v1/bases
func (h *BaseHandler) CreateBase(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	var req dto.CreateBaseRequest
	if !bindJSON(c, &req) {
		return
	}

	base, err := h.baseSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleBaseError(c, err)
		return
	}
	response.Created(c, base)
}

// UpdateBase 更新基地
// PUT /api/v1/bases/:id
func (h *BaseHandler) UpdateBase(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	var req dto.UpdateBaseRequest
	if !bindJSON(c, &req) {
		return
	}

	base, err := h.baseSvc.Update(c.Request.Context(), c.Param("id"), &req, callerID)
	if err != nil {
		h.handleBaseError(c, err)
		return
	}
	response.OK(c, base)
}

// DeleteBase 删除基地
// DELETE /api/v1/bases/:id
func (h *BaseHandler) DeleteBase(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.baseSvc.Delete(c.Request.Context(), c.Param("id"), callerID); err != nil {
		h.handleBaseError(c, err)
		return
	}
	response.OK(c, nil)
}

// handleBaseError 统一处理基地模块业务错误
func (h *BaseHandler) handleBaseError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrBaseNotFound):
		response.NotFound(c, 13001, "基地不存在")
	case errors.Is(err, service.ErrBaseNumberExists):
		response.Conflict(c, 13002, "基地编号已存在")
	default:
		response.InternalError(c)
	}
}
