package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"rescue-roster/internal/dto"
	"rescue-roster/internal/service"
	"rescue-roster/pkg/response"
)

// PersonnelHandler 人员名册 HTTP 处理器
type PersonnelHandler struct {
	personnelSvc service.PersonnelService
}

// NewPersonnelHandler 创建 PersonnelHandler
func NewPersonnelHandler(personnelSvc service.PersonnelService) *PersonnelHandler {
	return &PersonnelHandler{personnelSvc: personnelSvc}
}

// ListPersonnel 人员列表（支持姓名 / 身份证号关键词）
// GET /api/v1/personnel
func (h *PersonnelHandler) ListPersonnel(c *gin.Context) {
	var req dto.PersonnelListRequest
	if !bindQuery(c, &req) {
		return
	}

	list, total, err := h.personnelSvc.List(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// GetPersonnel 人员详情
// GET /api/v1/personnel/:id
func (h *PersonnelHandler) GetPersonnel(c *gin.Context) {
	p, err := h.personnelSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handlePersonnelError(c, err)
		return
	}
	response.OK(c, p)
}

// CreatePersonnel 创建人员
// POST /api/v1/personnel
func (h *PersonnelHandler) CreatePersonnel(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	var req dto.CreatePersonnelRequest
	if !bindJSON(c, &req) {
		return
	}

	p, err := h.personnelSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handlePersonnelError(c, err)
		return
	}
	response.Created(c, p)
}

// UpdatePersonnel 更新人员
// PUT /api/v1/personnel/:id
func (h *PersonnelHandler) UpdatePersonnel(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	var req dto.UpdatePersonnelRequest
	if !bindJSON(c, &req) {
		return
	}

	p, err := h.personnelSvc.Update(c.Request.Context(), c.Param("id"), &req, callerID)
	if err != nil {
		h.handlePersonnelError(c, err)
		return
	}
	response.OK(c, p)
}

// DeletePersonnel 删除人员
// DELETE /api/v1/personnel/:id
func (h *PersonnelHandler) DeletePersonnel(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.personnelSvc.Delete(c.Request.Context(), c.Param("id"), callerID); err != nil {
		h.handlePersonnelError(c, err)
		return
	}
	response.OK(c, nil)
}

func (h *PersonnelHandler) handlePersonnelError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPersonnelNotFound):
		response.NotFound(c, 15001, "人员不存在")
	case errors.Is(err, service.ErrNationalIDExists):
		response.Conflict(c, 15002, "身份证号已存在")
	default:
		response.InternalError(c)
	}
}
