package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"rescue-roster/internal/dto"
	"rescue-roster/internal/service"
	"rescue-roster/pkg/response"
)

// ProfileHandler 负责人基地档案与基地成员 HTTP 处理器
type ProfileHandler struct {
	profileSvc service.BaseProfileService
}

// NewProfileHandler 创建 ProfileHandler
func NewProfileHandler(profileSvc service.BaseProfileService) *ProfileHandler {
	return &ProfileHandler{profileSvc: profileSvc}
}

// GetProfile 当前负责人的基地档案
// GET /api/v1/profile/base
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	profile, err := h.profileSvc.GetProfile(c.Request.Context(), userID)
	if err != nil {
		h.handleProfileError(c, err)
		return
	}
	response.OK(c, profile)
}

// SaveProfile 登记或更新基地档案
// PUT /api/v1/profile/base
func (h *ProfileHandler) SaveProfile(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	var req dto.BaseProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	profile, err := h.profileSvc.SaveProfile(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleProfileError(c, err)
		return
	}
	response.OK(c, profile)
}

// ListMembers 基地成员列表
// GET /api/v1/base-members
func (h *ProfileHandler) ListMembers(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	members, err := h.profileSvc.ListMembers(c.Request.Context(), userID)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OKList(c, members)
}

// AddMember 将已有人员加入基地
// POST /api/v1/base-members
func (h *ProfileHandler) AddMember(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	var req dto.AddBaseMemberRequest
	if !bindJSON(c, &req) {
		return
	}

	member, err := h.profileSvc.AddMember(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleProfileError(c, err)
		return
	}
	response.Created(c, member)
}

// AddGuest 创建访客人员并加入基地
// POST /api/v1/base-members/guest
func (h *ProfileHandler) AddGuest(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	var req dto.CreateGuestRequest
	if !bindJSON(c, &req) {
		return
	}

	member, err := h.profileSvc.AddGuest(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleProfileError(c, err)
		return
	}
	response.Created(c, member)
}

// RemoveMember 移除基地成员（历史条目保留）
// DELETE /api/v1/base-members/:personnel_id
func (h *ProfileHandler) RemoveMember(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.profileSvc.RemoveMember(c.Request.Context(), userID, c.Param("personnel_id")); err != nil {
		h.handleProfileError(c, err)
		return
	}
	response.OK(c, nil)
}

func (h *ProfileHandler) handleProfileError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrProfileNotFound):
		response.NotFound(c, 16001, "尚未登记基地档案")
	case errors.Is(err, service.ErrMemberExists):
		response.Conflict(c, 16002, "该人员已是基地成员")
	case errors.Is(err, service.ErrMemberNotFound):
		response.NotFound(c, 16003, "基地成员不存在")
	case errors.Is(err, service.ErrPersonnelNotFound):
		response.NotFound(c, 15001, "人员不存在")
	default:
		response.InternalError(c)
	}
}
