package handler

import (
	"github.com/gin-gonic/gin"

	"rescue-roster/internal/dto"
	"rescue-roster/internal/service"
	"rescue-roster/pkg/response"
)

// AdminHandler 管理员绩效视图与排班 HTTP 处理器
type AdminHandler struct {
	gridSvc       service.GridService
	assignmentSvc service.AssignmentService
}

// NewAdminHandler 创建 AdminHandler
func NewAdminHandler(gridSvc service.GridService, assignmentSvc service.AssignmentService) *AdminHandler {
	return &AdminHandler{gridSvc: gridSvc, assignmentSvc: assignmentSvc}
}

// Grid 管理员月度网格（排班投影）
// GET /api/v1/admin/performance/grid?year=&month=
func (h *AdminHandler) Grid(c *gin.Context) {
	var q dto.PeriodQuery
	if !bindQuery(c, &q) {
		return
	}

	grid, err := h.gridSvc.AdminGrid(c.Request.Context(), q.Year, q.Month)
	if err != nil {
		handlePerformanceError(c, err)
		return
	}
	response.OK(c, grid)
}

// Summary 期间内所有日志的汇总
// GET /api/v1/admin/performance/summary?year=&month=
func (h *AdminHandler) Summary(c *gin.Context) {
	var q dto.PeriodQuery
	if !bindQuery(c, &q) {
		return
	}

	summary, err := h.gridSvc.Summary(c.Request.Context(), q.Year, q.Month)
	if err != nil {
		handlePerformanceError(c, err)
		return
	}
	response.OK(c, summary)
}

// ListAssignments 期间内的排班
// GET /api/v1/admin/performance/assignments?year=&month=
func (h *AdminHandler) ListAssignments(c *gin.Context) {
	var q dto.PeriodQuery
	if !bindQuery(c, &q) {
		return
	}

	list, err := h.assignmentSvc.ListByPeriod(c.Request.Context(), q.Year, q.Month)
	if err != nil {
		handlePerformanceError(c, err)
		return
	}
	response.OKList(c, list)
}

// UpsertAssignment 写入单条排班
// PUT /api/v1/admin/performance/assignments
func (h *AdminHandler) UpsertAssignment(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	var req dto.UpsertAssignmentRequest
	if !bindJSON(c, &req) {
		return
	}

	a, err := h.assignmentSvc.Upsert(c.Request.Context(), userID, &req)
	if err != nil {
		handlePerformanceError(c, err)
		return
	}
	response.OK(c, a)
}

// DeleteAssignment 删除排班
// DELETE /api/v1/admin/performance/assignments/:id
func (h *AdminHandler) DeleteAssignment(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.assignmentSvc.Delete(c.Request.Context(), c.Param("id"), userID); err != nil {
		handlePerformanceError(c, err)
		return
	}
	response.OK(c, nil)
}
