package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"rescue-roster/internal/dto"
	"rescue-roster/internal/service"
	pkgerrors "rescue-roster/pkg/errors"
	"rescue-roster/pkg/jalali"
	"rescue-roster/pkg/response"
)

// PerformanceHandler 绩效日志 / 条目 / 网格 HTTP 处理器（负责人）
type PerformanceHandler struct {
	logSvc   service.PerformanceLogService
	entrySvc service.PerformanceEntryService
	gridSvc  service.GridService
}

// NewPerformanceHandler 创建 PerformanceHandler
func NewPerformanceHandler(
	logSvc service.PerformanceLogService,
	entrySvc service.PerformanceEntryService,
	gridSvc service.GridService,
) *PerformanceHandler {
	return &PerformanceHandler{logSvc: logSvc, entrySvc: entrySvc, gridSvc: gridSvc}
}

// logPeriodQuery 按期间查询日志；ensure=true 时不存在则自动创建
type logPeriodQuery struct {
	dto.PeriodQuery
	Ensure bool `form:"ensure"`
}

// ════════════════════════════════════════════════════════════
// 绩效日志
// ════════════════════════════════════════════════════════════

// FindLog 查询指定期间的日志，不存在时 data 为 null
// GET /api/v1/performance/logs?year=&month=
func (h *PerformanceHandler) FindLog(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	var q logPeriodQuery
	if !bindQuery(c, &q) {
		return
	}

	var (
		log *dto.LogResponse
		err error
	)
	if q.Ensure {
		log, err = h.logSvc.GetOrCreate(c.Request.Context(), userID, q.Year, q.Month)
	} else {
		log, err = h.logSvc.Find(c.Request.Context(), userID, q.Year, q.Month)
	}
	if err != nil {
		handlePerformanceError(c, err)
		return
	}
	response.OK(c, log)
}

// ListMyLogs 当前负责人的全部日志（新期间在前）
// GET /api/v1/performance/logs/mine
func (h *PerformanceHandler) ListMyLogs(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	logs, err := h.logSvc.ListMine(c.Request.Context(), userID)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OKList(c, logs)
}

// CreateLog 显式创建日志
// POST /api/v1/performance/logs
func (h *PerformanceHandler) CreateLog(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	var req dto.CreateLogRequest
	if !bindJSON(c, &req) {
		return
	}

	log, err := h.logSvc.Create(c.Request.Context(), userID, &req)
	if err != nil {
		handlePerformanceError(c, err)
		return
	}
	response.Created(c, log)
}

// GetLog 日志详情（管理员可查看任意日志）
// GET /api/v1/performance/logs/:id
func (h *PerformanceHandler) GetLog(c *gin.Context) {
	userID, role, ok := mustGetCaller(c)
	if !ok {
		return
	}

	log, err := h.logSvc.Get(c.Request.Context(), c.Param("id"), userID, role)
	if err != nil {
		handlePerformanceError(c, err)
		return
	}
	response.OK(c, log)
}

// UpdateLog 保存草稿（可携带 version 做乐观锁校验）
// PUT /api/v1/performance/logs/:id
func (h *PerformanceHandler) UpdateLog(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	var req dto.UpdateLogRequest
	if !bindJSON(c, &req) {
		return
	}

	log, err := h.logSvc.Update(c.Request.Context(), c.Param("id"), userID, &req)
	if err != nil {
		handlePerformanceError(c, err)
		return
	}
	response.OK(c, log)
}

// FinalizeLog 定稿（不可逆）
// POST /api/v1/performance/logs/:id/finalize
func (h *PerformanceHandler) FinalizeLog(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	log, err := h.logSvc.Finalize(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		handlePerformanceError(c, err)
		return
	}
	response.OK(c, log)
}

// ════════════════════════════════════════════════════════════
// 绩效条目
// ════════════════════════════════════════════════════════════

// ListLogEntries 日志下的全部条目
// GET /api/v1/performance/logs/:id/entries
func (h *PerformanceHandler) ListLogEntries(c *gin.Context) {
	userID, role, ok := mustGetCaller(c)
	if !ok {
		return
	}

	entries, err := h.entrySvc.ListByLog(c.Request.Context(), c.Param("id"), userID, role)
	if err != nil {
		handlePerformanceError(c, err)
		return
	}
	response.OKList(c, entries)
}

// CreateEntry 新增单个条目
// POST /api/v1/performance/logs/:id/entries
func (h *PerformanceHandler) CreateEntry(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	var req dto.EntryRequest
	if !bindJSON(c, &req) {
		return
	}

	entry, err := h.entrySvc.Create(c.Request.Context(), c.Param("id"), userID, &req)
	if err != nil {
		handlePerformanceError(c, err)
		return
	}
	response.Created(c, entry)
}

// BatchUpsertEntries 批量覆盖写入
// POST /api/v1/performance/logs/:id/entries/batch
func (h *PerformanceHandler) BatchUpsertEntries(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	var req dto.BatchEntriesRequest
	if !bindJSON(c, &req) {
		return
	}

	entries, err := h.entrySvc.BatchUpsert(c.Request.Context(), c.Param("id"), userID, req.Entries)
	if err != nil {
		handlePerformanceError(c, err)
		return
	}
	response.OKList(c, entries)
}

// AssignRange 为人员连续分配班次
// POST /api/v1/performance/logs/:id/assign-range
func (h *PerformanceHandler) AssignRange(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	var req dto.AssignRangeRequest
	if !bindJSON(c, &req) {
		return
	}

	entries, err := h.entrySvc.AssignRange(c.Request.Context(), c.Param("id"), userID, &req)
	if err != nil {
		handlePerformanceError(c, err)
		return
	}
	response.OKList(c, entries)
}

// ListEntries 按用户查询条目（负责人只能查自己）
// GET /api/v1/performance/entries
func (h *PerformanceHandler) ListEntries(c *gin.Context) {
	userID, role, ok := mustGetCaller(c)
	if !ok {
		return
	}
	var req dto.EntryListRequest
	if !bindQuery(c, &req) {
		return
	}

	entries, err := h.entrySvc.ListByUser(c.Request.Context(), userID, role, &req)
	if err != nil {
		handlePerformanceError(c, err)
		return
	}
	response.OKList(c, entries)
}

// UpdateEntry 更新条目
// PUT /api/v1/performance/entries/:id
func (h *PerformanceHandler) UpdateEntry(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	var req dto.UpdateEntryRequest
	if !bindJSON(c, &req) {
		return
	}

	entry, err := h.entrySvc.Update(c.Request.Context(), c.Param("id"), userID, &req)
	if err != nil {
		handlePerformanceError(c, err)
		return
	}
	response.OK(c, entry)
}

// DeleteEntry 删除条目
// DELETE /api/v1/performance/entries/:id
func (h *PerformanceHandler) DeleteEntry(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	deleted, err := h.entrySvc.Delete(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		handlePerformanceError(c, err)
		return
	}
	if !deleted {
		handlePerformanceError(c, service.ErrEntryNotFound)
		return
	}
	response.OK(c, nil)
}

// ════════════════════════════════════════════════════════════
// 网格
// ════════════════════════════════════════════════════════════

// Grid 负责人月度网格（自动创建当期日志）
// GET /api/v1/performance/grid?year=&month=
func (h *PerformanceHandler) Grid(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	var q dto.PeriodQuery
	if !bindQuery(c, &q) {
		return
	}

	grid, err := h.gridSvc.SupervisorGrid(c.Request.Context(), userID, q.Year, q.Month)
	if err != nil {
		handlePerformanceError(c, err)
		return
	}
	response.OK(c, grid)
}

// handlePerformanceError 绩效相关接口共用的错误映射
func handlePerformanceError(c *gin.Context, err error) {
	if handleCommonError(c, err) {
		return
	}
	switch {
	case errors.Is(err, service.ErrLogNotFound):
		response.NotFound(c, 17001, "绩效日志不存在")
	case errors.Is(err, service.ErrDuplicatePeriod):
		response.Conflict(c, 17002, "该期间已存在绩效日志")
	case errors.Is(err, service.ErrImmutableLog):
		response.Conflict(c, 17003, "绩效日志已定稿，不可修改")
	case errors.Is(err, service.ErrAlreadyFinalized):
		response.Conflict(c, 17004, "绩效日志已被其他请求定稿")
	case errors.Is(err, pkgerrors.ErrOptimisticLock):
		response.Conflict(c, 17005, "数据已被其他操作修改，请刷新后重试")
	case errors.Is(err, service.ErrIncompleteProfile):
		response.BadRequest(c, 17006, "基地档案不完整，请先完善档案")
	case errors.Is(err, service.ErrEntryNotFound):
		response.NotFound(c, 18001, "绩效条目不存在")
	case errors.Is(err, service.ErrImmutableEntry):
		response.Conflict(c, 18002, "绩效条目已定稿，不可修改")
	case errors.Is(err, service.ErrEntryExists):
		response.Conflict(c, 18003, "该人员当日已有条目")
	case errors.Is(err, service.ErrAssignmentNotFound):
		response.NotFound(c, 19001, "排班记录不存在")
	case errors.Is(err, service.ErrAssignmentExists):
		response.Conflict(c, 19002, "该人员当日已有排班")
	case errors.Is(err, service.ErrPersonnelNotFound):
		response.NotFound(c, 15001, "人员不存在")
	case errors.Is(err, service.ErrShiftNotFound):
		response.NotFound(c, 14001, "班次不存在")
	case errors.Is(err, service.ErrBaseNotFound):
		response.NotFound(c, 13001, "基地不存在")
	case errors.Is(err, jalali.ErrInvalidMonth):
		response.BadRequest(c, response.CodeInvalidParam, "月份必须在 1-12 之间")
	default:
		response.InternalError(c)
	}
}
