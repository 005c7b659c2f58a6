package dto

import (
	"rescue-roster/internal/grid"
	"rescue-roster/pkg/jalali"
)

// ── 绩效日志 DTO ──

// CreateLogRequest 创建月度绩效日志请求；base_id 为空时取负责人档案中的基地
type CreateLogRequest struct {
	Year   int    `json:"year"    binding:"required,min=1,max=9999"`
	Month  int    `json:"month"   binding:"required,min=1,max=12"`
	BaseID string `json:"base_id" binding:"omitempty,uuid"`
}

// UpdateLogRequest 保存草稿请求。定稿只能通过 finalize 接口完成
type UpdateLogRequest struct {
	Status  *string `json:"status"  binding:"omitempty,oneof=draft finalized"`
	Version *int    `json:"version" binding:"omitempty,min=1"`
}

// LogResponse 绩效日志响应
type LogResponse struct {
	ID          string  `json:"id"`
	UserID      string  `json:"user_id"`
	BaseID      string  `json:"base_id"`
	Year        int     `json:"year"`
	Month       int     `json:"month"`
	MonthName   string  `json:"month_name"`
	Status      string  `json:"status"`
	SubmittedAt *string `json:"submitted_at,omitempty"`
	Version     int     `json:"version"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

// ── 绩效条目 DTO ──

// EntryRequest 单个条目的写入参数，也作为批量写入的候选条目
type EntryRequest struct {
	PersonnelID string  `json:"personnel_id" binding:"required,uuid"`
	ShiftID     *string `json:"shift_id"     binding:"omitempty,uuid"`
	Date        *string `json:"date"         binding:"omitempty,jalali_date"`
	EntryType   string  `json:"entry_type"   binding:"omitempty,oneof=cell batch summary"`
	Missions    *int    `json:"missions"     binding:"omitempty,nonneg"`
	Meals       *int    `json:"meals"        binding:"omitempty,nonneg"`
}

// UpdateEntryRequest 更新条目请求
type UpdateEntryRequest struct {
	ShiftID   *string `json:"shift_id"   binding:"omitempty,uuid"`
	Date      *string `json:"date"       binding:"omitempty,jalali_date"`
	EntryType *string `json:"entry_type" binding:"omitempty,oneof=cell batch summary"`
	Missions  *int    `json:"missions"   binding:"omitempty,nonneg"`
	Meals     *int    `json:"meals"      binding:"omitempty,nonneg"`
}

// BatchEntriesRequest 批量写入请求，按输入顺序逐条 upsert
type BatchEntriesRequest struct {
	Entries []EntryRequest `json:"entries" binding:"required,min=1,max=1000,dive"`
}

// AssignRangeRequest 将同一班次分配给某人员在本月的连续日期
type AssignRangeRequest struct {
	PersonnelID string `json:"personnel_id" binding:"required,uuid"`
	ShiftID     string `json:"shift_id"     binding:"required,uuid"`
	FromDay     int    `json:"from_day"     binding:"required,min=1,max=31"`
	ToDay       int    `json:"to_day"       binding:"required,min=1,max=31,gtefield=FromDay"`
}

// EntryListRequest 按用户查询条目；user_id 为空表示当前用户
type EntryListRequest struct {
	UserID string `form:"user_id" binding:"omitempty,uuid"`
	Year   *int   `form:"year"    binding:"omitempty,min=1,max=9999"`
	Month  *int   `form:"month"   binding:"omitempty,min=1,max=12"`
}

// EntryResponse 绩效条目响应
type EntryResponse struct {
	ID             string      `json:"id"`
	LogID          string      `json:"log_id"`
	UserID         string      `json:"user_id"`
	PersonnelID    string      `json:"personnel_id"`
	ShiftID        *string     `json:"shift_id,omitempty"`
	Shift          *ShiftBrief `json:"shift,omitempty"`
	Date           *string     `json:"date,omitempty"`
	Year           int         `json:"year"`
	Month          int         `json:"month"`
	Day            *int        `json:"day,omitempty"`
	EntryType      string      `json:"entry_type"`
	Missions       int         `json:"missions"`
	Meals          int         `json:"meals"`
	LastModifiedBy *string     `json:"last_modified_by,omitempty"`
	IsFinalized    bool        `json:"is_finalized"`
	FinalizedAt    *string     `json:"finalized_at,omitempty"`
	CreatedAt      string      `json:"created_at"`
	UpdatedAt      string      `json:"updated_at"`
}

// ── 网格视图 ──

// GridResponse 负责人月度网格
type GridResponse struct {
	Log      LogResponse       `json:"log"`
	Days     []jalali.Day      `json:"days"`
	Holidays []HolidayResponse `json:"holidays"`
	Rows     []grid.Row        `json:"rows"`
	Stats    grid.Stats        `json:"stats"`
}

// ── 管理员排班 ──

// UpsertAssignmentRequest 管理员写入排班（按 log_id + personnel_id + date 覆盖）
type UpsertAssignmentRequest struct {
	LogID       *string `json:"log_id"       binding:"omitempty,uuid"`
	PersonnelID string  `json:"personnel_id" binding:"required,uuid"`
	BaseID      string  `json:"base_id"      binding:"required,uuid"`
	ShiftID     string  `json:"shift_id"     binding:"required,uuid"`
	Date        string  `json:"date"         binding:"required,jalali_date"`
}

// AssignmentResponse 管理员排班响应
type AssignmentResponse struct {
	ID          string  `json:"id"`
	LogID       *string `json:"log_id,omitempty"`
	PersonnelID string  `json:"personnel_id"`
	BaseID      string  `json:"base_id"`
	ShiftID     string  `json:"shift_id"`
	Date        string  `json:"date"`
	Year        int     `json:"year"`
	Month       int     `json:"month"`
	Day         int     `json:"day"`
	UpdatedAt   string  `json:"updated_at"`
}

// AdminGridResponse 管理员月度网格
type AdminGridResponse struct {
	Year      int                 `json:"year"`
	Month     int                 `json:"month"`
	MonthName string              `json:"month_name"`
	Days      []jalali.Day        `json:"days"`
	Rows      []grid.AdminRow     `json:"rows"`
	Bases     []BaseResponse      `json:"bases"`
	Shifts    []WorkShiftResponse `json:"shifts"`
}

// ── 管理员汇总 ──

// LogSummaryItem 单个日志的汇总
type LogSummaryItem struct {
	LogID               string  `json:"log_id"`
	UserID              string  `json:"user_id"`
	UserName            string  `json:"user_name"`
	BaseID              string  `json:"base_id"`
	BaseName            string  `json:"base_name"`
	BaseNumber          string  `json:"base_number"`
	Status              string  `json:"status"`
	SubmittedAt         *string `json:"submitted_at,omitempty"`
	PersonnelCount      int     `json:"personnel_count"`
	TotalMissions       int     `json:"total_missions"`
	TotalMeals          int     `json:"total_meals"`
	TotalAssignedShifts int     `json:"total_assigned_shifts"`
	TotalHours          int     `json:"total_hours"`
	AverageHours        string  `json:"average_hours"` // 每人平均工时，保留两位小数
}

// PerformanceSummaryResponse 某期间所有日志的汇总
type PerformanceSummaryResponse struct {
	Year          int              `json:"year"`
	Month         int              `json:"month"`
	TotalLogs     int              `json:"total_logs"`
	FinalizedLogs int              `json:"finalized_logs"`
	TotalMissions int              `json:"total_missions"`
	TotalMeals    int              `json:"total_meals"`
	TotalHours    int              `json:"total_hours"`
	Logs          []LogSummaryItem `json:"logs"`
}
