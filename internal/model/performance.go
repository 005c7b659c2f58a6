package model

import "time"

// 绩效日志状态
const (
	LogStatusDraft     = "draft"
	LogStatusFinalized = "finalized"
)

// 绩效条目类型
const (
	EntryTypeCell    = "cell"    // 单日班次
	EntryTypeBatch   = "batch"   // 多日批量班次
	EntryTypeSummary = "summary" // 整月任务/餐次汇总
)

// PerformanceLog 月度绩效日志，对应 performance_logs
// (user_id, year, month) 唯一；status 为 finalized 后日志及其条目不可再修改
type PerformanceLog struct {
	LogID       string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"log_id"`
	UserID      string     `gorm:"type:uuid;not null"                             json:"user_id"`
	BaseID      string     `gorm:"type:uuid;not null"                             json:"base_id"`
	Year        int        `gorm:"type:smallint;not null"                         json:"year"`
	Month       int        `gorm:"type:smallint;not null"                         json:"month"`
	Status      string     `gorm:"type:varchar(20);not null;default:'draft'"      json:"status"` // draft | finalized
	SubmittedAt *time.Time `json:"submitted_at,omitempty"`
	CreatedAt   time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
	UpdatedAt   time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"updated_at"`
	Version     int        `gorm:"not null;default:1"                             json:"version"`

	// 关联
	User *User `gorm:"foreignKey:UserID;references:UserID" json:"user,omitempty"`
	Base *Base `gorm:"foreignKey:BaseID;references:BaseID" json:"base,omitempty"`
}

// TableName 指定表名
func (PerformanceLog) TableName() string { return "performance_logs" }

// IsFinalized 是否已定稿
func (l *PerformanceLog) IsFinalized() bool {
	return l.Status == LogStatusFinalized
}

// PerformanceEntry 绩效条目，对应 performance_entries，归属唯一的 PerformanceLog
type PerformanceEntry struct {
	EntryID        string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"entry_id"`
	LogID          string     `gorm:"type:uuid;not null"                             json:"log_id"`
	UserID         string     `gorm:"type:uuid;not null"                             json:"user_id"`
	PersonnelID    string     `gorm:"type:uuid;not null"                             json:"personnel_id"`
	ShiftID        *string    `gorm:"type:uuid"                                      json:"shift_id,omitempty"`
	Date           *string    `gorm:"type:varchar(10)"                               json:"date,omitempty"` // 汇总条目为空
	Year           int        `gorm:"type:smallint;not null"                         json:"year"`
	Month          int        `gorm:"type:smallint;not null"                         json:"month"`
	Day            *int       `gorm:"type:smallint"                                  json:"day,omitempty"`
	EntryType      string     `gorm:"type:varchar(10);not null;default:'cell'"       json:"entry_type"`
	Missions       int        `gorm:"not null;default:0"                             json:"missions"`
	Meals          int        `gorm:"not null;default:0"                             json:"meals"`
	LastModifiedBy *string    `gorm:"type:uuid"                                      json:"last_modified_by,omitempty"`
	IsFinalized    bool       `gorm:"not null;default:false"                         json:"is_finalized"` // 冗余缓存，以日志状态为准
	FinalizedAt    *time.Time `json:"finalized_at,omitempty"`
	CreatedAt      time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
	UpdatedAt      time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"updated_at"`

	// 关联
	Personnel *Personnel `gorm:"foreignKey:PersonnelID;references:PersonnelID" json:"personnel,omitempty"`
	Shift     *WorkShift `gorm:"foreignKey:ShiftID;references:WorkShiftID"    json:"shift,omitempty"`
}

// TableName 指定表名
func (PerformanceEntry) TableName() string { return "performance_entries" }

// PerformanceAssignment 管理员排班，对应 performance_assignments
// (log_id, personnel_id, date) 唯一；自身无定稿状态，受关联日志约束
type PerformanceAssignment struct {
	AssignmentID string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"assignment_id"`
	LogID        *string `gorm:"type:uuid"                                      json:"log_id,omitempty"`
	PersonnelID  string  `gorm:"type:uuid;not null"                             json:"personnel_id"`
	BaseID       string  `gorm:"type:uuid;not null"                             json:"base_id"`
	ShiftID      string  `gorm:"type:uuid;not null"                             json:"shift_id"`
	Date         string  `gorm:"type:varchar(10);not null"                      json:"date"`
	Year         int     `gorm:"type:smallint;not null"                         json:"year"`
	Month        int     `gorm:"type:smallint;not null"                         json:"month"`
	Day          int     `gorm:"type:smallint;not null"                         json:"day"`
	BaseModel
}

// TableName 指定表名
func (PerformanceAssignment) TableName() string { return "performance_assignments" }
