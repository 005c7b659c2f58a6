package model

// WorkShift 班次表，对应 work_shifts
type WorkShift struct {
	WorkShiftID     string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"work_shift_id"`
	Title           string `gorm:"type:varchar(100);not null"                     json:"title"`
	EquivalentHours int    `gorm:"not null;default:0"                             json:"equivalent_hours"`
	ShiftCode       string `gorm:"type:varchar(20);not null"                      json:"shift_code"`
	SoftDeleteModel
}

// TableName 指定表名
func (WorkShift) TableName() string { return "work_shifts" }
