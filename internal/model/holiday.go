package model

import "time"

// IranHoliday 节假日参考表，对应 iran_holidays（仅用于展示高亮）
type IranHoliday struct {
	HolidayID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"holiday_id"`
	Year      int       `gorm:"type:smallint;not null"                         json:"year"`
	Month     int       `gorm:"type:smallint;not null"                         json:"month"`
	Day       int       `gorm:"type:smallint;not null"                         json:"day"`
	Title     string    `gorm:"type:varchar(200);not null"                     json:"title"`
	IsHoliday bool      `gorm:"not null;default:true"                          json:"is_holiday"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
}

// TableName 指定表名
func (IranHoliday) TableName() string { return "iran_holidays" }
