package model

import "time"

// 基地类型
const (
	BaseTypeUrban = "urban"
	BaseTypeRoad  = "road"
)

// Base 急救基地表，对应 bases
type Base struct {
	BaseID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"base_id"`
	Name   string `gorm:"type:varchar(100);not null"                     json:"name"`
	Number string `gorm:"type:varchar(20);not null"                      json:"number"`
	Type   string `gorm:"type:varchar(10);not null"                      json:"type"` // urban | road
	SoftDeleteModel
}

// TableName 指定表名
func (Base) TableName() string { return "bases" }

// BaseProfile 负责人基地档案，对应 base_profiles
type BaseProfile struct {
	UserID     string    `gorm:"type:uuid;primaryKey"               json:"user_id"`
	BaseID     *string   `gorm:"type:uuid"                          json:"base_id,omitempty"`
	BaseName   string    `gorm:"type:varchar(100);not null"         json:"base_name"`
	BaseNumber string    `gorm:"type:varchar(20);not null"          json:"base_number"`
	BaseType   string    `gorm:"type:varchar(10);not null"          json:"base_type"`
	CreatedAt  time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt  time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName 指定表名
func (BaseProfile) TableName() string { return "base_profiles" }

// IsComplete 档案完整（可自动创建绩效日志）
func (p *BaseProfile) IsComplete() bool {
	return p.BaseID != nil && *p.BaseID != "" &&
		p.BaseName != "" && p.BaseNumber != "" && p.BaseType != ""
}

// BaseMember 基地成员，对应 base_members，(user_id, personnel_id) 唯一
type BaseMember struct {
	BaseMemberID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"base_member_id"`
	UserID       string    `gorm:"type:uuid;not null"                             json:"user_id"`
	PersonnelID  string    `gorm:"type:uuid;not null"                             json:"personnel_id"`
	CreatedAt    time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`

	// 关联
	Personnel *Personnel `gorm:"foreignKey:PersonnelID;references:PersonnelID" json:"personnel,omitempty"`
}

// TableName 指定表名
func (BaseMember) TableName() string { return "base_members" }
