package model

import (
	"time"

	"gorm.io/gorm"
)

// BaseModel 审计字段：创建 / 更新时间与操作人
type BaseModel struct {
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	CreatedBy *string   `gorm:"type:uuid"                          json:"created_by,omitempty"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
	UpdatedBy *string   `gorm:"type:uuid"                          json:"updated_by,omitempty"`
}

// StampCreated 新建记录时写入操作人，创建人同时是首个更新人
func (m *BaseModel) StampCreated(by string) {
	m.CreatedBy = &by
	m.UpdatedBy = &by
}

// StampUpdated 记录最近一次修改的操作人
func (m *BaseModel) StampUpdated(by string) {
	m.UpdatedBy = &by
}

// SoftDeleteModel 参考数据（基地、班次、人员）删除后仍需被历史条目引用，因此只做软删除
type SoftDeleteModel struct {
	BaseModel
	DeletedAt gorm.DeletedAt `gorm:"index"     json:"deleted_at,omitempty"`
	DeletedBy *string        `gorm:"type:uuid" json:"deleted_by,omitempty"`
}

// VersionedModel 带版本号的软删除模型
type VersionedModel struct {
	SoftDeleteModel
	Version int `gorm:"not null;default:1" json:"version"`
}
