package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repository 所有 Repository 的聚合入口
type Repository struct {
	db *gorm.DB

	User                  UserRepository
	Base                  BaseRepository
	BaseProfile           BaseProfileRepository
	BaseMember            BaseMemberRepository
	Personnel             PersonnelRepository
	WorkShift             WorkShiftRepository
	PerformanceLog        PerformanceLogRepository
	PerformanceEntry      PerformanceEntryRepository
	PerformanceAssignment PerformanceAssignmentRepository
	Holiday               HolidayRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db:                    db,
		User:                  NewUserRepo(db),
		Base:                  NewBaseRepo(db),
		BaseProfile:           NewBaseProfileRepo(db),
		BaseMember:            NewBaseMemberRepo(db),
		Personnel:             NewPersonnelRepo(db),
		WorkShift:             NewWorkShiftRepo(db),
		PerformanceLog:        NewPerformanceLogRepo(db),
		PerformanceEntry:      NewPerformanceEntryRepo(db),
		PerformanceAssignment: NewPerformanceAssignmentRepo(db),
		Holiday:               NewHolidayRepo(db),
	}
}

// Transaction 在同一个数据库事务中执行 fn，fn 内必须使用传入的 txRepo。
// 未绑定数据库连接的聚合（单元测试中的 mock 聚合）直接在当前聚合上执行 fn。
func (r *Repository) Transaction(ctx context.Context, fn func(txRepo *Repository) error) error {
	if r.db == nil {
		return fn(r)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepository(tx))
	})
}
