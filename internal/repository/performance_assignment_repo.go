package repository

import (
	"context"

	"gorm.io/gorm"

	"rescue-roster/internal/model"
)

// PerformanceAssignmentRepository 管理员排班数据访问接口
type PerformanceAssignmentRepository interface {
	Create(ctx context.Context, a *model.PerformanceAssignment) error
	GetByID(ctx context.Context, id string) (*model.PerformanceAssignment, error)
	// GetByKey 按 (log_id, personnel_id, date) 查找，logID 为 nil 表示未关联日志
	GetByKey(ctx context.Context, logID *string, personnelID, date string) (*model.PerformanceAssignment, error)
	ListByPeriod(ctx context.Context, year, month int) ([]model.PerformanceAssignment, error)
	Update(ctx context.Context, a *model.PerformanceAssignment) error
	Delete(ctx context.Context, id string) error
}

type performanceAssignmentRepo struct {
	db *gorm.DB
}

// NewPerformanceAssignmentRepo 创建 PerformanceAssignmentRepository 实例
func NewPerformanceAssignmentRepo(db *gorm.DB) PerformanceAssignmentRepository {
	return &performanceAssignmentRepo{db: db}
}

func (r *performanceAssignmentRepo) Create(ctx context.Context, a *model.PerformanceAssignment) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *performanceAssignmentRepo) GetByID(ctx context.Context, id string) (*model.PerformanceAssignment, error) {
	var a model.PerformanceAssignment
	err := r.db.WithContext(ctx).
		Where("assignment_id = ?", id).
		First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *performanceAssignmentRepo) GetByKey(ctx context.Context, logID *string, personnelID, date string) (*model.PerformanceAssignment, error) {
	var a model.PerformanceAssignment
	db := r.db.WithContext(ctx).Where("personnel_id = ? AND date = ?", personnelID, date)
	if logID == nil {
		db = db.Where("log_id IS NULL")
	} else {
		db = db.Where("log_id = ?", *logID)
	}
	if err := db.First(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *performanceAssignmentRepo) ListByPeriod(ctx context.Context, year, month int) ([]model.PerformanceAssignment, error) {
	var list []model.PerformanceAssignment
	err := r.db.WithContext(ctx).
		Where("year = ? AND month = ?", year, month).
		Order("date ASC").
		Find(&list).Error
	return list, err
}

func (r *performanceAssignmentRepo) Update(ctx context.Context, a *model.PerformanceAssignment) error {
	return r.db.WithContext(ctx).
		Model(&model.PerformanceAssignment{}).
		Where("assignment_id = ?", a.AssignmentID).
		Updates(map[string]interface{}{
			"base_id":    a.BaseID,
			"shift_id":   a.ShiftID,
			"updated_by": a.UpdatedBy,
			"updated_at": gorm.Expr("NOW()"),
		}).Error
}

func (r *performanceAssignmentRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("assignment_id = ?", id).
		Delete(&model.PerformanceAssignment{}).Error
}
