package repository

import (
	"context"

	"gorm.io/gorm"

	"rescue-roster/internal/model"
)

// WorkShiftRepository 班次数据访问接口
type WorkShiftRepository interface {
	Create(ctx context.Context, shift *model.WorkShift) error
	GetByID(ctx context.Context, id string) (*model.WorkShift, error)
	GetByCode(ctx context.Context, code string) (*model.WorkShift, error)
	List(ctx context.Context) ([]model.WorkShift, error)
	ListByIDs(ctx context.Context, ids []string) ([]model.WorkShift, error)
	Update(ctx context.Context, shift *model.WorkShift) error
	Delete(ctx context.Context, id string, deletedBy string) error
}

type workShiftRepo struct {
	db *gorm.DB
}

// NewWorkShiftRepo 创建 WorkShiftRepository 实例
func NewWorkShiftRepo(db *gorm.DB) WorkShiftRepository {
	return &workShiftRepo{db: db}
}

func (r *workShiftRepo) Create(ctx context.Context, shift *model.WorkShift) error {
	return r.db.WithContext(ctx).Create(shift).Error
}

func (r *workShiftRepo) GetByID(ctx context.Context, id string) (*model.WorkShift, error) {
	var shift model.WorkShift
	err := r.db.WithContext(ctx).
		Where("work_shift_id = ?", id).
		First(&shift).Error
	if err != nil {
		return nil, err
	}
	return &shift, nil
}

func (r *workShiftRepo) GetByCode(ctx context.Context, code string) (*model.WorkShift, error) {
	var shift model.WorkShift
	err := r.db.WithContext(ctx).
		Where("shift_code = ?", code).
		First(&shift).Error
	if err != nil {
		return nil, err
	}
	return &shift, nil
}

func (r *workShiftRepo) List(ctx context.Context) ([]model.WorkShift, error) {
	var shifts []model.WorkShift
	err := r.db.WithContext(ctx).
		Order("shift_code ASC").
		Find(&shifts).Error
	return shifts, err
}

func (r *workShiftRepo) ListByIDs(ctx context.Context, ids []string) ([]model.WorkShift, error) {
	var shifts []model.WorkShift
	if len(ids) == 0 {
		return shifts, nil
	}
	err := r.db.WithContext(ctx).
		Where("work_shift_id IN ?", ids).
		Find(&shifts).Error
	return shifts, err
}

func (r *workShiftRepo) Update(ctx context.Context, shift *model.WorkShift) error {
	return r.db.WithContext(ctx).Save(shift).Error
}

func (r *workShiftRepo) Delete(ctx context.Context, id string, deletedBy string) error {
	return r.db.WithContext(ctx).
		Model(&model.WorkShift{}).
		Where("work_shift_id = ?", id).
		Updates(map[string]interface{}{
			"deleted_by": deletedBy,
			"deleted_at": gorm.Expr("NOW()"),
		}).Error
}
