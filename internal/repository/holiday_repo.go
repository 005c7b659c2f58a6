package repository

import (
	"context"

	"gorm.io/gorm"

	"rescue-roster/internal/model"
)

// HolidayRepository 节假日数据访问接口
type HolidayRepository interface {
	Create(ctx context.Context, h *model.IranHoliday) error
	GetByID(ctx context.Context, id string) (*model.IranHoliday, error)
	ListByMonth(ctx context.Context, year, month int) ([]model.IranHoliday, error)
	Delete(ctx context.Context, id string) error
}

type holidayRepo struct {
	db *gorm.DB
}

// NewHolidayRepo 创建 HolidayRepository 实例
func NewHolidayRepo(db *gorm.DB) HolidayRepository {
	return &holidayRepo{db: db}
}

func (r *holidayRepo) Create(ctx context.Context, h *model.IranHoliday) error {
	return r.db.WithContext(ctx).Create(h).Error
}

func (r *holidayRepo) GetByID(ctx context.Context, id string) (*model.IranHoliday, error) {
	var h model.IranHoliday
	err := r.db.WithContext(ctx).
		Where("holiday_id = ?", id).
		First(&h).Error
	if err != nil {
		return nil, err
	}
	return &h, nil
}

func (r *holidayRepo) ListByMonth(ctx context.Context, year, month int) ([]model.IranHoliday, error) {
	var list []model.IranHoliday
	err := r.db.WithContext(ctx).
		Where("year = ? AND month = ?", year, month).
		Order("day ASC").
		Find(&list).Error
	return list, err
}

func (r *holidayRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("holiday_id = ?", id).
		Delete(&model.IranHoliday{}).Error
}
