package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"rescue-roster/internal/model"
)

// PerformanceEntryRepository 绩效条目数据访问接口
type PerformanceEntryRepository interface {
	Create(ctx context.Context, entry *model.PerformanceEntry) error
	GetByID(ctx context.Context, id string) (*model.PerformanceEntry, error)
	ListByLog(ctx context.Context, logID string) ([]model.PerformanceEntry, error)
	ListByLogIDs(ctx context.Context, logIDs []string) ([]model.PerformanceEntry, error)
	// ListByUser year/month 为 nil 时不按期间过滤
	ListByUser(ctx context.Context, userID string, year, month *int) ([]model.PerformanceEntry, error)
	Update(ctx context.Context, entry *model.PerformanceEntry) error
	Delete(ctx context.Context, id string) (bool, error)
	// MarkFinalizedByLog 日志定稿时同步刷新条目上的冗余标记
	MarkFinalizedByLog(ctx context.Context, logID string, at time.Time) error
}

type performanceEntryRepo struct {
	db *gorm.DB
}

// NewPerformanceEntryRepo 创建 PerformanceEntryRepository 实例
func NewPerformanceEntryRepo(db *gorm.DB) PerformanceEntryRepository {
	return &performanceEntryRepo{db: db}
}

func (r *performanceEntryRepo) Create(ctx context.Context, entry *model.PerformanceEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *performanceEntryRepo) GetByID(ctx context.Context, id string) (*model.PerformanceEntry, error) {
	var entry model.PerformanceEntry
	err := r.db.WithContext(ctx).
		Where("entry_id = ?", id).
		First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *performanceEntryRepo) ListByLog(ctx context.Context, logID string) ([]model.PerformanceEntry, error) {
	var entries []model.PerformanceEntry
	err := r.db.WithContext(ctx).
		Preload("Shift").
		Where("log_id = ?", logID).
		Order("date ASC NULLS LAST, created_at ASC").
		Find(&entries).Error
	return entries, err
}

func (r *performanceEntryRepo) ListByLogIDs(ctx context.Context, logIDs []string) ([]model.PerformanceEntry, error) {
	var entries []model.PerformanceEntry
	if len(logIDs) == 0 {
		return entries, nil
	}
	err := r.db.WithContext(ctx).
		Preload("Shift").
		Where("log_id IN ?", logIDs).
		Find(&entries).Error
	return entries, err
}

func (r *performanceEntryRepo) ListByUser(ctx context.Context, userID string, year, month *int) ([]model.PerformanceEntry, error) {
	var entries []model.PerformanceEntry
	db := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if year != nil {
		db = db.Where("year = ?", *year)
	}
	if month != nil {
		db = db.Where("month = ?", *month)
	}
	err := db.Order("year DESC, month DESC, date ASC NULLS LAST").Find(&entries).Error
	return entries, err
}

func (r *performanceEntryRepo) Update(ctx context.Context, entry *model.PerformanceEntry) error {
	entry.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).
		Model(&model.PerformanceEntry{}).
		Where("entry_id = ?", entry.EntryID).
		Updates(map[string]interface{}{
			"shift_id":         entry.ShiftID,
			"date":             entry.Date,
			"day":              entry.Day,
			"entry_type":       entry.EntryType,
			"missions":         entry.Missions,
			"meals":            entry.Meals,
			"last_modified_by": entry.LastModifiedBy,
			"updated_at":       entry.UpdatedAt,
		}).Error
}

func (r *performanceEntryRepo) Delete(ctx context.Context, id string) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("entry_id = ?", id).
		Delete(&model.PerformanceEntry{})
	return result.RowsAffected > 0, result.Error
}

func (r *performanceEntryRepo) MarkFinalizedByLog(ctx context.Context, logID string, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&model.PerformanceEntry{}).
		Where("log_id = ?", logID).
		Updates(map[string]interface{}{
			"is_finalized": true,
			"finalized_at": at,
		}).Error
}
