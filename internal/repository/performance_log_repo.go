package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"rescue-roster/internal/model"
	pkgerrors "rescue-roster/pkg/errors"
)

// PerformanceLogRepository 月度绩效日志数据访问接口
type PerformanceLogRepository interface {
	Create(ctx context.Context, log *model.PerformanceLog) error
	GetByID(ctx context.Context, id string) (*model.PerformanceLog, error)
	// GetByIDForUpdate 在事务内对日志行加排他锁，串行化同一日志上的批量写入
	GetByIDForUpdate(ctx context.Context, id string) (*model.PerformanceLog, error)
	GetByPeriod(ctx context.Context, userID string, year, month int) (*model.PerformanceLog, error)
	ListByPeriod(ctx context.Context, year, month int) ([]model.PerformanceLog, error)
	ListByUser(ctx context.Context, userID string) ([]model.PerformanceLog, error)
	Update(ctx context.Context, log *model.PerformanceLog) error
	// MarkFinalized 仅当日志仍为 draft 时迁移为 finalized，否则返回 ErrStatusConflict
	MarkFinalized(ctx context.Context, id string, at time.Time) error
}

type performanceLogRepo struct {
	db *gorm.DB
}

// NewPerformanceLogRepo 创建 PerformanceLogRepository 实例
func NewPerformanceLogRepo(db *gorm.DB) PerformanceLogRepository {
	return &performanceLogRepo{db: db}
}

func (r *performanceLogRepo) Create(ctx context.Context, log *model.PerformanceLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

func (r *performanceLogRepo) GetByID(ctx context.Context, id string) (*model.PerformanceLog, error) {
	var log model.PerformanceLog
	err := r.db.WithContext(ctx).
		Where("log_id = ?", id).
		First(&log).Error
	if err != nil {
		return nil, err
	}
	return &log, nil
}

func (r *performanceLogRepo) GetByIDForUpdate(ctx context.Context, id string) (*model.PerformanceLog, error) {
	var log model.PerformanceLog
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("log_id = ?", id).
		First(&log).Error
	if err != nil {
		return nil, err
	}
	return &log, nil
}

func (r *performanceLogRepo) GetByPeriod(ctx context.Context, userID string, year, month int) (*model.PerformanceLog, error) {
	var log model.PerformanceLog
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND year = ? AND month = ?", userID, year, month).
		First(&log).Error
	if err != nil {
		return nil, err
	}
	return &log, nil
}

func (r *performanceLogRepo) ListByPeriod(ctx context.Context, year, month int) ([]model.PerformanceLog, error) {
	var logs []model.PerformanceLog
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Base").
		Where("year = ? AND month = ?", year, month).
		Order("created_at ASC").
		Find(&logs).Error
	return logs, err
}

func (r *performanceLogRepo) ListByUser(ctx context.Context, userID string) ([]model.PerformanceLog, error) {
	var logs []model.PerformanceLog
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("year DESC, month DESC").
		Find(&logs).Error
	return logs, err
}

// Update 乐观锁更新：仅写入可变字段，user_id / base_id / 期间不在更新范围内
func (r *performanceLogRepo) Update(ctx context.Context, log *model.PerformanceLog) error {
	oldVersion := log.Version
	now := time.Now()
	result := r.db.WithContext(ctx).
		Model(&model.PerformanceLog{}).
		Where("log_id = ? AND version = ? AND status = ?", log.LogID, oldVersion, model.LogStatusDraft).
		Updates(map[string]interface{}{
			"status":     log.Status,
			"updated_at": now,
			"version":    oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	log.Version = oldVersion + 1
	log.UpdatedAt = now
	return nil
}

func (r *performanceLogRepo) MarkFinalized(ctx context.Context, id string, at time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&model.PerformanceLog{}).
		Where("log_id = ? AND status = ?", id, model.LogStatusDraft).
		Updates(map[string]interface{}{
			"status":       model.LogStatusFinalized,
			"submitted_at": at,
			"updated_at":   at,
			"version":      gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrStatusConflict
	}
	return nil
}
