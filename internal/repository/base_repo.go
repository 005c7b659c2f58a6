package repository

import (
	"context"

	"gorm.io/gorm"

	"rescue-roster/internal/model"
)

// BaseRepository 基地数据访问接口
type BaseRepository interface {
	Create(ctx context.Context, base *model.Base) error
	GetByID(ctx context.Context, id string) (*model.Base, error)
	GetByNumber(ctx context.Context, number string) (*model.Base, error)
	List(ctx context.Context) ([]model.Base, error)
	ListByIDs(ctx context.Context, ids []string) ([]model.Base, error)
	Update(ctx context.Context, base *model.Base) error
	Delete(ctx context.Context, id string, deletedBy string) error
}

// baseRepo BaseRepository 的 GORM 实现
type baseRepo struct {
	db *gorm.DB
}

// NewBaseRepo 创建 BaseRepository 实例
func NewBaseRepo(db *gorm.DB) BaseRepository {
	return &baseRepo{db: db}
}

func (r *baseRepo) Create(ctx context.Context, base *model.Base) error {
	return r.db.WithContext(ctx).Create(base).Error
}

func (r *baseRepo) GetByID(ctx context.Context, id string) (*model.Base, error) {
	var base model.Base
	err := r.db.WithContext(ctx).
		Where("base_id = ?", id).
		First(&base).Error
	if err != nil {
		return nil, err
	}
	return &base, nil
}

func (r *baseRepo) GetByNumber(ctx context.Context, number string) (*model.Base, error) {
	var base model.Base
	err := r.db.WithContext(ctx).
		Where("number = ?", number).
		First(&base).Error
	if err != nil {
		return nil, err
	}
	return &base, nil
}

func (r *baseRepo) List(ctx context.Context) ([]model.Base, error) {
	var bases []model.Base
	err := r.db.WithContext(ctx).
		Order("number ASC").
		Find(&bases).Error
	return bases, err
}

func (r *baseRepo) ListByIDs(ctx context.Context, ids []string) ([]model.Base, error) {
	var bases []model.Base
	if len(ids) == 0 {
		return bases, nil
	}
	err := r.db.WithContext(ctx).
		Where("base_id IN ?", ids).
		Find(&bases).Error
	return bases, err
}

func (r *baseRepo) Update(ctx context.Context, base *model.Base) error {
	return r.db.WithContext(ctx).Save(base).Error
}

func (r *baseRepo) Delete(ctx context.Context, id string, deletedBy string) error {
	return r.db.WithContext(ctx).
		Model(&model.Base{}).
		Where("base_id = ?", id).
		Updates(map[string]interface{}{
			"deleted_by": deletedBy,
			"deleted_at": gorm.Expr("NOW()"),
		}).Error
}
