package repository

import (
	"context"

	"gorm.io/gorm"

	"rescue-roster/internal/model"
)

// PersonnelRepository 人员数据访问接口
type PersonnelRepository interface {
	Create(ctx context.Context, p *model.Personnel) error
	GetByID(ctx context.Context, id string) (*model.Personnel, error)
	GetByNationalID(ctx context.Context, nationalID string) (*model.Personnel, error)
	List(ctx context.Context, keyword string, offset, limit int) ([]model.Personnel, int64, error)
	ListAll(ctx context.Context) ([]model.Personnel, error)
	ListByIDs(ctx context.Context, ids []string) ([]model.Personnel, error)
	Update(ctx context.Context, p *model.Personnel) error
	Delete(ctx context.Context, id string, deletedBy string) error
}

type personnelRepo struct {
	db *gorm.DB
}

// NewPersonnelRepo 创建 PersonnelRepository 实例
func NewPersonnelRepo(db *gorm.DB) PersonnelRepository {
	return &personnelRepo{db: db}
}

func (r *personnelRepo) Create(ctx context.Context, p *model.Personnel) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *personnelRepo) GetByID(ctx context.Context, id string) (*model.Personnel, error) {
	var p model.Personnel
	err := r.db.WithContext(ctx).
		Where("personnel_id = ?", id).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *personnelRepo) GetByNationalID(ctx context.Context, nationalID string) (*model.Personnel, error) {
	var p model.Personnel
	err := r.db.WithContext(ctx).
		Where("national_id = ?", nationalID).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *personnelRepo) List(ctx context.Context, keyword string, offset, limit int) ([]model.Personnel, int64, error) {
	var list []model.Personnel
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Personnel{})
	if keyword != "" {
		like := "%" + keyword + "%"
		db = db.Where("first_name ILIKE ? OR last_name ILIKE ? OR national_id LIKE ?", like, like, like)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Offset(offset).Limit(limit).
		Order("last_name ASC, first_name ASC").
		Find(&list).Error
	return list, total, err
}

func (r *personnelRepo) ListAll(ctx context.Context) ([]model.Personnel, error) {
	var list []model.Personnel
	err := r.db.WithContext(ctx).
		Order("last_name ASC, first_name ASC").
		Find(&list).Error
	return list, err
}

func (r *personnelRepo) ListByIDs(ctx context.Context, ids []string) ([]model.Personnel, error) {
	var list []model.Personnel
	if len(ids) == 0 {
		return list, nil
	}
	err := r.db.WithContext(ctx).
		Where("personnel_id IN ?", ids).
		Order("last_name ASC, first_name ASC").
		Find(&list).Error
	return list, err
}

func (r *personnelRepo) Update(ctx context.Context, p *model.Personnel) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *personnelRepo) Delete(ctx context.Context, id string, deletedBy string) error {
	return r.db.WithContext(ctx).
		Model(&model.Personnel{}).
		Where("personnel_id = ?", id).
		Updates(map[string]interface{}{
			"deleted_by": deletedBy,
			"deleted_at": gorm.Expr("NOW()"),
		}).Error
}
