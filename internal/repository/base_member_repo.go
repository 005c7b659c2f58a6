package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"rescue-roster/internal/model"
)

// BaseProfileRepository 负责人基地档案数据访问接口
type BaseProfileRepository interface {
	GetByUserID(ctx context.Context, userID string) (*model.BaseProfile, error)
	Upsert(ctx context.Context, profile *model.BaseProfile) error
}

// BaseMemberRepository 基地成员数据访问接口
type BaseMemberRepository interface {
	Create(ctx context.Context, member *model.BaseMember) error
	Exists(ctx context.Context, userID, personnelID string) (bool, error)
	ListByUser(ctx context.Context, userID string) ([]model.BaseMember, error)
	Delete(ctx context.Context, userID, personnelID string) (bool, error)
}

// ── BaseProfile Repository 实现 ──

type baseProfileRepo struct {
	db *gorm.DB
}

// NewBaseProfileRepo 创建 BaseProfileRepository 实例
func NewBaseProfileRepo(db *gorm.DB) BaseProfileRepository {
	return &baseProfileRepo{db: db}
}

func (r *baseProfileRepo) GetByUserID(ctx context.Context, userID string) (*model.BaseProfile, error) {
	var profile model.BaseProfile
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&profile).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *baseProfileRepo) Upsert(ctx context.Context, profile *model.BaseProfile) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"base_id", "base_name", "base_number", "base_type", "updated_at"}),
		}).
		Create(profile).Error
}

// ── BaseMember Repository 实现 ──

type baseMemberRepo struct {
	db *gorm.DB
}

// NewBaseMemberRepo 创建 BaseMemberRepository 实例
func NewBaseMemberRepo(db *gorm.DB) BaseMemberRepository {
	return &baseMemberRepo{db: db}
}

func (r *baseMemberRepo) Create(ctx context.Context, member *model.BaseMember) error {
	return r.db.WithContext(ctx).Create(member).Error
}

func (r *baseMemberRepo) Exists(ctx context.Context, userID, personnelID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.BaseMember{}).
		Where("user_id = ? AND personnel_id = ?", userID, personnelID).
		Count(&count).Error
	return count > 0, err
}

func (r *baseMemberRepo) ListByUser(ctx context.Context, userID string) ([]model.BaseMember, error) {
	var members []model.BaseMember
	err := r.db.WithContext(ctx).
		Preload("Personnel").
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&members).Error
	return members, err
}

func (r *baseMemberRepo) Delete(ctx context.Context, userID, personnelID string) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND personnel_id = ?", userID, personnelID).
		Delete(&model.BaseMember{})
	return result.RowsAffected > 0, result.Error
}
