package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"rescue-roster/internal/dto"
	"rescue-roster/internal/model"
	"rescue-roster/internal/repository"
)

// ── 基地模块业务错误 ──

var (
	ErrBaseNotFound     = errors.New("基地不存在")
	ErrBaseNumberExists = errors.New("基地编号已存在")
)

// BaseService 基地业务接口
type BaseService interface {
	Create(ctx context.Context, req *dto.CreateBaseRequest, callerID string) (*dto.BaseResponse, error)
	GetByID(ctx context.Context, id string) (*dto.BaseResponse, error)
	List(ctx context.Context) ([]dto.BaseResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateBaseRequest, callerID string) (*dto.BaseResponse, error)
	Delete(ctx context.Context, id string, callerID string) error
}

type baseService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewBaseService 创建 BaseService 实例
func NewBaseService(repo *repository.Repository, logger *zap.Logger) BaseService {
	return &baseService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *baseService) Create(ctx context.Context, req *dto.CreateBaseRequest, callerID string) (*dto.BaseResponse, error) {
	// 检查编号唯一性
	existing, err := s.repo.Base.GetByNumber(ctx, req.Number)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询基地失败", zap.Error(err))
		return nil, err
	}
	if existing != nil {
		return nil, ErrBaseNumberExists
	}

	base := &model.Base{
		Name:   req.Name,
		Number: req.Number,
		Type:   req.Type,
	}
	base.StampCreated(callerID)

	if err := s.repo.Base.Create(ctx, base); err != nil {
		s.logger.Error("创建基地失败", zap.Error(err))
		return nil, err
	}
	return toBaseResponse(base), nil
}

// ────────────────────── GetByID ──────────────────────

func (s *baseService) GetByID(ctx context.Context, id string) (*dto.BaseResponse, error) {
	base, err := s.repo.Base.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBaseNotFound
		}
		s.logger.Error("查询基地失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return toBaseResponse(base), nil
}

// ────────────────────── List ──────────────────────

func (s *baseService) List(ctx context.Context) ([]dto.BaseResponse, error) {
	bases, err := s.repo.Base.List(ctx)
	if err != nil {
		s.logger.Error("列出基地失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.BaseResponse, 0, len(bases))
	for i := range bases {
		result = append(result, *toBaseResponse(&bases[i]))
	}
	return result, nil
}

// ────────────────────── Update ──────────────────────

func (s *baseService) Update(ctx context.Context, id string, req *dto.UpdateBaseRequest, callerID string) (*dto.BaseResponse, error) {
	base, err := s.repo.Base.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBaseNotFound
		}
		s.logger.Error("查询基地失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	if req.Number != nil && *req.Number != base.Number {
		existing, err := s.repo.Base.GetByNumber(ctx, *req.Number)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Error("查询基地失败", zap.Error(err))
			return nil, err
		}
		if existing != nil && existing.BaseID != id {
			return nil, ErrBaseNumberExists
		}
		base.Number = *req.Number
	}
	if req.Name != nil {
		base.Name = *req.Name
	}
	if req.Type != nil {
		base.Type = *req.Type
	}
	base.StampUpdated(callerID)

	if err := s.repo.Base.Update(ctx, base); err != nil {
		s.logger.Error("更新基地失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return toBaseResponse(base), nil
}

// ────────────────────── Delete ──────────────────────

func (s *baseService) Delete(ctx context.Context, id string, callerID string) error {
	if _, err := s.repo.Base.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBaseNotFound
		}
		s.logger.Error("查询基地失败", zap.String("id", id), zap.Error(err))
		return err
	}

	if err := s.repo.Base.Delete(ctx, id, callerID); err != nil {
		s.logger.Error("删除基地失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}
