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

// ── 班次模块业务错误 ──

var (
	ErrShiftNotFound   = errors.New("班次不存在")
	ErrShiftCodeExists = errors.New("班次代码已存在")
)

// WorkShiftService 班次业务接口
type WorkShiftService interface {
	Create(ctx context.Context, req *dto.CreateWorkShiftRequest, callerID string) (*dto.WorkShiftResponse, error)
	GetByID(ctx context.Context, id string) (*dto.WorkShiftResponse, error)
	List(ctx context.Context) ([]dto.WorkShiftResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateWorkShiftRequest, callerID string) (*dto.WorkShiftResponse, error)
	Delete(ctx context.Context, id string, callerID string) error
}

type workShiftService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewWorkShiftService 创建 WorkShiftService 实例
func NewWorkShiftService(repo *repository.Repository, logger *zap.Logger) WorkShiftService {
	return &workShiftService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *workShiftService) Create(ctx context.Context, req *dto.CreateWorkShiftRequest, callerID string) (*dto.WorkShiftResponse, error) {
	if req.EquivalentHours < 0 {
		return nil, ErrInvalidInput
	}
	if err := s.ensureCodeFree(ctx, req.ShiftCode, ""); err != nil {
		return nil, err
	}

	shift := &model.WorkShift{
		Title:           req.Title,
		EquivalentHours: req.EquivalentHours,
		ShiftCode:       req.ShiftCode,
	}
	shift.StampCreated(callerID)

	if err := s.repo.WorkShift.Create(ctx, shift); err != nil {
		s.logger.Error("创建班次失败", zap.Error(err))
		return nil, err
	}
	return toWorkShiftResponse(shift), nil
}

// ────────────────────── GetByID ──────────────────────

func (s *workShiftService) GetByID(ctx context.Context, id string) (*dto.WorkShiftResponse, error) {
	shift, err := s.repo.WorkShift.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrShiftNotFound
		}
		s.logger.Error("查询班次失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return toWorkShiftResponse(shift), nil
}

// ────────────────────── List ──────────────────────

func (s *workShiftService) List(ctx context.Context) ([]dto.WorkShiftResponse, error) {
	shifts, err := s.repo.WorkShift.List(ctx)
	if err != nil {
		s.logger.Error("列出班次失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.WorkShiftResponse, 0, len(shifts))
	for i := range shifts {
		result = append(result, *toWorkShiftResponse(&shifts[i]))
	}
	return result, nil
}

// ────────────────────── Update ──────────────────────

func (s *workShiftService) Update(ctx context.Context, id string, req *dto.UpdateWorkShiftRequest, callerID string) (*dto.WorkShiftResponse, error) {
	shift, err := s.repo.WorkShift.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrShiftNotFound
		}
		s.logger.Error("查询班次失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	if req.ShiftCode != nil && *req.ShiftCode != shift.ShiftCode {
		if err := s.ensureCodeFree(ctx, *req.ShiftCode, id); err != nil {
			return nil, err
		}
		shift.ShiftCode = *req.ShiftCode
	}
	if req.Title != nil {
		shift.Title = *req.Title
	}
	if req.EquivalentHours != nil {
		if *req.EquivalentHours < 0 {
			return nil, ErrInvalidInput
		}
		shift.EquivalentHours = *req.EquivalentHours
	}
	shift.StampUpdated(callerID)

	if err := s.repo.WorkShift.Update(ctx, shift); err != nil {
		s.logger.Error("更新班次失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return toWorkShiftResponse(shift), nil
}

// ────────────────────── Delete ──────────────────────

func (s *workShiftService) Delete(ctx context.Context, id string, callerID string) error {
	if _, err := s.repo.WorkShift.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrShiftNotFound
		}
		s.logger.Error("查询班次失败", zap.String("id", id), zap.Error(err))
		return err
	}

	if err := s.repo.WorkShift.Delete(ctx, id, callerID); err != nil {
		s.logger.Error("删除班次失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

// ensureCodeFree 班次代码唯一性检查，selfID 为正在更新的班次
func (s *workShiftService) ensureCodeFree(ctx context.Context, code, selfID string) error {
	existing, err := s.repo.WorkShift.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		s.logger.Error("查询班次代码失败", zap.Error(err))
		return err
	}
	if existing.WorkShiftID != selfID {
		return ErrShiftCodeExists
	}
	return nil
}
