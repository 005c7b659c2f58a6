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

// ── 人员模块业务错误 ──

var (
	ErrPersonnelNotFound = errors.New("人员不存在")
	ErrNationalIDExists  = errors.New("身份证号已存在")
)

// PersonnelService 人员业务接口
type PersonnelService interface {
	Create(ctx context.Context, req *dto.CreatePersonnelRequest, callerID string) (*dto.PersonnelResponse, error)
	GetByID(ctx context.Context, id string) (*dto.PersonnelResponse, error)
	List(ctx context.Context, req *dto.PersonnelListRequest) ([]dto.PersonnelResponse, int64, error)
	Update(ctx context.Context, id string, req *dto.UpdatePersonnelRequest, callerID string) (*dto.PersonnelResponse, error)
	Delete(ctx context.Context, id string, callerID string) error
}

type personnelService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewPersonnelService 创建 PersonnelService 实例
func NewPersonnelService(repo *repository.Repository, logger *zap.Logger) PersonnelService {
	return &personnelService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *personnelService) Create(ctx context.Context, req *dto.CreatePersonnelRequest, callerID string) (*dto.PersonnelResponse, error) {
	if err := s.ensureNationalIDFree(ctx, req.NationalID, ""); err != nil {
		return nil, err
	}

	p := &model.Personnel{
		FirstName:          req.FirstName,
		LastName:           req.LastName,
		NationalID:         req.NationalID,
		EmploymentStatus:   req.EmploymentStatus,
		ProductivityStatus: req.ProductivityStatus,
		DriverStatus:       req.DriverStatus,
	}
	p.StampCreated(callerID)

	if err := s.repo.Personnel.Create(ctx, p); err != nil {
		s.logger.Error("创建人员失败", zap.Error(err))
		return nil, err
	}
	return toPersonnelResponse(p), nil
}

// ────────────────────── GetByID ──────────────────────

func (s *personnelService) GetByID(ctx context.Context, id string) (*dto.PersonnelResponse, error) {
	p, err := s.repo.Personnel.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPersonnelNotFound
		}
		s.logger.Error("查询人员失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return toPersonnelResponse(p), nil
}

// ────────────────────── List ──────────────────────

func (s *personnelService) List(ctx context.Context, req *dto.PersonnelListRequest) ([]dto.PersonnelResponse, int64, error) {
	list, total, err := s.repo.Personnel.List(ctx, req.Keyword, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("列出人员失败", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.PersonnelResponse, 0, len(list))
	for i := range list {
		result = append(result, *toPersonnelResponse(&list[i]))
	}
	return result, total, nil
}

// ────────────────────── Update ──────────────────────

func (s *personnelService) Update(ctx context.Context, id string, req *dto.UpdatePersonnelRequest, callerID string) (*dto.PersonnelResponse, error) {
	p, err := s.repo.Personnel.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPersonnelNotFound
		}
		s.logger.Error("查询人员失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	if req.NationalID != nil && *req.NationalID != p.NationalID {
		if err := s.ensureNationalIDFree(ctx, *req.NationalID, id); err != nil {
			return nil, err
		}
		p.NationalID = *req.NationalID
	}
	if req.FirstName != nil {
		p.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		p.LastName = *req.LastName
	}
	if req.EmploymentStatus != nil {
		p.EmploymentStatus = *req.EmploymentStatus
	}
	if req.ProductivityStatus != nil {
		p.ProductivityStatus = *req.ProductivityStatus
	}
	if req.DriverStatus != nil {
		p.DriverStatus = *req.DriverStatus
	}
	p.StampUpdated(callerID)

	if err := s.repo.Personnel.Update(ctx, p); err != nil {
		s.logger.Error("更新人员失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return toPersonnelResponse(p), nil
}

// ────────────────────── Delete ──────────────────────

func (s *personnelService) Delete(ctx context.Context, id string, callerID string) error {
	if _, err := s.repo.Personnel.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPersonnelNotFound
		}
		s.logger.Error("查询人员失败", zap.String("id", id), zap.Error(err))
		return err
	}

	if err := s.repo.Personnel.Delete(ctx, id, callerID); err != nil {
		s.logger.Error("删除人员失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

func (s *personnelService) ensureNationalIDFree(ctx context.Context, nationalID, selfID string) error {
	existing, err := s.repo.Personnel.GetByNationalID(ctx, nationalID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		s.logger.Error("查询身份证号失败", zap.Error(err))
		return err
	}
	if existing.PersonnelID != selfID {
		return ErrNationalIDExists
	}
	return nil
}
