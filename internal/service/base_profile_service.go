package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"rescue-roster/internal/dto"
	"rescue-roster/internal/model"
	"rescue-roster/internal/repository"
)

// ── 基地档案/成员业务错误 ──

var (
	ErrProfileNotFound   = errors.New("尚未登记基地档案")
	ErrIncompleteProfile = errors.New("基地档案不完整，请先完善档案")
	ErrMemberExists      = errors.New("该人员已是基地成员")
	ErrMemberNotFound    = errors.New("基地成员不存在")
)

// guestNationalIDPrefix 访客人员的合成身份证号前缀
const guestNationalIDPrefix = "guest-"

// BaseProfileService 负责人基地档案与基地成员业务接口
type BaseProfileService interface {
	GetProfile(ctx context.Context, userID string) (*dto.BaseProfileResponse, error)
	SaveProfile(ctx context.Context, userID string, req *dto.BaseProfileRequest) (*dto.BaseProfileResponse, error)
	ListMembers(ctx context.Context, userID string) ([]dto.BaseMemberResponse, error)
	AddMember(ctx context.Context, userID string, req *dto.AddBaseMemberRequest) (*dto.BaseMemberResponse, error)
	AddGuest(ctx context.Context, userID string, req *dto.CreateGuestRequest) (*dto.BaseMemberResponse, error)
	RemoveMember(ctx context.Context, userID, personnelID string) error
}

type baseProfileService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewBaseProfileService 创建 BaseProfileService 实例
func NewBaseProfileService(repo *repository.Repository, logger *zap.Logger) BaseProfileService {
	return &baseProfileService{repo: repo, logger: logger}
}

// ════════════════════════════════════════════════════════════
// 基地档案
// ════════════════════════════════════════════════════════════

func (s *baseProfileService) GetProfile(ctx context.Context, userID string) (*dto.BaseProfileResponse, error) {
	profile, err := s.repo.BaseProfile.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		s.logger.Error("查询基地档案失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	return toProfileResponse(profile), nil
}

// SaveProfile 按编号解析基地（不存在则创建）并写入档案
func (s *baseProfileService) SaveProfile(ctx context.Context, userID string, req *dto.BaseProfileRequest) (*dto.BaseProfileResponse, error) {
	var saved *model.BaseProfile

	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		base, err := tx.Base.GetByNumber(ctx, req.BaseNumber)
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			base = &model.Base{
				Name:   req.BaseName,
				Number: req.BaseNumber,
				Type:   req.BaseType,
			}
			base.StampCreated(userID)
			if err := tx.Base.Create(ctx, base); err != nil {
				return err
			}
		}

		now := time.Now()
		saved = &model.BaseProfile{
			UserID:     userID,
			BaseID:     &base.BaseID,
			BaseName:   req.BaseName,
			BaseNumber: req.BaseNumber,
			BaseType:   req.BaseType,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		return tx.BaseProfile.Upsert(ctx, saved)
	})
	if err != nil {
		s.logger.Error("保存基地档案失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("基地档案已保存",
		zap.String("user_id", userID),
		zap.String("base_number", req.BaseNumber),
	)
	return toProfileResponse(saved), nil
}

// ════════════════════════════════════════════════════════════
// 基地成员
// ════════════════════════════════════════════════════════════

func (s *baseProfileService) ListMembers(ctx context.Context, userID string) ([]dto.BaseMemberResponse, error) {
	members, err := s.repo.BaseMember.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("查询基地成员失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	result := make([]dto.BaseMemberResponse, 0, len(members))
	for i := range members {
		result = append(result, *toMemberResponse(&members[i]))
	}
	return result, nil
}

func (s *baseProfileService) AddMember(ctx context.Context, userID string, req *dto.AddBaseMemberRequest) (*dto.BaseMemberResponse, error) {
	p, err := s.repo.Personnel.GetByID(ctx, req.PersonnelID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPersonnelNotFound
		}
		s.logger.Error("查询人员失败", zap.String("id", req.PersonnelID), zap.Error(err))
		return nil, err
	}

	exists, err := s.repo.BaseMember.Exists(ctx, userID, req.PersonnelID)
	if err != nil {
		s.logger.Error("查询基地成员失败", zap.Error(err))
		return nil, err
	}
	if exists {
		return nil, ErrMemberExists
	}

	member := &model.BaseMember{UserID: userID, PersonnelID: p.PersonnelID}
	if err := s.repo.BaseMember.Create(ctx, member); err != nil {
		s.logger.Error("添加基地成员失败", zap.Error(err))
		return nil, err
	}
	member.Personnel = p
	return toMemberResponse(member), nil
}

// AddGuest 创建访客人员（合同制、合成身份证号）并在同一事务中加入基地
func (s *baseProfileService) AddGuest(ctx context.Context, userID string, req *dto.CreateGuestRequest) (*dto.BaseMemberResponse, error) {
	productivity := req.ProductivityStatus
	if productivity == "" {
		productivity = model.ProductivityProductive
	}
	driver := req.DriverStatus
	if driver == "" {
		driver = model.DriverNo
	}

	guest := &model.Personnel{
		FirstName:          req.FirstName,
		LastName:           req.LastName,
		NationalID:         guestNationalIDPrefix + uuid.NewString(),
		EmploymentStatus:   model.EmploymentContractual,
		ProductivityStatus: productivity,
		DriverStatus:       driver,
		IsGuest:            true,
	}
	guest.StampCreated(userID)

	member := &model.BaseMember{UserID: userID}
	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := tx.Personnel.Create(ctx, guest); err != nil {
			return err
		}
		member.PersonnelID = guest.PersonnelID
		return tx.BaseMember.Create(ctx, member)
	})
	if err != nil {
		s.logger.Error("创建访客人员失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	member.Personnel = guest
	return toMemberResponse(member), nil
}

func (s *baseProfileService) RemoveMember(ctx context.Context, userID, personnelID string) error {
	removed, err := s.repo.BaseMember.Delete(ctx, userID, personnelID)
	if err != nil {
		s.logger.Error("移除基地成员失败", zap.String("personnel_id", personnelID), zap.Error(err))
		return err
	}
	if !removed {
		return ErrMemberNotFound
	}
	return nil
}

func toProfileResponse(p *model.BaseProfile) *dto.BaseProfileResponse {
	return &dto.BaseProfileResponse{
		UserID:     p.UserID,
		BaseID:     p.BaseID,
		BaseName:   p.BaseName,
		BaseNumber: p.BaseNumber,
		BaseType:   p.BaseType,
		IsComplete: p.IsComplete(),
		UpdatedAt:  formatTime(p.UpdatedAt),
	}
}

func toMemberResponse(m *model.BaseMember) *dto.BaseMemberResponse {
	resp := &dto.BaseMemberResponse{
		ID:        m.BaseMemberID,
		CreatedAt: formatTime(m.CreatedAt),
	}
	if m.Personnel != nil {
		resp.Personnel = toPersonnelResponse(m.Personnel)
	}
	return resp
}
