package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"rescue-roster/internal/dto"
	"rescue-roster/internal/model"
	"rescue-roster/internal/repository"
	"rescue-roster/pkg/jalali"
)

// ── 管理员排班业务错误 ──

var (
	ErrAssignmentNotFound = errors.New("排班记录不存在")
	ErrAssignmentExists   = errors.New("该人员当日已有排班")
)

// AssignmentService 管理员排班业务接口
type AssignmentService interface {
	// Upsert 按 (log_id, personnel_id, date) 覆盖或新增
	Upsert(ctx context.Context, callerID string, req *dto.UpsertAssignmentRequest) (*dto.AssignmentResponse, error)
	Delete(ctx context.Context, id, callerID string) error
	ListByPeriod(ctx context.Context, year, month int) ([]dto.AssignmentResponse, error)
}

type assignmentService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewAssignmentService 创建 AssignmentService 实例
func NewAssignmentService(repo *repository.Repository, logger *zap.Logger) AssignmentService {
	return &assignmentService{repo: repo, logger: logger}
}

func (s *assignmentService) Upsert(ctx context.Context, callerID string, req *dto.UpsertAssignmentRequest) (*dto.AssignmentResponse, error) {
	d, err := jalali.ParseDate(req.Date)
	if err != nil {
		return nil, ErrInvalidInput
	}
	date := jalali.FormatDate(d.Year, d.Month, d.Day)

	// 关联日志已定稿时不可写入；日期须落在日志期间内
	if req.LogID != nil {
		log, err := s.repo.PerformanceLog.GetByID(ctx, *req.LogID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrLogNotFound
			}
			s.logger.Error("查询绩效日志失败", zap.String("log_id", *req.LogID), zap.Error(err))
			return nil, err
		}
		if log.IsFinalized() {
			return nil, ErrImmutableLog
		}
		if log.Year != d.Year || log.Month != d.Month {
			return nil, ErrInvalidInput
		}
	}

	if err := s.checkRefs(ctx, req); err != nil {
		return nil, err
	}

	existing, err := s.repo.PerformanceAssignment.GetByKey(ctx, req.LogID, req.PersonnelID, date)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询排班失败", zap.Error(err))
		return nil, err
	}

	if existing != nil {
		return s.overwrite(ctx, existing, req, callerID)
	}

	a := &model.PerformanceAssignment{
		LogID:       req.LogID,
		PersonnelID: req.PersonnelID,
		BaseID:      req.BaseID,
		ShiftID:     req.ShiftID,
		Date:        date,
		Year:        d.Year,
		Month:       d.Month,
		Day:         d.Day,
	}
	a.StampCreated(callerID)
	a.UpdatedAt = time.Now()
	if err := s.repo.PerformanceAssignment.Create(ctx, a); err != nil {
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			s.logger.Error("创建排班失败", zap.Error(err))
			return nil, err
		}
		// 并发写入了同一 (log_id, personnel_id, date)，改为覆盖
		existing, getErr := s.repo.PerformanceAssignment.GetByKey(ctx, req.LogID, req.PersonnelID, date)
		if getErr != nil {
			s.logger.Warn("排班唯一键冲突且无法读取已有记录", zap.String("date", date), zap.Error(getErr))
			return nil, ErrAssignmentExists
		}
		return s.overwrite(ctx, existing, req, callerID)
	}
	return toAssignmentResponse(a), nil
}

func (s *assignmentService) overwrite(ctx context.Context, a *model.PerformanceAssignment, req *dto.UpsertAssignmentRequest, callerID string) (*dto.AssignmentResponse, error) {
	a.BaseID = req.BaseID
	a.ShiftID = req.ShiftID
	a.StampUpdated(callerID)
	a.UpdatedAt = time.Now()
	if err := s.repo.PerformanceAssignment.Update(ctx, a); err != nil {
		s.logger.Error("更新排班失败", zap.String("id", a.AssignmentID), zap.Error(err))
		return nil, err
	}
	return toAssignmentResponse(a), nil
}

func (s *assignmentService) Delete(ctx context.Context, id, callerID string) error {
	a, err := s.repo.PerformanceAssignment.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAssignmentNotFound
		}
		s.logger.Error("查询排班失败", zap.String("id", id), zap.Error(err))
		return err
	}

	if a.LogID != nil {
		log, err := s.repo.PerformanceLog.GetByID(ctx, *a.LogID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Error("查询绩效日志失败", zap.String("log_id", *a.LogID), zap.Error(err))
			return err
		}
		if log != nil && log.IsFinalized() {
			return ErrImmutableLog
		}
	}

	if err := s.repo.PerformanceAssignment.Delete(ctx, id); err != nil {
		s.logger.Error("删除排班失败", zap.String("id", id), zap.Error(err))
		return err
	}
	s.logger.Info("排班已删除", zap.String("id", id), zap.String("operator", callerID))
	return nil
}

func (s *assignmentService) ListByPeriod(ctx context.Context, year, month int) ([]dto.AssignmentResponse, error) {
	list, err := s.repo.PerformanceAssignment.ListByPeriod(ctx, year, month)
	if err != nil {
		s.logger.Error("查询排班失败", zap.Int("year", year), zap.Int("month", month), zap.Error(err))
		return nil, err
	}

	result := make([]dto.AssignmentResponse, 0, len(list))
	for i := range list {
		result = append(result, *toAssignmentResponse(&list[i]))
	}
	return result, nil
}

func (s *assignmentService) checkRefs(ctx context.Context, req *dto.UpsertAssignmentRequest) error {
	if _, err := s.repo.Personnel.GetByID(ctx, req.PersonnelID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPersonnelNotFound
		}
		return err
	}
	if _, err := s.repo.Base.GetByID(ctx, req.BaseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBaseNotFound
		}
		return err
	}
	if _, err := s.repo.WorkShift.GetByID(ctx, req.ShiftID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrShiftNotFound
		}
		return err
	}
	return nil
}
