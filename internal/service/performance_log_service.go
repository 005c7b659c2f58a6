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
	pkgerrors "rescue-roster/pkg/errors"
)

// ── 绩效日志业务错误 ──

var (
	ErrLogNotFound      = errors.New("绩效日志不存在")
	ErrDuplicatePeriod  = errors.New("该期间已存在绩效日志")
	ErrImmutableLog     = errors.New("绩效日志已定稿，不可修改")
	ErrAlreadyFinalized = errors.New("绩效日志已被其他请求定稿")
)

// PerformanceLogService 月度绩效日志业务接口
type PerformanceLogService interface {
	// Find 查询期间日志，不存在时返回 (nil, nil)
	Find(ctx context.Context, userID string, year, month int) (*dto.LogResponse, error)
	// GetOrCreate 查询期间日志，不存在时依据基地档案自动创建草稿
	GetOrCreate(ctx context.Context, userID string, year, month int) (*dto.LogResponse, error)
	// Ensure 与 GetOrCreate 相同，返回模型供其他服务组合使用
	Ensure(ctx context.Context, userID string, year, month int) (*model.PerformanceLog, error)
	Get(ctx context.Context, logID, callerID, callerRole string) (*dto.LogResponse, error)
	ListMine(ctx context.Context, userID string) ([]dto.LogResponse, error)
	Create(ctx context.Context, userID string, req *dto.CreateLogRequest) (*dto.LogResponse, error)
	Update(ctx context.Context, logID, callerID string, req *dto.UpdateLogRequest) (*dto.LogResponse, error)
	Finalize(ctx context.Context, logID, callerID string) (*dto.LogResponse, error)
}

type performanceLogService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewPerformanceLogService 创建 PerformanceLogService 实例
func NewPerformanceLogService(repo *repository.Repository, logger *zap.Logger) PerformanceLogService {
	return &performanceLogService{repo: repo, logger: logger}
}

// ────────────────────── 查询 ──────────────────────

func (s *performanceLogService) Find(ctx context.Context, userID string, year, month int) (*dto.LogResponse, error) {
	log, err := s.repo.PerformanceLog.GetByPeriod(ctx, userID, year, month)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		s.logger.Error("查询绩效日志失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	return toLogResponse(log), nil
}

func (s *performanceLogService) GetOrCreate(ctx context.Context, userID string, year, month int) (*dto.LogResponse, error) {
	log, err := s.Ensure(ctx, userID, year, month)
	if err != nil {
		return nil, err
	}
	return toLogResponse(log), nil
}

func (s *performanceLogService) Ensure(ctx context.Context, userID string, year, month int) (*model.PerformanceLog, error) {
	if month < 1 || month > 12 {
		return nil, ErrInvalidInput
	}

	log, err := s.repo.PerformanceLog.GetByPeriod(ctx, userID, year, month)
	if err == nil {
		return log, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询绩效日志失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	// 自动创建需要完整的基地档案
	profile, err := s.repo.BaseProfile.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrIncompleteProfile
		}
		s.logger.Error("查询基地档案失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	if !profile.IsComplete() {
		return nil, ErrIncompleteProfile
	}

	log, err = s.create(ctx, userID, *profile.BaseID, year, month)
	if errors.Is(err, ErrDuplicatePeriod) {
		// 并发请求已创建
		return s.repo.PerformanceLog.GetByPeriod(ctx, userID, year, month)
	}
	return log, err
}

func (s *performanceLogService) Get(ctx context.Context, logID, callerID, callerRole string) (*dto.LogResponse, error) {
	log, err := s.getLog(ctx, logID)
	if err != nil {
		return nil, err
	}
	if log.UserID != callerID && callerRole != model.RoleAdmin {
		return nil, ErrForbidden
	}
	return toLogResponse(log), nil
}

func (s *performanceLogService) ListMine(ctx context.Context, userID string) ([]dto.LogResponse, error) {
	logs, err := s.repo.PerformanceLog.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("列出绩效日志失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	result := make([]dto.LogResponse, 0, len(logs))
	for i := range logs {
		result = append(result, *toLogResponse(&logs[i]))
	}
	return result, nil
}

// ────────────────────── Create ──────────────────────

func (s *performanceLogService) Create(ctx context.Context, userID string, req *dto.CreateLogRequest) (*dto.LogResponse, error) {
	baseID := req.BaseID
	if baseID == "" {
		profile, err := s.repo.BaseProfile.GetByUserID(ctx, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrIncompleteProfile
			}
			s.logger.Error("查询基地档案失败", zap.String("user_id", userID), zap.Error(err))
			return nil, err
		}
		if !profile.IsComplete() {
			return nil, ErrIncompleteProfile
		}
		baseID = *profile.BaseID
	} else if _, err := s.repo.Base.GetByID(ctx, baseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBaseNotFound
		}
		s.logger.Error("查询基地失败", zap.String("base_id", baseID), zap.Error(err))
		return nil, err
	}

	log, err := s.create(ctx, userID, baseID, req.Year, req.Month)
	if err != nil {
		return nil, err
	}
	return toLogResponse(log), nil
}

// create 写入新的草稿日志；(user_id, year, month) 已存在时返回 ErrDuplicatePeriod
func (s *performanceLogService) create(ctx context.Context, userID, baseID string, year, month int) (*model.PerformanceLog, error) {
	if _, err := s.repo.PerformanceLog.GetByPeriod(ctx, userID, year, month); err == nil {
		return nil, ErrDuplicatePeriod
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询绩效日志失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	now := time.Now()
	log := &model.PerformanceLog{
		UserID:    userID,
		BaseID:    baseID,
		Year:      year,
		Month:     month,
		Status:    model.LogStatusDraft,
		CreatedAt: now,
		UpdatedAt: now,
		Version:   1,
	}
	if err := s.repo.PerformanceLog.Create(ctx, log); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicatePeriod
		}
		// 未翻译的唯一约束冲突：并发创建了同一期间
		if _, getErr := s.repo.PerformanceLog.GetByPeriod(ctx, userID, year, month); getErr == nil {
			return nil, ErrDuplicatePeriod
		}
		s.logger.Error("创建绩效日志失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("绩效日志已创建",
		zap.String("log_id", log.LogID),
		zap.String("user_id", userID),
		zap.Int("year", year),
		zap.Int("month", month),
	)
	return log, nil
}

// ────────────────────── Update ──────────────────────

// Update 保存草稿。user_id / base_id / 期间不可通过此操作修改，定稿只能走 Finalize
func (s *performanceLogService) Update(ctx context.Context, logID, callerID string, req *dto.UpdateLogRequest) (*dto.LogResponse, error) {
	log, err := s.getLog(ctx, logID)
	if err != nil {
		return nil, err
	}
	if log.UserID != callerID {
		return nil, ErrForbidden
	}
	if log.IsFinalized() {
		return nil, ErrImmutableLog
	}
	if req.Status != nil && *req.Status != model.LogStatusDraft {
		return nil, ErrInvalidInput
	}
	if req.Version != nil && *req.Version != log.Version {
		return nil, pkgerrors.ErrOptimisticLock
	}

	if err := s.repo.PerformanceLog.Update(ctx, log); err != nil {
		if errors.Is(err, pkgerrors.ErrOptimisticLock) {
			return nil, err
		}
		s.logger.Error("更新绩效日志失败", zap.String("log_id", logID), zap.Error(err))
		return nil, err
	}
	return toLogResponse(log), nil
}

// ────────────────────── Finalize ──────────────────────

// Finalize draft → finalized，仅一次。状态迁移与条目冗余标记在同一事务内完成
func (s *performanceLogService) Finalize(ctx context.Context, logID, callerID string) (*dto.LogResponse, error) {
	log, err := s.getLog(ctx, logID)
	if err != nil {
		return nil, err
	}
	if log.UserID != callerID {
		return nil, ErrForbidden
	}
	if log.IsFinalized() {
		return nil, ErrImmutableLog
	}

	now := time.Now()
	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := tx.PerformanceLog.MarkFinalized(ctx, logID, now); err != nil {
			return err
		}
		return tx.PerformanceEntry.MarkFinalizedByLog(ctx, logID, now)
	})
	if err != nil {
		if errors.Is(err, pkgerrors.ErrStatusConflict) {
			return nil, ErrAlreadyFinalized
		}
		s.logger.Error("定稿绩效日志失败", zap.String("log_id", logID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("绩效日志已定稿",
		zap.String("log_id", logID),
		zap.String("user_id", callerID),
	)

	finalized, err := s.getLog(ctx, logID)
	if err != nil {
		return nil, err
	}
	return toLogResponse(finalized), nil
}

func (s *performanceLogService) getLog(ctx context.Context, logID string) (*model.PerformanceLog, error) {
	log, err := s.repo.PerformanceLog.GetByID(ctx, logID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLogNotFound
		}
		s.logger.Error("查询绩效日志失败", zap.String("log_id", logID), zap.Error(err))
		return nil, err
	}
	return log, nil
}
