package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"rescue-roster/internal/dto"
	"rescue-roster/internal/model"
	"rescue-roster/internal/repository"
	"rescue-roster/pkg/jalali"
)

// ── 绩效条目业务错误 ──

var (
	ErrEntryNotFound  = errors.New("绩效条目不存在")
	ErrImmutableEntry = errors.New("绩效条目已定稿，不可修改")
	ErrEntryExists    = errors.New("该人员当日已有条目")
)

// PerformanceEntryService 绩效条目业务接口
type PerformanceEntryService interface {
	ListByLog(ctx context.Context, logID, callerID, callerRole string) ([]dto.EntryResponse, error)
	// ListByUser 查询某用户的条目；查看他人条目仅限管理员
	ListByUser(ctx context.Context, callerID, callerRole string, req *dto.EntryListRequest) ([]dto.EntryResponse, error)
	Create(ctx context.Context, logID, callerID string, req *dto.EntryRequest) (*dto.EntryResponse, error)
	Update(ctx context.Context, entryID, callerID string, req *dto.UpdateEntryRequest) (*dto.EntryResponse, error)
	// Delete 条目不存在时返回 false
	Delete(ctx context.Context, entryID, callerID string) (bool, error)
	// BatchUpsert 按 (personnel_id, date) 覆盖或新增，结果与输入顺序一致
	BatchUpsert(ctx context.Context, logID, callerID string, candidates []dto.EntryRequest) ([]dto.EntryResponse, error)
	// AssignRange 将 from_day..to_day 展开为 batch 条目后批量写入
	AssignRange(ctx context.Context, logID, callerID string, req *dto.AssignRangeRequest) ([]dto.EntryResponse, error)
}

type performanceEntryService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewPerformanceEntryService 创建 PerformanceEntryService 实例
func NewPerformanceEntryService(repo *repository.Repository, logger *zap.Logger) PerformanceEntryService {
	return &performanceEntryService{repo: repo, logger: logger}
}

// ════════════════════════════════════════════════════════════
// 查询
// ════════════════════════════════════════════════════════════

func (s *performanceEntryService) ListByLog(ctx context.Context, logID, callerID, callerRole string) ([]dto.EntryResponse, error) {
	log, err := s.getLog(ctx, s.repo, logID, false)
	if err != nil {
		return nil, err
	}
	if log.UserID != callerID && callerRole != model.RoleAdmin {
		return nil, ErrForbidden
	}

	entries, err := s.repo.PerformanceEntry.ListByLog(ctx, logID)
	if err != nil {
		s.logger.Error("查询绩效条目失败", zap.String("log_id", logID), zap.Error(err))
		return nil, err
	}
	return toEntryResponses(entries), nil
}

func (s *performanceEntryService) ListByUser(ctx context.Context, callerID, callerRole string, req *dto.EntryListRequest) ([]dto.EntryResponse, error) {
	userID := req.UserID
	if userID == "" {
		userID = callerID
	}
	if userID != callerID && callerRole != model.RoleAdmin {
		return nil, ErrForbidden
	}

	entries, err := s.repo.PerformanceEntry.ListByUser(ctx, userID, req.Year, req.Month)
	if err != nil {
		s.logger.Error("查询用户绩效条目失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	return toEntryResponses(entries), nil
}

// ════════════════════════════════════════════════════════════
// 单条写入
// ════════════════════════════════════════════════════════════

// Create 在事务中锁定日志行后写入，与 Finalize 串行
func (s *performanceEntryService) Create(ctx context.Context, logID, callerID string, req *dto.EntryRequest) (*dto.EntryResponse, error) {
	var entry *model.PerformanceEntry

	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		log, err := s.getWritableLog(ctx, tx, logID, callerID, true)
		if err != nil {
			return err
		}

		if err := newCandidateValidator(tx, log).check(ctx, req); err != nil {
			return err
		}
		entry, err = newEntry(log, callerID, req)
		if err != nil {
			return err
		}

		existing, err := tx.PerformanceEntry.ListByLog(ctx, logID)
		if err != nil {
			return err
		}
		if _, dup := buildEntryIndex(existing)[entryKey(entry.PersonnelID, entry.EntryType, entry.Date)]; dup {
			return ErrEntryExists
		}

		if err := tx.PerformanceEntry.Create(ctx, entry); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrEntryExists
			}
			return err
		}
		return nil
	})
	if err != nil {
		if !isDomainError(err) {
			s.logger.Error("创建绩效条目失败", zap.String("log_id", logID), zap.Error(err))
		}
		return nil, err
	}
	return toEntryResponse(entry), nil
}

func (s *performanceEntryService) Update(ctx context.Context, entryID, callerID string, req *dto.UpdateEntryRequest) (*dto.EntryResponse, error) {
	var entry *model.PerformanceEntry

	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		var (
			log *model.PerformanceLog
			err error
		)
		entry, log, err = s.getMutableEntry(ctx, tx, entryID, callerID)
		if err != nil {
			return err
		}

		if req.ShiftID != nil {
			if err := newCandidateValidator(tx, log).checkShift(ctx, *req.ShiftID); err != nil {
				return err
			}
			entry.ShiftID = req.ShiftID
			entry.Shift = nil
		}
		if req.EntryType != nil {
			entry.EntryType = *req.EntryType
		}
		if req.Date != nil {
			entry.Date = req.Date
		}
		if req.Missions != nil {
			entry.Missions = *req.Missions
		}
		if req.Meals != nil {
			entry.Meals = *req.Meals
		}
		if err := normalizeEntry(log, entry); err != nil {
			return err
		}

		// 修改日期或类型后不能与同日志中的其他条目冲突
		if req.Date != nil || req.EntryType != nil {
			existing, err := tx.PerformanceEntry.ListByLog(ctx, log.LogID)
			if err != nil {
				return err
			}
			if other, ok := buildEntryIndex(existing)[entryKey(entry.PersonnelID, entry.EntryType, entry.Date)]; ok && other.EntryID != entry.EntryID {
				return ErrEntryExists
			}
		}

		entry.LastModifiedBy = &callerID
		if err := tx.PerformanceEntry.Update(ctx, entry); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrEntryExists
			}
			return err
		}
		return nil
	})
	if err != nil {
		if !isDomainError(err) {
			s.logger.Error("更新绩效条目失败", zap.String("entry_id", entryID), zap.Error(err))
		}
		return nil, err
	}
	return toEntryResponse(entry), nil
}

func (s *performanceEntryService) Delete(ctx context.Context, entryID, callerID string) (bool, error) {
	var deleted bool

	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if _, _, err := s.getMutableEntry(ctx, tx, entryID, callerID); err != nil {
			return err
		}
		var err error
		deleted, err = tx.PerformanceEntry.Delete(ctx, entryID)
		return err
	})
	if err != nil {
		if errors.Is(err, ErrEntryNotFound) {
			return false, nil
		}
		if !isDomainError(err) {
			s.logger.Error("删除绩效条目失败", zap.String("entry_id", entryID), zap.Error(err))
		}
		return false, err
	}
	return deleted, nil
}

// ════════════════════════════════════════════════════════════
// 批量写入
// ════════════════════════════════════════════════════════════

// BatchUpsert 在一个事务中执行：先锁定日志行，再逐条匹配 (personnel_id, date) 覆盖或新增。
// 日志已定稿时在处理任何条目前整体失败
func (s *performanceEntryService) BatchUpsert(ctx context.Context, logID, callerID string, candidates []dto.EntryRequest) ([]dto.EntryResponse, error) {
	if len(candidates) == 0 {
		return nil, ErrInvalidInput
	}

	results := make([]model.PerformanceEntry, 0, len(candidates))
	var created, updated int

	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		log, err := s.getWritableLog(ctx, tx, logID, callerID, true)
		if err != nil {
			return err
		}

		// 1. 全部候选条目先校验，任何一条不合法则整体不写入
		v := newCandidateValidator(tx, log)
		prepared := make([]*model.PerformanceEntry, 0, len(candidates))
		for i := range candidates {
			if err := v.check(ctx, &candidates[i]); err != nil {
				return err
			}
			entry, err := newEntry(log, callerID, &candidates[i])
			if err != nil {
				return err
			}
			prepared = append(prepared, entry)
		}

		// 2. 以 (personnel_id, date) 建索引，逐条覆盖或新增
		existing, err := tx.PerformanceEntry.ListByLog(ctx, logID)
		if err != nil {
			return err
		}
		index := buildEntryIndex(existing)

		for i, cand := range prepared {
			key := entryKey(cand.PersonnelID, cand.EntryType, cand.Date)
			if current, ok := index[key]; ok {
				overwriteEntry(current, cand, &candidates[i])
				if err := tx.PerformanceEntry.Update(ctx, current); err != nil {
					return err
				}
				results = append(results, *current)
				updated++
				continue
			}
			if err := tx.PerformanceEntry.Create(ctx, cand); err != nil {
				return err
			}
			index[key] = cand
			results = append(results, *cand)
			created++
		}
		return nil
	})
	if err != nil {
		if isDomainError(err) {
			return nil, err
		}
		s.logger.Error("批量写入绩效条目失败", zap.String("log_id", logID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("批量写入绩效条目",
		zap.String("log_id", logID),
		zap.Int("created", created),
		zap.Int("updated", updated),
	)
	return toEntryResponses(results), nil
}

// AssignRange 先校验归属与状态再校验日期范围；BatchUpsert 会在锁内再次校验
func (s *performanceEntryService) AssignRange(ctx context.Context, logID, callerID string, req *dto.AssignRangeRequest) ([]dto.EntryResponse, error) {
	log, err := s.getWritableLog(ctx, s.repo, logID, callerID, false)
	if err != nil {
		return nil, err
	}

	n, err := jalali.DaysInMonth(log.Year, log.Month)
	if err != nil {
		return nil, ErrInvalidInput
	}
	if req.FromDay < 1 || req.ToDay > n || req.FromDay > req.ToDay {
		return nil, ErrInvalidInput
	}

	candidates := make([]dto.EntryRequest, 0, req.ToDay-req.FromDay+1)
	for d := req.FromDay; d <= req.ToDay; d++ {
		date := jalali.FormatDate(log.Year, log.Month, d)
		shiftID := req.ShiftID
		candidates = append(candidates, dto.EntryRequest{
			PersonnelID: req.PersonnelID,
			ShiftID:     &shiftID,
			Date:        &date,
			EntryType:   model.EntryTypeBatch,
		})
	}
	return s.BatchUpsert(ctx, logID, callerID, candidates)
}

// ════════════════════════════════════════════════════════════
// 内部辅助
// ════════════════════════════════════════════════════════════

func (s *performanceEntryService) getLog(ctx context.Context, repo *repository.Repository, logID string, forUpdate bool) (*model.PerformanceLog, error) {
	var (
		log *model.PerformanceLog
		err error
	)
	if forUpdate {
		log, err = repo.PerformanceLog.GetByIDForUpdate(ctx, logID)
	} else {
		log, err = repo.PerformanceLog.GetByID(ctx, logID)
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLogNotFound
		}
		s.logger.Error("查询绩效日志失败", zap.String("log_id", logID), zap.Error(err))
		return nil, err
	}
	return log, nil
}

// getWritableLog 日志存在、属于调用者且未定稿
func (s *performanceEntryService) getWritableLog(ctx context.Context, repo *repository.Repository, logID, callerID string, forUpdate bool) (*model.PerformanceLog, error) {
	log, err := s.getLog(ctx, repo, logID, forUpdate)
	if err != nil {
		return nil, err
	}
	if log.UserID != callerID {
		return nil, ErrForbidden
	}
	if log.IsFinalized() {
		return nil, ErrImmutableLog
	}
	return log, nil
}

// getMutableEntry 在事务内锁定条目所属日志后重新读取条目，
// 要求条目存在、属于调用者，且日志状态与条目标记均未定稿
func (s *performanceEntryService) getMutableEntry(ctx context.Context, tx *repository.Repository, entryID, callerID string) (*model.PerformanceEntry, *model.PerformanceLog, error) {
	entry, err := s.getEntry(ctx, tx, entryID)
	if err != nil {
		return nil, nil, err
	}

	log, err := s.getLog(ctx, tx, entry.LogID, true)
	if err != nil {
		return nil, nil, err
	}
	if log.UserID != callerID {
		return nil, nil, ErrForbidden
	}
	if log.IsFinalized() {
		return nil, nil, ErrImmutableEntry
	}

	// 加锁前读到的条目可能已被并发修改
	entry, err = s.getEntry(ctx, tx, entryID)
	if err != nil {
		return nil, nil, err
	}
	if entry.IsFinalized {
		return nil, nil, ErrImmutableEntry
	}
	return entry, log, nil
}

func (s *performanceEntryService) getEntry(ctx context.Context, repo *repository.Repository, entryID string) (*model.PerformanceEntry, error) {
	entry, err := repo.PerformanceEntry.GetByID(ctx, entryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEntryNotFound
		}
		s.logger.Error("查询绩效条目失败", zap.String("entry_id", entryID), zap.Error(err))
		return nil, err
	}
	return entry, nil
}

func isDomainError(err error) bool {
	for _, target := range []error{
		ErrForbidden, ErrInvalidInput, ErrLogNotFound, ErrImmutableLog,
		ErrPersonnelNotFound, ErrShiftNotFound,
		ErrEntryNotFound, ErrImmutableEntry, ErrEntryExists,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
