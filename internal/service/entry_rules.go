package service

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"rescue-roster/internal/dto"
	"rescue-roster/internal/model"
	"rescue-roster/internal/repository"
	"rescue-roster/pkg/jalali"
)

// summaryKey 汇总条目没有日期，按人员唯一
const summaryKey = "summary"

// entryKey 条目在日志内的自然键：(personnel_id, date)，汇总条目为 (personnel_id, summary)
func entryKey(personnelID, entryType string, date *string) string {
	if entryType == model.EntryTypeSummary || date == nil {
		return personnelID + "|" + summaryKey
	}
	return personnelID + "|" + *date
}

func buildEntryIndex(entries []model.PerformanceEntry) map[string]*model.PerformanceEntry {
	index := make(map[string]*model.PerformanceEntry, len(entries))
	for i := range entries {
		e := &entries[i]
		index[entryKey(e.PersonnelID, e.EntryType, e.Date)] = e
	}
	return index
}

// newEntry 根据请求构造新条目并补全默认值：
// 有日期默认 cell，无日期即为 summary；missions / meals 默认 0
func newEntry(log *model.PerformanceLog, callerID string, req *dto.EntryRequest) (*model.PerformanceEntry, error) {
	now := time.Now()
	entry := &model.PerformanceEntry{
		LogID:          log.LogID,
		UserID:         log.UserID,
		PersonnelID:    req.PersonnelID,
		ShiftID:        req.ShiftID,
		Date:           req.Date,
		Year:           log.Year,
		Month:          log.Month,
		EntryType:      req.EntryType,
		LastModifiedBy: &callerID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if req.Missions != nil {
		entry.Missions = *req.Missions
	}
	if req.Meals != nil {
		entry.Meals = *req.Meals
	}
	if entry.EntryType == "" {
		if entry.Date == nil {
			entry.EntryType = model.EntryTypeSummary
		} else {
			entry.EntryType = model.EntryTypeCell
		}
	}
	if err := normalizeEntry(log, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// normalizeEntry 校验条目与所属日志期间一致，并派生 day 字段
func normalizeEntry(log *model.PerformanceLog, entry *model.PerformanceEntry) error {
	if entry.Missions < 0 || entry.Meals < 0 {
		return ErrInvalidInput
	}

	if entry.EntryType == model.EntryTypeSummary {
		if entry.Date != nil {
			return ErrInvalidInput
		}
		entry.Day = nil
		return nil
	}

	if entry.Date == nil {
		return ErrInvalidInput
	}
	d, err := jalali.ParseDate(*entry.Date)
	if err != nil || d.Year != log.Year || d.Month != log.Month {
		return ErrInvalidInput
	}
	n, _ := jalali.DaysInMonth(log.Year, log.Month)
	if d.Day < 1 || d.Day > n {
		return ErrInvalidInput
	}
	normalized := jalali.FormatDate(d.Year, d.Month, d.Day)
	entry.Date = &normalized
	day := d.Day
	entry.Day = &day
	return nil
}

// overwriteEntry 以候选条目覆盖已有条目，保留 id；请求中未给出的字段保持原值
func overwriteEntry(current, cand *model.PerformanceEntry, req *dto.EntryRequest) {
	if req.ShiftID != nil {
		current.ShiftID = cand.ShiftID
		current.Shift = nil
	}
	if req.EntryType != "" {
		current.EntryType = cand.EntryType
	}
	if req.Missions != nil {
		current.Missions = cand.Missions
	}
	if req.Meals != nil {
		current.Meals = cand.Meals
	}
	current.Date = cand.Date
	current.Day = cand.Day
	current.LastModifiedBy = cand.LastModifiedBy
}

// candidateValidator 校验候选条目引用的人员与班次，按 id 缓存查询结果
type candidateValidator struct {
	repo    *repository.Repository
	log     *model.PerformanceLog
	members map[string]bool
	shifts  map[string]bool
}

func newCandidateValidator(repo *repository.Repository, log *model.PerformanceLog) *candidateValidator {
	return &candidateValidator{
		repo:   repo,
		log:    log,
		shifts: make(map[string]bool),
	}
}

func (v *candidateValidator) check(ctx context.Context, req *dto.EntryRequest) error {
	if req.PersonnelID == "" {
		return ErrInvalidInput
	}
	if err := v.checkMember(ctx, req.PersonnelID); err != nil {
		return err
	}
	if req.ShiftID != nil {
		return v.checkShift(ctx, *req.ShiftID)
	}
	return nil
}

// checkMember 人员必须是日志所有者的基地成员
func (v *candidateValidator) checkMember(ctx context.Context, personnelID string) error {
	if v.members == nil {
		members, err := v.repo.BaseMember.ListByUser(ctx, v.log.UserID)
		if err != nil {
			return err
		}
		v.members = make(map[string]bool, len(members))
		for _, m := range members {
			v.members[m.PersonnelID] = true
		}
	}
	if v.members[personnelID] {
		return nil
	}

	if _, err := v.repo.Personnel.GetByID(ctx, personnelID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPersonnelNotFound
		}
		return err
	}
	return ErrForbidden
}

func (v *candidateValidator) checkShift(ctx context.Context, shiftID string) error {
	if v.shifts[shiftID] {
		return nil
	}
	if _, err := v.repo.WorkShift.GetByID(ctx, shiftID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrShiftNotFound
		}
		return err
	}
	v.shifts[shiftID] = true
	return nil
}
