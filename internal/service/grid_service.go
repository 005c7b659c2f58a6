package service

import (
	"context"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"rescue-roster/internal/dto"
	"rescue-roster/internal/grid"
	"rescue-roster/internal/model"
	"rescue-roster/internal/repository"
	"rescue-roster/pkg/jalali"
)

// GridService 月度网格视图与管理员汇总业务接口
type GridService interface {
	// SupervisorGrid 负责人网格：自动创建日志后按基地成员投影条目
	SupervisorGrid(ctx context.Context, userID string, year, month int) (*dto.GridResponse, error)
	// AdminGrid 管理员排班网格
	AdminGrid(ctx context.Context, year, month int) (*dto.AdminGridResponse, error)
	// Summary 某期间所有日志的汇总
	Summary(ctx context.Context, year, month int) (*dto.PerformanceSummaryResponse, error)
}

type gridService struct {
	repo     *repository.Repository
	logs     PerformanceLogService
	calendar CalendarService
	logger   *zap.Logger
}

// NewGridService 创建 GridService 实例
func NewGridService(repo *repository.Repository, logs PerformanceLogService, calendar CalendarService, logger *zap.Logger) GridService {
	return &gridService{repo: repo, logs: logs, calendar: calendar, logger: logger}
}

// ════════════════════════════════════════════════════════════
// 负责人网格
// ════════════════════════════════════════════════════════════

func (s *gridService) SupervisorGrid(ctx context.Context, userID string, year, month int) (*dto.GridResponse, error) {
	days, err := jalali.MonthDays(year, month)
	if err != nil {
		return nil, err
	}

	log, err := s.logs.Ensure(ctx, userID, year, month)
	if err != nil {
		return nil, err
	}

	members, err := s.repo.BaseMember.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("查询基地成员失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	entries, err := s.repo.PerformanceEntry.ListByLog(ctx, log.LogID)
	if err != nil {
		s.logger.Error("查询绩效条目失败", zap.String("log_id", log.LogID), zap.Error(err))
		return nil, err
	}

	personnel, err := s.gridPersonnel(ctx, members, entries)
	if err != nil {
		return nil, err
	}

	holidays, err := s.calendar.Holidays(ctx, year, month)
	if err != nil {
		return nil, err
	}

	rows := grid.Build(personnel, entries, days)
	return &dto.GridResponse{
		Log:      *toLogResponse(log),
		Days:     days,
		Holidays: holidays,
		Rows:     rows,
		Stats:    grid.BuildStats(rows, days),
	}, nil
}

// gridPersonnel 当前基地成员，加上已不在成员中但本月仍有条目的人员
func (s *gridService) gridPersonnel(ctx context.Context, members []model.BaseMember, entries []model.PerformanceEntry) ([]model.Personnel, error) {
	personnel := make([]model.Personnel, 0, len(members))
	seen := make(map[string]bool, len(members))
	for _, m := range members {
		if m.Personnel == nil {
			continue
		}
		personnel = append(personnel, *m.Personnel)
		seen[m.PersonnelID] = true
	}

	var missing []string
	for _, e := range entries {
		if !seen[e.PersonnelID] {
			seen[e.PersonnelID] = true
			missing = append(missing, e.PersonnelID)
		}
	}
	if len(missing) == 0 {
		return personnel, nil
	}

	former, err := s.repo.Personnel.ListByIDs(ctx, missing)
	if err != nil {
		s.logger.Error("查询历史人员失败", zap.Error(err))
		return nil, err
	}
	return append(personnel, former...), nil
}

// ════════════════════════════════════════════════════════════
// 管理员网格
// ════════════════════════════════════════════════════════════

func (s *gridService) AdminGrid(ctx context.Context, year, month int) (*dto.AdminGridResponse, error) {
	days, err := jalali.MonthDays(year, month)
	if err != nil {
		return nil, err
	}

	personnel, err := s.repo.Personnel.ListAll(ctx)
	if err != nil {
		s.logger.Error("查询人员失败", zap.Error(err))
		return nil, err
	}
	assignments, err := s.repo.PerformanceAssignment.ListByPeriod(ctx, year, month)
	if err != nil {
		s.logger.Error("查询排班失败", zap.Error(err))
		return nil, err
	}
	bases, err := s.repo.Base.List(ctx)
	if err != nil {
		s.logger.Error("查询基地失败", zap.Error(err))
		return nil, err
	}
	shifts, err := s.repo.WorkShift.List(ctx)
	if err != nil {
		s.logger.Error("查询班次失败", zap.Error(err))
		return nil, err
	}

	resp := &dto.AdminGridResponse{
		Year:      year,
		Month:     month,
		MonthName: jalali.MonthName(month),
		Days:      days,
		Rows:      grid.BuildAdmin(personnel, assignments, bases, shifts),
		Bases:     make([]dto.BaseResponse, 0, len(bases)),
		Shifts:    make([]dto.WorkShiftResponse, 0, len(shifts)),
	}
	for i := range bases {
		resp.Bases = append(resp.Bases, *toBaseResponse(&bases[i]))
	}
	for i := range shifts {
		resp.Shifts = append(resp.Shifts, *toWorkShiftResponse(&shifts[i]))
	}
	return resp, nil
}

// ════════════════════════════════════════════════════════════
// 管理员汇总
// ════════════════════════════════════════════════════════════

func (s *gridService) Summary(ctx context.Context, year, month int) (*dto.PerformanceSummaryResponse, error) {
	if month < 1 || month > 12 {
		return nil, jalali.ErrInvalidMonth
	}

	logs, err := s.repo.PerformanceLog.ListByPeriod(ctx, year, month)
	if err != nil {
		s.logger.Error("查询期间日志失败", zap.Int("year", year), zap.Int("month", month), zap.Error(err))
		return nil, err
	}

	logIDs := make([]string, 0, len(logs))
	for _, l := range logs {
		logIDs = append(logIDs, l.LogID)
	}
	entries, err := s.repo.PerformanceEntry.ListByLogIDs(ctx, logIDs)
	if err != nil {
		s.logger.Error("查询期间条目失败", zap.Error(err))
		return nil, err
	}

	byLog := make(map[string][]model.PerformanceEntry, len(logs))
	for _, e := range entries {
		byLog[e.LogID] = append(byLog[e.LogID], e)
	}

	resp := &dto.PerformanceSummaryResponse{
		Year:      year,
		Month:     month,
		TotalLogs: len(logs),
		Logs:      make([]dto.LogSummaryItem, 0, len(logs)),
	}
	for i := range logs {
		item := summarizeLog(&logs[i], byLog[logs[i].LogID])
		if logs[i].IsFinalized() {
			resp.FinalizedLogs++
		}
		resp.TotalMissions += item.TotalMissions
		resp.TotalMeals += item.TotalMeals
		resp.TotalHours += item.TotalHours
		resp.Logs = append(resp.Logs, item)
	}
	return resp, nil
}

// summarizeLog 以网格投影计算单个日志的合计，工时按班次等效小时累加
func summarizeLog(log *model.PerformanceLog, entries []model.PerformanceEntry) dto.LogSummaryItem {
	var personnel []model.Personnel
	seen := make(map[string]bool)
	hours := 0
	for _, e := range entries {
		if !seen[e.PersonnelID] {
			seen[e.PersonnelID] = true
			personnel = append(personnel, model.Personnel{PersonnelID: e.PersonnelID})
		}
		if e.Date != nil && e.ShiftID != nil && e.Shift != nil {
			hours += e.Shift.EquivalentHours
		}
	}

	stats := grid.BuildStats(grid.Build(personnel, entries, nil), nil)

	avg := decimal.Zero
	if stats.TotalPersonnel > 0 {
		avg = decimal.NewFromInt(int64(hours)).Div(decimal.NewFromInt(int64(stats.TotalPersonnel)))
	}

	item := dto.LogSummaryItem{
		LogID:               log.LogID,
		UserID:              log.UserID,
		BaseID:              log.BaseID,
		Status:              log.Status,
		SubmittedAt:         formatTimePtr(log.SubmittedAt),
		PersonnelCount:      stats.TotalPersonnel,
		TotalMissions:       stats.TotalMissions,
		TotalMeals:          stats.TotalMeals,
		TotalAssignedShifts: stats.TotalAssignedShifts,
		TotalHours:          hours,
		AverageHours:        avg.StringFixed(2),
	}
	if log.User != nil {
		item.UserName = log.User.Name
	}
	if log.Base != nil {
		item.BaseName = log.Base.Name
		item.BaseNumber = log.Base.Number
	}
	return item
}
