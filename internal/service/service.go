package service

import (
	"errors"

	"go.uber.org/zap"

	"rescue-roster/config"
	"rescue-roster/internal/repository"
	"rescue-roster/pkg/jwt"
)

// ── 跨模块通用业务错误 ──

var (
	ErrForbidden    = errors.New("无权操作该资源")
	ErrInvalidInput = errors.New("参数不合法")
)

// Service 所有 Service 的聚合入口
type Service struct {
	Auth        AuthService
	User        UserService
	Base        BaseService
	WorkShift   WorkShiftService
	Personnel   PersonnelService
	BaseProfile BaseProfileService
	Log         PerformanceLogService
	Entry       PerformanceEntryService
	Grid        GridService
	Assignment  AssignmentService
	Calendar    CalendarService
}

// Deps Service 层依赖的外部组件，Blacklist / Cache 可以为 nil（降级运行）
type Deps struct {
	Config    *config.Config
	Repo      *repository.Repository
	JWT       *jwt.Manager
	Blacklist TokenBlacklist
	Cache     JSONCache
	Logger    *zap.Logger
}

// NewService 创建 Service 聚合
func NewService(d Deps) *Service {
	loc := d.Config.Calendar.Location()
	calendar := NewCalendarService(d.Repo, d.Cache, loc, d.Logger)
	logs := NewPerformanceLogService(d.Repo, d.Logger)

	return &Service{
		Auth:        NewAuthService(d.Repo, d.JWT, d.Blacklist, d.Logger),
		User:        NewUserService(d.Repo, d.Logger),
		Base:        NewBaseService(d.Repo, d.Logger),
		WorkShift:   NewWorkShiftService(d.Repo, d.Logger),
		Personnel:   NewPersonnelService(d.Repo, d.Logger),
		BaseProfile: NewBaseProfileService(d.Repo, d.Logger),
		Log:         logs,
		Entry:       NewPerformanceEntryService(d.Repo, d.Logger),
		Grid:        NewGridService(d.Repo, logs, calendar, d.Logger),
		Assignment:  NewAssignmentService(d.Repo, d.Logger),
		Calendar:    calendar,
	}
}
