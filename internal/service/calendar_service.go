package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"rescue-roster/internal/dto"
	"rescue-roster/internal/model"
	"rescue-roster/internal/repository"
	"rescue-roster/pkg/jalali"
)

// ── 日历模块业务错误 ──

var (
	ErrHolidayNotFound = errors.New("节假日不存在")
)

const holidayCacheTTL = 24 * time.Hour

// JSONCache 以 JSON 序列化的键值缓存（由 Redis 实现）
type JSONCache interface {
	GetJSON(ctx context.Context, key string, dst interface{}) (bool, error)
	SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// CalendarService 伊朗历日历与节假日业务接口
type CalendarService interface {
	Today(ctx context.Context) *dto.TodayResponse
	Month(ctx context.Context, year, month int) (*dto.MonthResponse, error)
	Holidays(ctx context.Context, year, month int) ([]dto.HolidayResponse, error)
	CreateHoliday(ctx context.Context, req *dto.CreateHolidayRequest) (*dto.HolidayResponse, error)
	DeleteHoliday(ctx context.Context, id string) error
}

type calendarService struct {
	repo   *repository.Repository
	cache  JSONCache
	loc    *time.Location
	now    func() time.Time
	logger *zap.Logger
}

// NewCalendarService 创建 CalendarService 实例；cache 为 nil 时直接查库
func NewCalendarService(repo *repository.Repository, cache JSONCache, loc *time.Location, logger *zap.Logger) CalendarService {
	if loc == nil {
		loc = time.UTC
	}
	return &calendarService{
		repo:   repo,
		cache:  cache,
		loc:    loc,
		now:    time.Now,
		logger: logger,
	}
}

func holidayCacheKey(year, month int) string {
	return fmt.Sprintf("holidays:%d:%02d", year, month)
}

// ────────────────────── 日期 ──────────────────────

func (s *calendarService) Today(_ context.Context) *dto.TodayResponse {
	d := jalali.FromGregorian(s.now().In(s.loc))
	return &dto.TodayResponse{
		Year:      d.Year,
		Month:     d.Month,
		Day:       d.Day,
		Date:      d.String(),
		MonthName: jalali.MonthName(d.Month),
		Weekday:   jalali.WeekdayName(d.Day, d.Month),
		Formatted: jalali.FormatLong(d, true),
	}
}

func (s *calendarService) Month(ctx context.Context, year, month int) (*dto.MonthResponse, error) {
	days, err := jalali.MonthDays(year, month)
	if err != nil {
		return nil, err
	}

	holidays, err := s.Holidays(ctx, year, month)
	if err != nil {
		return nil, err
	}

	return &dto.MonthResponse{
		Year:        year,
		Month:       month,
		MonthName:   jalali.MonthName(month),
		DaysInMonth: len(days),
		Days:        days,
		Holidays:    holidays,
	}, nil
}

// ────────────────────── 节假日 ──────────────────────

// Holidays 先读缓存，未命中或缓存故障时回源数据库
func (s *calendarService) Holidays(ctx context.Context, year, month int) ([]dto.HolidayResponse, error) {
	if month < 1 || month > 12 {
		return nil, jalali.ErrInvalidMonth
	}

	key := holidayCacheKey(year, month)
	if s.cache != nil {
		var cached []dto.HolidayResponse
		hit, err := s.cache.GetJSON(ctx, key, &cached)
		if err != nil {
			s.logger.Warn("读取节假日缓存失败，回源数据库", zap.String("key", key), zap.Error(err))
		} else if hit {
			return cached, nil
		}
	}

	list, err := s.repo.Holiday.ListByMonth(ctx, year, month)
	if err != nil {
		s.logger.Error("查询节假日失败", zap.Int("year", year), zap.Int("month", month), zap.Error(err))
		return nil, err
	}

	result := make([]dto.HolidayResponse, 0, len(list))
	for i := range list {
		result = append(result, *toHolidayResponse(&list[i]))
	}

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, key, result, holidayCacheTTL); err != nil {
			s.logger.Warn("写入节假日缓存失败", zap.String("key", key), zap.Error(err))
		}
	}
	return result, nil
}

func (s *calendarService) CreateHoliday(ctx context.Context, req *dto.CreateHolidayRequest) (*dto.HolidayResponse, error) {
	n, err := jalali.DaysInMonth(req.Year, req.Month)
	if err != nil || req.Day < 1 || req.Day > n {
		return nil, ErrInvalidInput
	}

	h := &model.IranHoliday{
		Year:      req.Year,
		Month:     req.Month,
		Day:       req.Day,
		Title:     req.Title,
		IsHoliday: true,
		CreatedAt: s.now(),
	}
	if req.IsHoliday != nil {
		h.IsHoliday = *req.IsHoliday
	}

	if err := s.repo.Holiday.Create(ctx, h); err != nil {
		s.logger.Error("创建节假日失败", zap.Error(err))
		return nil, err
	}
	s.invalidate(ctx, h.Year, h.Month)
	return toHolidayResponse(h), nil
}

func (s *calendarService) DeleteHoliday(ctx context.Context, id string) error {
	h, err := s.repo.Holiday.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrHolidayNotFound
		}
		s.logger.Error("查询节假日失败", zap.String("id", id), zap.Error(err))
		return err
	}

	if err := s.repo.Holiday.Delete(ctx, id); err != nil {
		s.logger.Error("删除节假日失败", zap.String("id", id), zap.Error(err))
		return err
	}
	s.invalidate(ctx, h.Year, h.Month)
	return nil
}

func (s *calendarService) invalidate(ctx context.Context, year, month int) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, holidayCacheKey(year, month)); err != nil {
		s.logger.Warn("清除节假日缓存失败", zap.Int("year", year), zap.Int("month", month), zap.Error(err))
	}
}
