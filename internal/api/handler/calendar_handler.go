package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"rescue-roster/internal/dto"
	"rescue-roster/internal/service"
	"rescue-roster/pkg/jalali"
	"rescue-roster/pkg/response"
)

// CalendarHandler 伊朗历日历 HTTP 处理器
type CalendarHandler struct {
	calendarSvc service.CalendarService
}

// NewCalendarHandler 创建 CalendarHandler
func NewCalendarHandler(calendarSvc service.CalendarService) *CalendarHandler {
	return &CalendarHandler{calendarSvc: calendarSvc}
}

// Today 今日伊朗历日期
// GET /api/v1/calendar/today
func (h *CalendarHandler) Today(c *gin.Context) {
	response.OK(c, h.calendarSvc.Today(c.Request.Context()))
}

// Month 整月日历
// GET /api/v1/calendar/month?year=&month=
func (h *CalendarHandler) Month(c *gin.Context) {
	var q dto.PeriodQuery
	if !bindQuery(c, &q) {
		return
	}

	month, err := h.calendarSvc.Month(c.Request.Context(), q.Year, q.Month)
	if err != nil {
		h.handleCalendarError(c, err)
		return
	}
	response.OK(c, month)
}

// Holidays 月内节假日
// GET /api/v1/calendar/holidays?year=&month=
func (h *CalendarHandler) Holidays(c *gin.Context) {
	var q dto.PeriodQuery
	if !bindQuery(c, &q) {
		return
	}

	list, err := h.calendarSvc.Holidays(c.Request.Context(), q.Year, q.Month)
	if err != nil {
		h.handleCalendarError(c, err)
		return
	}
	response.OKList(c, list)
}

// CreateHoliday 新增节假日（管理员）
// POST /api/v1/calendar/holidays
func (h *CalendarHandler) CreateHoliday(c *gin.Context) {
	var req dto.CreateHolidayRequest
	if !bindJSON(c, &req) {
		return
	}

	holiday, err := h.calendarSvc.CreateHoliday(c.Request.Context(), &req)
	if err != nil {
		h.handleCalendarError(c, err)
		return
	}
	response.Created(c, holiday)
}

// DeleteHoliday 删除节假日（管理员）
// DELETE /api/v1/calendar/holidays/:id
func (h *CalendarHandler) DeleteHoliday(c *gin.Context) {
	if err := h.calendarSvc.DeleteHoliday(c.Request.Context(), c.Param("id")); err != nil {
		h.handleCalendarError(c, err)
		return
	}
	response.OK(c, nil)
}

func (h *CalendarHandler) handleCalendarError(c *gin.Context, err error) {
	if handleCommonError(c, err) {
		return
	}
	switch {
	case errors.Is(err, service.ErrHolidayNotFound):
		response.NotFound(c, 20001, "节假日不存在")
	case errors.Is(err, jalali.ErrInvalidMonth):
		response.BadRequest(c, response.CodeInvalidParam, "月份必须在 1-12 之间")
	default:
		response.InternalError(c)
	}
}
