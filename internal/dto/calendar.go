package dto

import "rescue-roster/pkg/jalali"

// ── 日历模块 DTO ──

// TodayResponse 当前伊朗历日期
type TodayResponse struct {
	Year      int    `json:"year"`
	Month     int    `json:"month"`
	Day       int    `json:"day"`
	Date      string `json:"date"`
	MonthName string `json:"month_name"`
	Weekday   string `json:"weekday"`
	Formatted string `json:"formatted"`
}

// MonthResponse 整月日历
type MonthResponse struct {
	Year        int               `json:"year"`
	Month       int               `json:"month"`
	MonthName   string            `json:"month_name"`
	DaysInMonth int               `json:"days_in_month"`
	Days        []jalali.Day      `json:"days"`
	Holidays    []HolidayResponse `json:"holidays"`
}

// CreateHolidayRequest 新增节假日请求
type CreateHolidayRequest struct {
	Year      int    `json:"year"       binding:"required,min=1,max=9999"`
	Month     int    `json:"month"      binding:"required,min=1,max=12"`
	Day       int    `json:"day"        binding:"required,min=1,max=31"`
	Title     string `json:"title"      binding:"required,max=200"`
	IsHoliday *bool  `json:"is_holiday"`
}

// HolidayResponse 节假日响应
type HolidayResponse struct {
	ID        string `json:"id"`
	Year      int    `json:"year"`
	Month     int    `json:"month"`
	Day       int    `json:"day"`
	Date      string `json:"date"`
	Title     string `json:"title"`
	IsHoliday bool   `json:"is_holiday"`
}
