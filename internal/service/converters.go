package service

import (
	"time"

	"rescue-roster/internal/dto"
	"rescue-roster/internal/model"
	"rescue-roster/pkg/jalali"
)

const timeLayout = "2006-01-02T15:04:05Z"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatTime(*t)
	return &s
}

func toUserResponse(u *model.User) *dto.UserResponse {
	return &dto.UserResponse{
		ID:        u.UserID,
		Username:  u.Username,
		Name:      u.Name,
		Role:      u.Role,
		CreatedAt: formatTime(u.CreatedAt),
	}
}

func toBaseResponse(b *model.Base) *dto.BaseResponse {
	return &dto.BaseResponse{
		ID:        b.BaseID,
		Name:      b.Name,
		Number:    b.Number,
		Type:      b.Type,
		CreatedAt: formatTime(b.CreatedAt),
		UpdatedAt: formatTime(b.UpdatedAt),
	}
}

func toWorkShiftResponse(s *model.WorkShift) *dto.WorkShiftResponse {
	return &dto.WorkShiftResponse{
		ID:              s.WorkShiftID,
		Title:           s.Title,
		EquivalentHours: s.EquivalentHours,
		ShiftCode:       s.ShiftCode,
		CreatedAt:       formatTime(s.CreatedAt),
		UpdatedAt:       formatTime(s.UpdatedAt),
	}
}

func toPersonnelResponse(p *model.Personnel) *dto.PersonnelResponse {
	return &dto.PersonnelResponse{
		ID:                 p.PersonnelID,
		FirstName:          p.FirstName,
		LastName:           p.LastName,
		FullName:           p.FullName(),
		NationalID:         p.NationalID,
		EmploymentStatus:   p.EmploymentStatus,
		ProductivityStatus: p.ProductivityStatus,
		DriverStatus:       p.DriverStatus,
		IsGuest:            p.IsGuest,
		CreatedAt:          formatTime(p.CreatedAt),
	}
}

func toLogResponse(l *model.PerformanceLog) *dto.LogResponse {
	return &dto.LogResponse{
		ID:          l.LogID,
		UserID:      l.UserID,
		BaseID:      l.BaseID,
		Year:        l.Year,
		Month:       l.Month,
		MonthName:   jalali.MonthName(l.Month),
		Status:      l.Status,
		SubmittedAt: formatTimePtr(l.SubmittedAt),
		Version:     l.Version,
		CreatedAt:   formatTime(l.CreatedAt),
		UpdatedAt:   formatTime(l.UpdatedAt),
	}
}

func toEntryResponse(e *model.PerformanceEntry) *dto.EntryResponse {
	resp := &dto.EntryResponse{
		ID:             e.EntryID,
		LogID:          e.LogID,
		UserID:         e.UserID,
		PersonnelID:    e.PersonnelID,
		ShiftID:        e.ShiftID,
		Date:           e.Date,
		Year:           e.Year,
		Month:          e.Month,
		Day:            e.Day,
		EntryType:      e.EntryType,
		Missions:       e.Missions,
		Meals:          e.Meals,
		LastModifiedBy: e.LastModifiedBy,
		IsFinalized:    e.IsFinalized,
		FinalizedAt:    formatTimePtr(e.FinalizedAt),
		CreatedAt:      formatTime(e.CreatedAt),
		UpdatedAt:      formatTime(e.UpdatedAt),
	}
	if e.Shift != nil {
		resp.Shift = &dto.ShiftBrief{
			ID:              e.Shift.WorkShiftID,
			Title:           e.Shift.Title,
			ShiftCode:       e.Shift.ShiftCode,
			EquivalentHours: e.Shift.EquivalentHours,
		}
	}
	return resp
}

func toEntryResponses(entries []model.PerformanceEntry) []dto.EntryResponse {
	result := make([]dto.EntryResponse, 0, len(entries))
	for i := range entries {
		result = append(result, *toEntryResponse(&entries[i]))
	}
	return result
}

func toAssignmentResponse(a *model.PerformanceAssignment) *dto.AssignmentResponse {
	return &dto.AssignmentResponse{
		ID:          a.AssignmentID,
		LogID:       a.LogID,
		PersonnelID: a.PersonnelID,
		BaseID:      a.BaseID,
		ShiftID:     a.ShiftID,
		Date:        a.Date,
		Year:        a.Year,
		Month:       a.Month,
		Day:         a.Day,
		UpdatedAt:   formatTime(a.UpdatedAt),
	}
}

func toHolidayResponse(h *model.IranHoliday) *dto.HolidayResponse {
	return &dto.HolidayResponse{
		ID:        h.HolidayID,
		Year:      h.Year,
		Month:     h.Month,
		Day:       h.Day,
		Date:      jalali.FormatDate(h.Year, h.Month, h.Day),
		Title:     h.Title,
		IsHoliday: h.IsHoliday,
	}
}
