package handler

import "rescue-roster/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth        *AuthHandler
	User        *UserHandler
	Base        *BaseHandler
	WorkShift   *WorkShiftHandler
	Personnel   *PersonnelHandler
	Profile     *ProfileHandler
	Performance *PerformanceHandler
	Admin       *AdminHandler
	Calendar    *CalendarHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:        NewAuthHandler(svc.Auth),
		User:        NewUserHandler(svc.User),
		Base:        NewBaseHandler(svc.Base),
		WorkShift:   NewWorkShiftHandler(svc.WorkShift),
		Personnel:   NewPersonnelHandler(svc.Personnel),
		Profile:     NewProfileHandler(svc.BaseProfile),
		Performance: NewPerformanceHandler(svc.Log, svc.Entry, svc.Grid),
		Admin:       NewAdminHandler(svc.Grid, svc.Assignment),
		Calendar:    NewCalendarHandler(svc.Calendar),
	}
}
