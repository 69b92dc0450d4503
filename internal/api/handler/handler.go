package handler

import "navy-training/backend/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	TrainingRequest    *TrainingRequestHandler
	InstructorSchedule *InstructorScheduleHandler
	Export             *ExportHandler
	Calendar           *CalendarHandler
	Session            *SessionHandler
}

// NewHandler 创建 Handler 聚合
// blacklist 为 nil 时注销接口返回 503
func NewHandler(svc *service.Service, blacklist TokenRevoker) *Handler {
	return &Handler{
		TrainingRequest:    NewTrainingRequestHandler(svc.TrainingRequest, svc.Availability),
		InstructorSchedule: NewInstructorScheduleHandler(svc.InstructorSchedule),
		Export:             NewExportHandler(svc.Export),
		Calendar:           NewCalendarHandler(svc.Calendar),
		Session:            NewSessionHandler(blacklist),
	}
}
