package service

import (
	"go.uber.org/zap"

	"navy-training/backend/internal/repository"
	"navy-training/backend/pkg/clock"
)

// Service 所有 Service 的聚合入口
type Service struct {
	TrainingRequest    TrainingRequestService
	Availability       AvailabilityService
	InstructorSchedule InstructorScheduleService
	Export             ExportService
	Calendar           CalendarService
}

// NewService 创建 Service 聚合
func NewService(
	repo *repository.Repository,
	clk clock.Clock,
	logger *zap.Logger,
) *Service {
	return &Service{
		TrainingRequest:    NewTrainingRequestService(repo, clk, logger),
		Availability:       NewAvailabilityService(repo, logger),
		InstructorSchedule: NewInstructorScheduleService(repo, clk, logger),
		Export:             NewExportService(repo, clk, logger),
		Calendar:           NewCalendarService(repo, clk, logger),
	}
}
