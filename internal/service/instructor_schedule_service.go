package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"navy-training/backend/internal/dto"
	"navy-training/backend/internal/model"
	"navy-training/backend/internal/repository"
	"navy-training/backend/pkg/clock"
	pkgerrors "navy-training/backend/pkg/errors"
)

// ── 讲师日程模块业务错误 ──

var (
	ErrInstructorNotFound     = errors.New("讲师不存在")
	ErrScheduleNotFound       = errors.New("讲师日程不存在")
	ErrScheduleOwnedByRequest = errors.New("该日程由训练申请生成，只能通过变更申请状态撤回")
)

// InstructorScheduleService 讲师日程接口（手动录入与查询）
// REQUEST 来源的日程只由训练申请的状态迁移生成和删除
type InstructorScheduleService interface {
	Create(ctx context.Context, req *dto.CreateInstructorScheduleRequest, callerID int64) (*dto.InstructorScheduleResponse, error)
	Delete(ctx context.Context, id int64, callerID int64) error
	List(ctx context.Context, req *dto.InstructorScheduleListRequest) ([]dto.InstructorScheduleResponse, error)
	ListByInstructor(ctx context.Context, instructorID int64, window *dto.DateWindowQuery) ([]dto.InstructorScheduleResponse, error)
}

type instructorScheduleService struct {
	repo   *repository.Repository
	clock  clock.Clock
	logger *zap.Logger
}

// NewInstructorScheduleService 创建 InstructorScheduleService 实例
func NewInstructorScheduleService(repo *repository.Repository, clk clock.Clock, logger *zap.Logger) InstructorScheduleService {
	return &instructorScheduleService{repo: repo, clock: clk, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *instructorScheduleService) Create(ctx context.Context, req *dto.CreateInstructorScheduleRequest, callerID int64) (*dto.InstructorScheduleResponse, error) {
	start, end, err := parseDateRange("schedule_date", req.ScheduleDate, "end_date", req.EndDate)
	if err != nil {
		return nil, err
	}

	if _, err := s.repo.Instructor.GetByID(ctx, req.InstructorID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.NotFound(ErrInstructorNotFound, "instructor", req.InstructorID)
		}
		s.logger.Error("查询讲师失败", zap.Int64("instructor_id", req.InstructorID), zap.Error(err))
		return nil, err
	}

	schedule := &model.InstructorSchedule{
		InstructorID: req.InstructorID,
		ScheduleDate: start,
		EndDate:      end,
		Description:  req.Description,
		Source:       model.SourceManual,
		CreatedAt:    s.clock.Now(),
	}
	if err := s.repo.InstructorSchedule.Create(ctx, schedule); err != nil {
		s.logger.Error("创建讲师日程失败", zap.Int64("instructor_id", req.InstructorID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("讲师日程已录入",
		zap.Int64("schedule_id", schedule.ID),
		zap.Int64("instructor_id", schedule.InstructorID),
		zap.Int64("caller_id", callerID),
	)

	vb, err := loadScheduleViews(ctx, s.repo, []model.InstructorSchedule{*schedule})
	if err != nil {
		return nil, err
	}
	resp := vb.schedule(schedule)
	return &resp, nil
}

// ────────────────────── Delete ──────────────────────

// Delete 仅允许删除手动录入的日程；锁住日程行，避免与申请撤回交错
func (s *instructorScheduleService) Delete(ctx context.Context, id int64, callerID int64) error {
	return s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		schedule, err := txRepo.InstructorSchedule.GetByIDForUpdate(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.NotFound(ErrScheduleNotFound, "instructor_schedule", id)
			}
			s.logger.Error("查询讲师日程失败", zap.Int64("schedule_id", id), zap.Error(err))
			return err
		}
		if schedule.Source == model.SourceRequest {
			return pkgerrors.InvalidOperation(ErrScheduleOwnedByRequest, "instructor_schedule", id)
		}

		if err := txRepo.InstructorSchedule.Delete(ctx, id); err != nil {
			s.logger.Error("删除讲师日程失败", zap.Int64("schedule_id", id), zap.Error(err))
			return err
		}
		s.logger.Info("讲师日程已删除", zap.Int64("schedule_id", id), zap.Int64("caller_id", callerID))
		return nil
	})
}

// ────────────────────── List ──────────────────────

func (s *instructorScheduleService) List(ctx context.Context, req *dto.InstructorScheduleListRequest) ([]dto.InstructorScheduleResponse, error) {
	start, err := parseDate("start_date", req.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := parseDate("end_date", req.EndDate)
	if err != nil {
		return nil, err
	}
	if end.Before(start) {
		return nil, pkgerrors.BadRequest(ErrInvalidDateRange, "end_date", req.EndDate)
	}

	schedules, err := s.repo.InstructorSchedule.ListByDateRange(ctx, start, end, req.InstructorID)
	if err != nil {
		s.logger.Error("查询讲师日程失败", zap.Error(err))
		return nil, err
	}
	return s.toResponses(ctx, schedules)
}

func (s *instructorScheduleService) ListByInstructor(ctx context.Context, instructorID int64, window *dto.DateWindowQuery) ([]dto.InstructorScheduleResponse, error) {
	start, end, windowed, err := parseWindow(window)
	if err != nil {
		return nil, err
	}

	var schedules []model.InstructorSchedule
	if windowed {
		schedules, err = s.repo.InstructorSchedule.ListByDateRange(ctx, start, end, &instructorID)
	} else {
		schedules, err = s.repo.InstructorSchedule.ListByInstructor(ctx, instructorID)
	}
	if err != nil {
		s.logger.Error("查询讲师日程失败", zap.Int64("instructor_id", instructorID), zap.Error(err))
		return nil, err
	}
	return s.toResponses(ctx, schedules)
}

func (s *instructorScheduleService) toResponses(ctx context.Context, schedules []model.InstructorSchedule) ([]dto.InstructorScheduleResponse, error) {
	vb, err := loadScheduleViews(ctx, s.repo, schedules)
	if err != nil {
		s.logger.Error("加载讲师信息失败", zap.Error(err))
		return nil, err
	}
	result := make([]dto.InstructorScheduleResponse, 0, len(schedules))
	for i := range schedules {
		result = append(result, vb.schedule(&schedules[i]))
	}
	return result, nil
}
