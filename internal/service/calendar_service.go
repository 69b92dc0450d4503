package service

import (
	"context"
	"errors"
	"fmt"

	ics "github.com/arran4/golang-ical"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"navy-training/backend/internal/dto"
	"navy-training/backend/internal/model"
	"navy-training/backend/internal/repository"
	"navy-training/backend/pkg/clock"
	pkgerrors "navy-training/backend/pkg/errors"
)

// scheduleUIDNamespace 日程 UID 的命名空间，同一日程多次订阅 UID 不变
var scheduleUIDNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("navy-training/instructor-schedules"))

// CalendarService 讲师日程 iCalendar 订阅
type CalendarService interface {
	// InstructorICS 生成讲师日程的 RFC 5545 文本；每条日程一个全天 VEVENT
	InstructorICS(ctx context.Context, instructorID int64, q *dto.DateWindowQuery) ([]byte, error)
}

type calendarService struct {
	repo   *repository.Repository
	clock  clock.Clock
	logger *zap.Logger
}

// NewCalendarService 创建 CalendarService 实例
func NewCalendarService(repo *repository.Repository, clk clock.Clock, logger *zap.Logger) CalendarService {
	return &calendarService{repo: repo, clock: clk, logger: logger}
}

func (s *calendarService) InstructorICS(ctx context.Context, instructorID int64, q *dto.DateWindowQuery) ([]byte, error) {
	start, end, windowed, err := parseWindow(q)
	if err != nil {
		return nil, err
	}

	instructor, err := s.repo.Instructor.GetByID(ctx, instructorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.NotFound(ErrInstructorNotFound, "instructor", instructorID)
		}
		s.logger.Error("查询讲师失败", zap.Int64("instructor_id", instructorID), zap.Error(err))
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

	now := s.clock.Now()
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//navy-training//instructor-schedule//KO")
	cal.SetXWRCalName(fmt.Sprintf("%s %s 日程", instructor.Rank, instructor.Name))

	for i := range schedules {
		sc := &schedules[i]
		event := cal.AddEvent(scheduleUID(sc.ID))
		event.SetDtStampTime(now)
		event.SetCreatedTime(sc.CreatedAt)
		event.SetAllDayStartAt(sc.ScheduleDate)
		// DTEND 不含当天
		event.SetAllDayEndAt(sc.LastDate().AddDate(0, 0, 1))
		summary := sc.Description
		if summary == "" {
			summary = sourceLabels[sc.Source]
		}
		event.SetSummary(summary)
		if sc.RequestID != nil {
			event.SetDescription(fmt.Sprintf("训练申请 #%d", *sc.RequestID))
		}
	}

	return []byte(cal.Serialize()), nil
}

func scheduleUID(id int64) string {
	return uuid.NewSHA1(scheduleUIDNamespace, []byte(fmt.Sprintf("%d", id))).String() + "@navy-training"
}
