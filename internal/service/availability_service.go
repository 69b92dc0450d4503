package service

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"navy-training/backend/internal/dto"
	"navy-training/backend/internal/model"
	"navy-training/backend/internal/repository"
)

// AvailabilityService 某日讲师与场地占用查询（只读）
//
// 讲师：任一日程区间覆盖该日即占用，不区分来源
// 场地：仅统计当日开始且已批准申请的主场地，副场地与结束日期不计入
type AvailabilityService interface {
	GetAvailability(ctx context.Context, date string) (*dto.AvailabilityResponse, error)
}

type availabilityService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewAvailabilityService 创建 AvailabilityService 实例
func NewAvailabilityService(repo *repository.Repository, logger *zap.Logger) AvailabilityService {
	return &availabilityService{repo: repo, logger: logger}
}

func (s *availabilityService) GetAvailability(ctx context.Context, date string) (*dto.AvailabilityResponse, error) {
	d, err := parseDate("date", date)
	if err != nil {
		return nil, err
	}

	instructorIDs, err := s.repo.InstructorSchedule.ListBookedInstructorIDs(ctx, d)
	if err != nil {
		s.logger.Error("查询讲师占用失败", zap.String("date", date), zap.Error(err))
		return nil, err
	}
	venueIDs, err := s.repo.TrainingRequest.ListApprovedVenueIDsByDate(ctx, d)
	if err != nil {
		s.logger.Error("查询场地占用失败", zap.String("date", date), zap.Error(err))
		return nil, err
	}

	return &dto.AvailabilityResponse{
		Date:                d.Format(model.DateLayout),
		BookedInstructorIDs: sortedUnique(instructorIDs),
		BookedVenueIDs:      sortedUnique(venueIDs),
	}, nil
}

// sortedUnique 升序去重，结果非 nil
func sortedUnique(ids []int64) []int64 {
	out := uniqueIDs(ids)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
