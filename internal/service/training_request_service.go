package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"navy-training/backend/internal/dto"
	"navy-training/backend/internal/model"
	"navy-training/backend/internal/repository"
	"navy-training/backend/pkg/clock"
	pkgerrors "navy-training/backend/pkg/errors"
)

// ── 训练申请模块业务错误 ──

var (
	ErrTrainingRequestNotFound = errors.New("训练申请不存在")
	ErrRequesterNotFound       = errors.New("申请人不存在")
	ErrVenueNotFound           = errors.New("场地不存在")
	ErrSecondVenueNotFound     = errors.New("副场地不存在")
	ErrInvalidStatus           = errors.New("无效的申请状态")
	ErrInvalidStartTime        = errors.New("开始时间格式错误，应为 HH:MM")
)

// TrainingRequestService 训练申请生命周期接口
//
// 状态迁移的副作用：
//   - 非 APPROVED → APPROVED：为每位已指派讲师生成一条 REQUEST 日程
//   - APPROVED → CANCELLED / REJECTED：删除该申请生成的全部日程
//   - 其余迁移只写状态
type TrainingRequestService interface {
	Create(ctx context.Context, req *dto.CreateTrainingRequestRequest, callerID int64) (*dto.TrainingRequestResponse, error)
	GetByID(ctx context.Context, id int64) (*dto.TrainingRequestResponse, error)
	List(ctx context.Context, userID *int64) ([]dto.TrainingRequestResponse, error)
	AssignInstructors(ctx context.Context, id int64, req *dto.AssignInstructorsRequest, callerID int64) (*dto.TrainingRequestResponse, error)
	UpdateStatus(ctx context.Context, id int64, status string, callerID int64) (*dto.TrainingRequestResponse, error)
	UpdatePlan(ctx context.Context, id int64, plan string, callerID int64) (*dto.TrainingRequestResponse, error)
}

type trainingRequestService struct {
	repo   *repository.Repository
	clock  clock.Clock
	logger *zap.Logger
}

// NewTrainingRequestService 创建 TrainingRequestService 实例
func NewTrainingRequestService(repo *repository.Repository, clk clock.Clock, logger *zap.Logger) TrainingRequestService {
	return &trainingRequestService{repo: repo, clock: clk, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *trainingRequestService) Create(ctx context.Context, req *dto.CreateTrainingRequestRequest, callerID int64) (*dto.TrainingRequestResponse, error) {
	requestDate, requestEndDate, err := parseDateRange("request_date", req.RequestDate, "request_end_date", req.RequestEndDate)
	if err != nil {
		return nil, err
	}
	var startTime *string
	if req.StartTime != "" {
		if !model.IsHHMM(req.StartTime) {
			return nil, pkgerrors.BadRequest(ErrInvalidStartTime, "start_time", req.StartTime)
		}
		st := req.StartTime
		startTime = &st
	}

	userID := callerID
	if req.UserID != nil {
		userID = *req.UserID
	}
	if _, err := s.repo.User.GetByID(ctx, userID); err != nil {
		return nil, s.mapLookupErr(err, ErrRequesterNotFound, "user", userID)
	}
	if _, err := s.repo.Venue.GetByID(ctx, req.VenueID); err != nil {
		return nil, s.mapLookupErr(err, ErrVenueNotFound, "venue", req.VenueID)
	}
	if req.SecondVenueID != nil {
		if _, err := s.repo.Venue.GetByID(ctx, *req.SecondVenueID); err != nil {
			return nil, s.mapLookupErr(err, ErrSecondVenueNotFound, "second_venue", *req.SecondVenueID)
		}
	}

	identityID, err := s.resolveOptionalInstructor(ctx, s.repo, "identity", req.IdentityInstructorID)
	if err != nil {
		return nil, err
	}
	securityID, err := s.resolveOptionalInstructor(ctx, s.repo, "security", req.SecurityInstructorID)
	if err != nil {
		return nil, err
	}
	communicationID, err := s.resolveOptionalInstructor(ctx, s.repo, "communication", req.CommunicationInstructorID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	tr := &model.TrainingRequest{
		UserID:                    userID,
		IdentityInstructorID:      identityID,
		SecurityInstructorID:      securityID,
		CommunicationInstructorID: communicationID,
		VenueID:                   req.VenueID,
		SecondVenueID:             req.SecondVenueID,
		TrainingType:              req.TrainingType,
		Fleet:                     req.Fleet,
		RequestDate:               requestDate,
		RequestEndDate:            requestEndDate,
		StartTime:                 startTime,
		Status:                    model.StatusPending,
		Notes:                     req.Notes,
		CreatedAt:                 now,
		UpdatedAt:                 now,
	}

	if err := s.repo.TrainingRequest.Create(ctx, tr); err != nil {
		s.logger.Error("创建训练申请失败", zap.Int64("user_id", userID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("训练申请已创建",
		zap.Int64("request_id", tr.ID),
		zap.Int64("user_id", userID),
		zap.Int64("caller_id", callerID),
	)
	return s.toResponse(ctx, s.repo, tr)
}

// ────────────────────── GetByID / List ──────────────────────

func (s *trainingRequestService) GetByID(ctx context.Context, id int64) (*dto.TrainingRequestResponse, error) {
	tr, err := s.repo.TrainingRequest.GetByID(ctx, id)
	if err != nil {
		return nil, s.mapLookupErr(err, ErrTrainingRequestNotFound, "training_request", id)
	}
	return s.toResponse(ctx, s.repo, tr)
}

func (s *trainingRequestService) List(ctx context.Context, userID *int64) ([]dto.TrainingRequestResponse, error) {
	var (
		reqs []model.TrainingRequest
		err  error
	)
	if userID != nil {
		reqs, err = s.repo.TrainingRequest.ListByUser(ctx, *userID)
	} else {
		reqs, err = s.repo.TrainingRequest.List(ctx)
	}
	if err != nil {
		s.logger.Error("查询训练申请列表失败", zap.Error(err))
		return nil, err
	}

	vb, err := loadRequestViews(ctx, s.repo, reqs)
	if err != nil {
		s.logger.Error("加载申请关联数据失败", zap.Error(err))
		return nil, err
	}
	result := make([]dto.TrainingRequestResponse, 0, len(reqs))
	for i := range reqs {
		result = append(result, vb.request(&reqs[i]))
	}
	return result, nil
}

// ────────────────────── AssignInstructors ──────────────────────

// AssignInstructors 三个槽位整体覆盖：给出即解析（不存在视为未指派），缺省即清空
func (s *trainingRequestService) AssignInstructors(ctx context.Context, id int64, req *dto.AssignInstructorsRequest, callerID int64) (*dto.TrainingRequestResponse, error) {
	var updated *model.TrainingRequest
	err := s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		tr, err := txRepo.TrainingRequest.GetByIDForUpdate(ctx, id)
		if err != nil {
			return s.mapLookupErr(err, ErrTrainingRequestNotFound, "training_request", id)
		}

		if tr.IdentityInstructorID, err = s.resolveOptionalInstructor(ctx, txRepo, "identity", req.IdentityInstructorID); err != nil {
			return err
		}
		if tr.SecurityInstructorID, err = s.resolveOptionalInstructor(ctx, txRepo, "security", req.SecurityInstructorID); err != nil {
			return err
		}
		if tr.CommunicationInstructorID, err = s.resolveOptionalInstructor(ctx, txRepo, "communication", req.CommunicationInstructorID); err != nil {
			return err
		}
		tr.UpdatedAt = s.clock.Now()

		if err := txRepo.TrainingRequest.Update(ctx, tr); err != nil {
			s.logger.Error("更新讲师指派失败", zap.Int64("request_id", id), zap.Error(err))
			return err
		}
		updated = tr
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("讲师指派已更新", zap.Int64("request_id", id), zap.Int64("caller_id", callerID))
	return s.toResponse(ctx, s.repo, updated)
}

// ────────────────────── UpdateStatus ──────────────────────

// UpdateStatus 状态写入与日程生成/撤回在同一事务内完成，申请行加锁
// 并发的两次批准串行执行，后者看到的旧状态已是 APPROVED，不会重复生成
func (s *trainingRequestService) UpdateStatus(ctx context.Context, id int64, status string, callerID int64) (*dto.TrainingRequestResponse, error) {
	newStatus, ok := model.ParseRequestStatus(status)
	if !ok {
		return nil, pkgerrors.BadRequest(ErrInvalidStatus, "status", status)
	}

	var updated *model.TrainingRequest
	err := s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		tr, err := txRepo.TrainingRequest.GetByIDForUpdate(ctx, id)
		if err != nil {
			return s.mapLookupErr(err, ErrTrainingRequestNotFound, "training_request", id)
		}

		oldStatus := tr.Status
		tr.Status = newStatus
		tr.UpdatedAt = s.clock.Now()
		if err := txRepo.TrainingRequest.Update(ctx, tr); err != nil {
			s.logger.Error("更新申请状态失败", zap.Int64("request_id", id), zap.Error(err))
			return err
		}

		switch {
		case !oldStatus.IsBookingEffective() && newStatus.IsBookingEffective():
			if err := s.materialize(ctx, txRepo, tr); err != nil {
				return err
			}
		case oldStatus.IsBookingEffective() && newStatus.IsWithdrawal():
			if err := s.retract(ctx, txRepo, tr.ID); err != nil {
				return err
			}
		}

		s.logger.Info("申请状态已变更",
			zap.Int64("request_id", id),
			zap.String("from", string(oldStatus)),
			zap.String("to", string(newStatus)),
			zap.Int64("caller_id", callerID),
		)
		updated = tr
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.toResponse(ctx, s.repo, updated)
}

// materialize 为每位不同的已指派讲师生成一条覆盖申请日期区间的日程
func (s *trainingRequestService) materialize(ctx context.Context, txRepo *repository.Repository, tr *model.TrainingRequest) error {
	instructorIDs := tr.InstructorIDs()
	if len(instructorIDs) == 0 {
		return nil
	}

	requestID := tr.ID
	now := s.clock.Now()
	description := fmt.Sprintf("训练申请 #%d (%s)", tr.ID, tr.Fleet)
	schedules := make([]model.InstructorSchedule, 0, len(instructorIDs))
	for _, instructorID := range instructorIDs {
		schedules = append(schedules, model.InstructorSchedule{
			InstructorID: instructorID,
			ScheduleDate: tr.RequestDate,
			EndDate:      tr.RequestEndDate,
			Description:  description,
			Source:       model.SourceRequest,
			RequestID:    &requestID,
			CreatedAt:    now,
		})
	}

	if err := txRepo.InstructorSchedule.BatchCreate(ctx, schedules); err != nil {
		s.logger.Error("生成讲师日程失败", zap.Int64("request_id", tr.ID), zap.Error(err))
		return err
	}
	s.logger.Info("已生成讲师日程", zap.Int64("request_id", tr.ID), zap.Int("count", len(schedules)))
	return nil
}

// retract 删除申请生成的日程，无日程时为空操作
func (s *trainingRequestService) retract(ctx context.Context, txRepo *repository.Repository, requestID int64) error {
	deleted, err := txRepo.InstructorSchedule.DeleteByRequest(ctx, requestID)
	if err != nil {
		s.logger.Error("撤回讲师日程失败", zap.Int64("request_id", requestID), zap.Error(err))
		return err
	}
	s.logger.Info("已撤回讲师日程", zap.Int64("request_id", requestID), zap.Int64("count", deleted))
	return nil
}

// ────────────────────── UpdatePlan ──────────────────────

func (s *trainingRequestService) UpdatePlan(ctx context.Context, id int64, plan string, callerID int64) (*dto.TrainingRequestResponse, error) {
	var updated *model.TrainingRequest
	err := s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		tr, err := txRepo.TrainingRequest.GetByIDForUpdate(ctx, id)
		if err != nil {
			return s.mapLookupErr(err, ErrTrainingRequestNotFound, "training_request", id)
		}
		tr.Plan = &plan
		tr.UpdatedAt = s.clock.Now()
		if err := txRepo.TrainingRequest.Update(ctx, tr); err != nil {
			s.logger.Error("更新训练计划失败", zap.Int64("request_id", id), zap.Error(err))
			return err
		}
		updated = tr
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("训练计划已更新", zap.Int64("request_id", id), zap.Int64("caller_id", callerID))
	return s.toResponse(ctx, s.repo, updated)
}

// ── 内部辅助 ──

// resolveOptionalInstructor 可选讲师：未给出返回 nil；给出但不存在时记 Warn 并视为未指派
func (s *trainingRequestService) resolveOptionalInstructor(ctx context.Context, repo *repository.Repository, role string, id *int64) (*int64, error) {
	if id == nil {
		return nil, nil
	}
	instructor, err := repo.Instructor.GetByID(ctx, *id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Warn("讲师不存在，按未指派处理", zap.String("role", role), zap.Int64("instructor_id", *id))
			return nil, nil
		}
		s.logger.Error("查询讲师失败", zap.Int64("instructor_id", *id), zap.Error(err))
		return nil, err
	}
	resolved := instructor.ID
	return &resolved, nil
}

// mapLookupErr 记录不存在映射为 NotFound，其余错误原样返回
func (s *trainingRequestService) mapLookupErr(err error, sentinel error, entity string, id int64) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.NotFound(sentinel, entity, id)
	}
	s.logger.Error("查询失败", zap.String("entity", entity), zap.Int64("id", id), zap.Error(err))
	return err
}

func (s *trainingRequestService) toResponse(ctx context.Context, repo *repository.Repository, tr *model.TrainingRequest) (*dto.TrainingRequestResponse, error) {
	vb, err := loadRequestViews(ctx, repo, []model.TrainingRequest{*tr})
	if err != nil {
		s.logger.Error("加载申请关联数据失败", zap.Int64("request_id", tr.ID), zap.Error(err))
		return nil, err
	}
	resp := vb.request(tr)
	return &resp, nil
}
