package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"navy-training/backend/internal/model"
)

// InstructorScheduleRepository 讲师日程数据访问接口
type InstructorScheduleRepository interface {
	Create(ctx context.Context, schedule *model.InstructorSchedule) error
	BatchCreate(ctx context.Context, schedules []model.InstructorSchedule) error
	GetByID(ctx context.Context, id int64) (*model.InstructorSchedule, error)
	// GetByIDForUpdate 读取并锁定日程行，须在事务内调用
	GetByIDForUpdate(ctx context.Context, id int64) (*model.InstructorSchedule, error)
	Delete(ctx context.Context, id int64) error
	// DeleteByRequest 删除申请派生的全部日程，返回删除行数
	DeleteByRequest(ctx context.Context, requestID int64) (int64, error)
	// ListByDateRange 与 [start, end] 相交的日程，instructorID 非空时按讲师过滤
	ListByDateRange(ctx context.Context, start, end time.Time, instructorID *int64) ([]model.InstructorSchedule, error)
	ListByInstructor(ctx context.Context, instructorID int64) ([]model.InstructorSchedule, error)
	ListByRequest(ctx context.Context, requestID int64) ([]model.InstructorSchedule, error)
	// ListBookedInstructorIDs 当日有日程覆盖的讲师，升序去重
	ListBookedInstructorIDs(ctx context.Context, date time.Time) ([]int64, error)
}

type instructorScheduleRepo struct {
	db *gorm.DB
}

// NewInstructorScheduleRepo 创建 InstructorScheduleRepository 实例
func NewInstructorScheduleRepo(db *gorm.DB) InstructorScheduleRepository {
	return &instructorScheduleRepo{db: db}
}

func (r *instructorScheduleRepo) Create(ctx context.Context, schedule *model.InstructorSchedule) error {
	return r.db.WithContext(ctx).Create(schedule).Error
}

func (r *instructorScheduleRepo) BatchCreate(ctx context.Context, schedules []model.InstructorSchedule) error {
	if len(schedules) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&schedules).Error
}

func (r *instructorScheduleRepo) GetByID(ctx context.Context, id int64) (*model.InstructorSchedule, error) {
	var schedule model.InstructorSchedule
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&schedule).Error
	if err != nil {
		return nil, err
	}
	return &schedule, nil
}

func (r *instructorScheduleRepo) GetByIDForUpdate(ctx context.Context, id int64) (*model.InstructorSchedule, error) {
	var schedule model.InstructorSchedule
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&schedule).Error
	if err != nil {
		return nil, err
	}
	return &schedule, nil
}

func (r *instructorScheduleRepo) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.InstructorSchedule{}).Error
}

func (r *instructorScheduleRepo) DeleteByRequest(ctx context.Context, requestID int64) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("request_id = ?", requestID).
		Delete(&model.InstructorSchedule{})
	return result.RowsAffected, result.Error
}

func (r *instructorScheduleRepo) ListByDateRange(ctx context.Context, start, end time.Time, instructorID *int64) ([]model.InstructorSchedule, error) {
	var schedules []model.InstructorSchedule
	query := r.db.WithContext(ctx).
		Where("schedule_date <= ? AND COALESCE(end_date, schedule_date) >= ?", end, start)
	if instructorID != nil {
		query = query.Where("instructor_id = ?", *instructorID)
	}
	err := query.Order("schedule_date ASC, id ASC").Find(&schedules).Error
	return schedules, err
}

func (r *instructorScheduleRepo) ListByInstructor(ctx context.Context, instructorID int64) ([]model.InstructorSchedule, error) {
	var schedules []model.InstructorSchedule
	err := r.db.WithContext(ctx).
		Where("instructor_id = ?", instructorID).
		Order("schedule_date ASC, id ASC").
		Find(&schedules).Error
	return schedules, err
}

func (r *instructorScheduleRepo) ListByRequest(ctx context.Context, requestID int64) ([]model.InstructorSchedule, error) {
	var schedules []model.InstructorSchedule
	err := r.db.WithContext(ctx).
		Where("request_id = ?", requestID).
		Order("instructor_id ASC").
		Find(&schedules).Error
	return schedules, err
}

func (r *instructorScheduleRepo) ListBookedInstructorIDs(ctx context.Context, date time.Time) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).
		Model(&model.InstructorSchedule{}).
		Distinct("instructor_id").
		Where("schedule_date = ? OR (end_date IS NOT NULL AND schedule_date <= ? AND end_date >= ?)", date, date, date).
		Order("instructor_id ASC").
		Pluck("instructor_id", &ids).Error
	return ids, err
}
