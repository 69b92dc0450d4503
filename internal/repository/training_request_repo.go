package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"navy-training/backend/internal/model"
)

// TrainingRequestRepository 训练申请数据访问接口
type TrainingRequestRepository interface {
	Create(ctx context.Context, req *model.TrainingRequest) error
	GetByID(ctx context.Context, id int64) (*model.TrainingRequest, error)
	// GetByIDForUpdate 读取并锁定申请行，须在事务内调用
	GetByIDForUpdate(ctx context.Context, id int64) (*model.TrainingRequest, error)
	Update(ctx context.Context, req *model.TrainingRequest) error
	List(ctx context.Context) ([]model.TrainingRequest, error)
	ListByUser(ctx context.Context, userID int64) ([]model.TrainingRequest, error)
	// ListApprovedVenueIDsByDate 当日已批准申请占用的主场地，升序去重
	ListApprovedVenueIDsByDate(ctx context.Context, date time.Time) ([]int64, error)
}

type trainingRequestRepo struct {
	db *gorm.DB
}

// NewTrainingRequestRepo 创建 TrainingRequestRepository 实例
func NewTrainingRequestRepo(db *gorm.DB) TrainingRequestRepository {
	return &trainingRequestRepo{db: db}
}

func (r *trainingRequestRepo) Create(ctx context.Context, req *model.TrainingRequest) error {
	return r.db.WithContext(ctx).Create(req).Error
}

func (r *trainingRequestRepo) GetByID(ctx context.Context, id int64) (*model.TrainingRequest, error) {
	var req model.TrainingRequest
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&req).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *trainingRequestRepo) GetByIDForUpdate(ctx context.Context, id int64) (*model.TrainingRequest, error) {
	var req model.TrainingRequest
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&req).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *trainingRequestRepo) Update(ctx context.Context, req *model.TrainingRequest) error {
	return r.db.WithContext(ctx).Save(req).Error
}

func (r *trainingRequestRepo) List(ctx context.Context) ([]model.TrainingRequest, error) {
	var reqs []model.TrainingRequest
	err := r.db.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Find(&reqs).Error
	return reqs, err
}

func (r *trainingRequestRepo) ListByUser(ctx context.Context, userID int64) ([]model.TrainingRequest, error) {
	var reqs []model.TrainingRequest
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&reqs).Error
	return reqs, err
}

func (r *trainingRequestRepo) ListApprovedVenueIDsByDate(ctx context.Context, date time.Time) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).
		Model(&model.TrainingRequest{}).
		Distinct("venue_id").
		Where("status = ? AND request_date = ?", model.StatusApproved, date).
		Order("venue_id ASC").
		Pluck("venue_id", &ids).Error
	return ids, err
}
