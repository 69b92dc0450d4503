package repository

import (
	"context"

	"gorm.io/gorm"

	"navy-training/backend/internal/model"
)

// InstructorRepository 讲师只读访问接口
type InstructorRepository interface {
	GetByID(ctx context.Context, id int64) (*model.Instructor, error)
	ListByIDs(ctx context.Context, ids []int64) ([]model.Instructor, error)
}

type instructorRepo struct {
	db *gorm.DB
}

// NewInstructorRepo 创建 InstructorRepository 实例
func NewInstructorRepo(db *gorm.DB) InstructorRepository {
	return &instructorRepo{db: db}
}

func (r *instructorRepo) GetByID(ctx context.Context, id int64) (*model.Instructor, error) {
	var instructor model.Instructor
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&instructor).Error
	if err != nil {
		return nil, err
	}
	return &instructor, nil
}

func (r *instructorRepo) ListByIDs(ctx context.Context, ids []int64) ([]model.Instructor, error) {
	var instructors []model.Instructor
	if len(ids) == 0 {
		return instructors, nil
	}
	err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&instructors).Error
	return instructors, err
}
