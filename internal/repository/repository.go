package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repository 所有 Repository 的聚合入口
type Repository struct {
	db *gorm.DB

	User               UserRepository
	Instructor         InstructorRepository
	Venue              VenueRepository
	TrainingRequest    TrainingRequestRepository
	InstructorSchedule InstructorScheduleRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db:                 db,
		User:               NewUserRepo(db),
		Instructor:         NewInstructorRepo(db),
		Venue:              NewVenueRepo(db),
		TrainingRequest:    NewTrainingRequestRepo(db),
		InstructorSchedule: NewInstructorScheduleRepo(db),
	}
}

// BeginTx 开启事务；未连接数据库（单元测试）时返回 nil
func (r *Repository) BeginTx(ctx context.Context) (*gorm.DB, error) {
	if r.db == nil {
		return nil, nil
	}
	tx := r.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}
	return tx, nil
}

// WithTx 返回绑定到事务的 Repository；tx 为 nil 时返回自身
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return NewRepository(tx)
}

// Transaction 在单个事务内执行 fn，fn 返回错误即回滚
// 未连接数据库时直接以自身调用 fn
func (r *Repository) Transaction(ctx context.Context, fn func(txRepo *Repository) error) error {
	if r.db == nil {
		return fn(r)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(r.WithTx(tx))
	})
}
