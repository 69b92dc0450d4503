package repository

import (
	"context"

	"gorm.io/gorm"

	"navy-training/backend/internal/model"
)

// VenueRepository 场地只读访问接口
type VenueRepository interface {
	GetByID(ctx context.Context, id int64) (*model.Venue, error)
	ListByIDs(ctx context.Context, ids []int64) ([]model.Venue, error)
}

type venueRepo struct {
	db *gorm.DB
}

// NewVenueRepo 创建 VenueRepository 实例
func NewVenueRepo(db *gorm.DB) VenueRepository {
	return &venueRepo{db: db}
}

func (r *venueRepo) GetByID(ctx context.Context, id int64) (*model.Venue, error) {
	var venue model.Venue
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&venue).Error
	if err != nil {
		return nil, err
	}
	return &venue, nil
}

func (r *venueRepo) ListByIDs(ctx context.Context, ids []int64) ([]model.Venue, error) {
	var venues []model.Venue
	if len(ids) == 0 {
		return venues, nil
	}
	err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&venues).Error
	return venues, err
}
