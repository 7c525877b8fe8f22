package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"todoapi/internal/model"
)

type ActivityRepository struct {
	db *gorm.DB
}

func NewActivityRepository(db *gorm.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

func (r *ActivityRepository) Create(ctx context.Context, event *model.Activity) error {
	if err := r.db.WithContext(ctx).Create(event).Error; err != nil {
		return fmt.Errorf("create activity failed: %w", err)
	}
	return nil
}

func (r *ActivityRepository) ListRecentByUserID(ctx context.Context, userID uint, limit int) ([]model.Activity, error) {
	if limit <= 0 {
		limit = 20
	}
	var events []model.Activity
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&events).Error; err != nil {
		return nil, fmt.Errorf("list activity failed: %w", err)
	}
	return events, nil
}
