package repository

import (
	"context"
	"fmt"

	"github.com/andamio/obralog/internal/obra/entity"
	"gorm.io/gorm"
)

type DailyLogRepository struct {
	db *gorm.DB
}

func NewDailyLogRepository(db *gorm.DB) *DailyLogRepository {
	return &DailyLogRepository{db: db}
}

func (r *DailyLogRepository) Create(ctx context.Context, log *entity.DailyLog) error {
	if err := r.db.WithContext(ctx).Create(log).Error; err != nil {
		return fmt.Errorf("create daily log: %w", err)
	}
	return nil
}

func (r *DailyLogRepository) GetByID(ctx context.Context, id string) (*entity.DailyLog, error) {
	var log entity.DailyLog
	if err := r.db.WithContext(ctx).First(&log, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return &log, nil
}

// ListByProject registros del proyecto, más recientes primero
func (r *DailyLogRepository) ListByProject(ctx context.Context, projectID string) ([]entity.DailyLog, error) {
	var logs []entity.DailyLog
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("date DESC, created_at DESC").
		Find(&logs).Error
	if err != nil {
		return nil, fmt.Errorf("list daily logs: %w", err)
	}
	return logs, nil
}

func (r *DailyLogRepository) Update(ctx context.Context, log *entity.DailyLog) error {
	if err := r.db.WithContext(ctx).Save(log).Error; err != nil {
		return fmt.Errorf("update daily log: %w", err)
	}
	return nil
}

func (r *DailyLogRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&entity.DailyLog{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("delete daily log: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
