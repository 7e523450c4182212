package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"creditrisk/predictor/internal/models"
)

var ErrPredictionNotFound = errors.New("prediction not found")

type PredictionRepository interface {
	Create(ctx context.Context, prediction *models.Prediction) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Prediction, error)
	ListRecent(ctx context.Context, limit int) ([]models.Prediction, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type predictionRepository struct {
	db *gorm.DB
}

func NewPredictionRepository(db *gorm.DB) PredictionRepository {
	return &predictionRepository{db: db}
}

func (r *predictionRepository) Create(ctx context.Context, prediction *models.Prediction) error {
	if err := r.db.WithContext(ctx).Create(prediction).Error; err != nil {
		return fmt.Errorf("failed to create prediction: %w", err)
	}
	return nil
}

func (r *predictionRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Prediction, error) {
	var p models.Prediction
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPredictionNotFound
		}
		return nil, fmt.Errorf("failed to find prediction: %w", err)
	}
	return &p, nil
}

func (r *predictionRepository) ListRecent(ctx context.Context, limit int) ([]models.Prediction, error) {
	predictions := make([]models.Prediction, 0, limit)
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&predictions).Error

	if err != nil {
		return nil, fmt.Errorf("failed to list predictions: %w", err)
	}

	return predictions, nil
}

func (r *predictionRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("created_at < ?", cutoff).
		Delete(&models.Prediction{})

	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete old predictions: %w", result.Error)
	}

	return result.RowsAffected, nil
}
