package repository

import (
	"context"

	"thrive/models"

	"gorm.io/gorm"
)

// PredictionRepository stores served spending forecasts.
type PredictionRepository interface {
	Create(ctx context.Context, prediction *models.Prediction) error
	ListByUser(ctx context.Context, userID uint) ([]models.Prediction, error)
}

type predictionRepository struct {
	db *gorm.DB
}

// NewPredictionRepository builds a GORM-backed repository.
func NewPredictionRepository(db *gorm.DB) PredictionRepository {
	return &predictionRepository{db: db}
}

func (r *predictionRepository) Create(ctx context.Context, prediction *models.Prediction) error {
	return r.db.WithContext(ctx).Create(prediction).Error
}

func (r *predictionRepository) ListByUser(ctx context.Context, userID uint) ([]models.Prediction, error) {
	var predictions []models.Prediction
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC, id DESC").Find(&predictions).Error
	return predictions, err
}
