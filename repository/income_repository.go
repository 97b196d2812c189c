package repository

import (
	"context"
	"time"

	"thrive/models"

	"gorm.io/gorm"
)

// IncomeRepository defines income persistence operations.
type IncomeRepository interface {
	Create(ctx context.Context, income *models.Income) error
	FindOwned(ctx context.Context, id, userID uint) (*models.Income, error)
	ListByUser(ctx context.Context, userID uint, limit int) ([]models.Income, error)
	ListBetween(ctx context.Context, userID uint, from, to time.Time) ([]models.Income, error)
	Update(ctx context.Context, income *models.Income) error
	DeleteOwned(ctx context.Context, id, userID uint) error
	ListAll(ctx context.Context, limit int) ([]models.Income, error)
	Count(ctx context.Context) (int64, error)
	SumAll(ctx context.Context) (float64, error)
}

type incomeRepository struct {
	db *gorm.DB
}

// NewIncomeRepository builds a GORM-backed repository.
func NewIncomeRepository(db *gorm.DB) IncomeRepository {
	return &incomeRepository{db: db}
}

func (r *incomeRepository) Create(ctx context.Context, income *models.Income) error {
	return r.db.WithContext(ctx).Create(income).Error
}

func (r *incomeRepository) FindOwned(ctx context.Context, id, userID uint) (*models.Income, error) {
	var income models.Income
	if err := owned(r.db.WithContext(ctx), id, userID).First(&income).Error; err != nil {
		return nil, translate(err)
	}
	return &income, nil
}

func (r *incomeRepository) ListByUser(ctx context.Context, userID uint, limit int) ([]models.Income, error) {
	var incomes []models.Income
	query := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("date DESC, id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&incomes).Error; err != nil {
		return nil, err
	}
	return incomes, nil
}

func (r *incomeRepository) ListBetween(ctx context.Context, userID uint, from, to time.Time) ([]models.Income, error) {
	var incomes []models.Income
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND date >= ? AND date < ?", userID, from.UTC(), to.UTC()).
		Order("date DESC, id DESC").
		Find(&incomes).Error
	return incomes, err
}

func (r *incomeRepository) Update(ctx context.Context, income *models.Income) error {
	result := r.db.WithContext(ctx).Model(income).
		Where("user_id = ?", income.UserID).
		Select("Amount", "Source", "Date", "UpdatedAt").
		Updates(income)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *incomeRepository) DeleteOwned(ctx context.Context, id, userID uint) error {
	result := owned(r.db.WithContext(ctx), id, userID).Delete(&models.Income{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *incomeRepository) ListAll(ctx context.Context, limit int) ([]models.Income, error) {
	var incomes []models.Income
	err := withOwner(r.db.WithContext(ctx)).
		Order("date DESC, id DESC").
		Limit(limit).
		Find(&incomes).Error
	return incomes, err
}

func (r *incomeRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Income{}).Count(&count).Error
	return count, err
}

func (r *incomeRepository) SumAll(ctx context.Context) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).Model(&models.Income{}).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	return total, err
}
