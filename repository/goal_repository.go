package repository

import (
	"context"

	"thrive/models"

	"gorm.io/gorm"
)

// deadline ascending, goals without a deadline last
const goalOrder = "deadline IS NULL, deadline ASC, id ASC"

// GoalRepository defines savings goal persistence operations.
type GoalRepository interface {
	Create(ctx context.Context, goal *models.SavingsGoal) error
	FindOwned(ctx context.Context, id, userID uint) (*models.SavingsGoal, error)
	ListByUser(ctx context.Context, userID uint) ([]models.SavingsGoal, error)
	Update(ctx context.Context, goal *models.SavingsGoal) error
	DeleteOwned(ctx context.Context, id, userID uint) error
	// AddFunds atomically increments current_amount and returns the updated goal.
	AddFunds(ctx context.Context, id, userID uint, amount float64) (*models.SavingsGoal, error)
	ListAll(ctx context.Context) ([]models.SavingsGoal, error)
	Count(ctx context.Context) (int64, error)
}

type goalRepository struct {
	db *gorm.DB
}

// NewGoalRepository builds a GORM-backed repository.
func NewGoalRepository(db *gorm.DB) GoalRepository {
	return &goalRepository{db: db}
}

func (r *goalRepository) Create(ctx context.Context, goal *models.SavingsGoal) error {
	return r.db.WithContext(ctx).Create(goal).Error
}

func (r *goalRepository) FindOwned(ctx context.Context, id, userID uint) (*models.SavingsGoal, error) {
	var goal models.SavingsGoal
	if err := owned(r.db.WithContext(ctx), id, userID).First(&goal).Error; err != nil {
		return nil, translate(err)
	}
	return &goal, nil
}

func (r *goalRepository) ListByUser(ctx context.Context, userID uint) ([]models.SavingsGoal, error) {
	var goals []models.SavingsGoal
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order(goalOrder).Find(&goals).Error
	return goals, err
}

func (r *goalRepository) Update(ctx context.Context, goal *models.SavingsGoal) error {
	result := r.db.WithContext(ctx).Model(goal).
		Where("user_id = ?", goal.UserID).
		Select("Title", "TargetAmount", "CurrentAmount", "Deadline", "UpdatedAt").
		Updates(goal)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *goalRepository) DeleteOwned(ctx context.Context, id, userID uint) error {
	result := owned(r.db.WithContext(ctx), id, userID).Delete(&models.SavingsGoal{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *goalRepository) AddFunds(ctx context.Context, id, userID uint, amount float64) (*models.SavingsGoal, error) {
	db := r.db.WithContext(ctx)
	result := owned(db.Model(&models.SavingsGoal{}), id, userID).
		Update("current_amount", gorm.Expr("current_amount + ?", amount))
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return r.FindOwned(ctx, id, userID)
}

func (r *goalRepository) ListAll(ctx context.Context) ([]models.SavingsGoal, error) {
	var goals []models.SavingsGoal
	err := withOwner(r.db.WithContext(ctx)).Order(goalOrder).Find(&goals).Error
	return goals, err
}

func (r *goalRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.SavingsGoal{}).Count(&count).Error
	return count, err
}
