package repository

import (
	"context"
	"time"

	"thrive/models"

	"gorm.io/gorm"
)

// ExpenseRepository defines expense persistence operations. Every per-user
// lookup is scoped by owner.
type ExpenseRepository interface {
	Create(ctx context.Context, expense *models.Expense) error
	FindOwned(ctx context.Context, id, userID uint) (*models.Expense, error)
	ListByUser(ctx context.Context, userID uint, limit int) ([]models.Expense, error)
	// ListBetween returns expenses dated in [from, to), newest first.
	ListBetween(ctx context.Context, userID uint, from, to time.Time) ([]models.Expense, error)
	ListSince(ctx context.Context, userID uint, since time.Time) ([]models.Expense, error)
	Update(ctx context.Context, expense *models.Expense) error
	DeleteOwned(ctx context.Context, id, userID uint) error
	ListAll(ctx context.Context, limit int) ([]models.Expense, error)
	Count(ctx context.Context) (int64, error)
	SumAll(ctx context.Context) (float64, error)
}

type expenseRepository struct {
	db *gorm.DB
}

// NewExpenseRepository builds a GORM-backed repository.
func NewExpenseRepository(db *gorm.DB) ExpenseRepository {
	return &expenseRepository{db: db}
}

func (r *expenseRepository) Create(ctx context.Context, expense *models.Expense) error {
	return r.db.WithContext(ctx).Create(expense).Error
}

func (r *expenseRepository) FindOwned(ctx context.Context, id, userID uint) (*models.Expense, error) {
	var expense models.Expense
	if err := owned(r.db.WithContext(ctx), id, userID).First(&expense).Error; err != nil {
		return nil, translate(err)
	}
	return &expense, nil
}

func (r *expenseRepository) ListByUser(ctx context.Context, userID uint, limit int) ([]models.Expense, error) {
	var expenses []models.Expense
	query := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("date DESC, id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&expenses).Error; err != nil {
		return nil, err
	}
	return expenses, nil
}

func (r *expenseRepository) ListBetween(ctx context.Context, userID uint, from, to time.Time) ([]models.Expense, error) {
	var expenses []models.Expense
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND date >= ? AND date < ?", userID, from.UTC(), to.UTC()).
		Order("date DESC, id DESC").
		Find(&expenses).Error
	return expenses, err
}

func (r *expenseRepository) ListSince(ctx context.Context, userID uint, since time.Time) ([]models.Expense, error) {
	var expenses []models.Expense
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND date >= ?", userID, since.UTC()).
		Order("date DESC, id DESC").
		Find(&expenses).Error
	return expenses, err
}

// Update writes the mutable fields; owner and id are never reassigned.
func (r *expenseRepository) Update(ctx context.Context, expense *models.Expense) error {
	result := r.db.WithContext(ctx).Model(expense).
		Where("user_id = ?", expense.UserID).
		Select("Amount", "Category", "Description", "Date", "UpdatedAt").
		Updates(expense)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *expenseRepository) DeleteOwned(ctx context.Context, id, userID uint) error {
	result := owned(r.db.WithContext(ctx), id, userID).Delete(&models.Expense{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListAll returns the most recent expenses of every user with the owner attached.
func (r *expenseRepository) ListAll(ctx context.Context, limit int) ([]models.Expense, error) {
	var expenses []models.Expense
	err := withOwner(r.db.WithContext(ctx)).
		Order("date DESC, id DESC").
		Limit(limit).
		Find(&expenses).Error
	return expenses, err
}

func (r *expenseRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Expense{}).Count(&count).Error
	return count, err
}

func (r *expenseRepository) SumAll(ctx context.Context) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).Model(&models.Expense{}).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	return total, err
}
