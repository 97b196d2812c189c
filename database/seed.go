package database

import (
	"fmt"
	"time"

	"thrive/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	SampleEmail    = "sample@thrive.app"
	SamplePassword = "pass123"
)

// SeedResult counts what Seed inserted.
type SeedResult struct {
	User     models.User
	Expenses int
	Incomes  int
	Goals    int
}

// Seed wipes every table and loads one sample account with a month of activity.
// Destructive: only meant for local and demo databases.
func Seed(db *gorm.DB, now time.Time) (*SeedResult, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(SamplePassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now = now.UTC()
	daysAgo := func(d int) time.Time { return now.AddDate(0, 0, -d) }
	daysAhead := func(d int) *time.Time { t := now.AddDate(0, 0, d); return &t }

	result := &SeedResult{}
	err = db.Transaction(func(tx *gorm.DB) error {
		// children before parents
		for _, table := range []any{
			&models.Recommendation{},
			&models.Prediction{},
			&models.SavingsGoal{},
			&models.Income{},
			&models.Expense{},
			&models.User{},
		} {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(table).Error; err != nil {
				return fmt.Errorf("wipe: %w", err)
			}
		}

		user := models.User{Name: "Sample User", Email: SampleEmail, PasswordHash: string(hashed)}
		if err := tx.Create(&user).Error; err != nil {
			return err
		}

		expenses := []models.Expense{
			{UserID: user.ID, Amount: 12.5, Category: "Food", Description: "Coffee", Date: daysAgo(1)},
			{UserID: user.ID, Amount: 45.00, Category: "Transport", Description: "Train ticket", Date: daysAgo(2)},
			{UserID: user.ID, Amount: 120.00, Category: "Groceries", Description: "Weekly shop", Date: daysAgo(3)},
			{UserID: user.ID, Amount: 25.99, Category: "Entertainment", Description: "Movie tickets", Date: daysAgo(5)},
			{UserID: user.ID, Amount: 89.50, Category: "Utilities", Description: "Electricity bill", Date: daysAgo(7)},
			{UserID: user.ID, Amount: 15.75, Category: "Food", Description: "Lunch", Date: daysAgo(10)},
		}
		incomes := []models.Income{
			{UserID: user.ID, Amount: 3500.00, Source: "Salary", Date: daysAgo(5)},
			{UserID: user.ID, Amount: 250.00, Source: "Freelance", Date: daysAgo(15)},
			{UserID: user.ID, Amount: 50.00, Source: "Investment", Date: daysAgo(20)},
		}
		goals := []models.SavingsGoal{
			{UserID: user.ID, Title: "Emergency Fund", TargetAmount: 5000, CurrentAmount: 1250, Deadline: daysAhead(365)},
			{UserID: user.ID, Title: "Vacation", TargetAmount: 2000, CurrentAmount: 450, Deadline: daysAhead(180)},
			{UserID: user.ID, Title: "New Laptop", TargetAmount: 1500, CurrentAmount: 300, Deadline: daysAhead(90)},
		}

		if err := tx.Create(&expenses).Error; err != nil {
			return err
		}
		if err := tx.Create(&incomes).Error; err != nil {
			return err
		}
		if err := tx.Create(&goals).Error; err != nil {
			return err
		}

		result.User = user
		result.Expenses, result.Incomes, result.Goals = len(expenses), len(incomes), len(goals)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("seed: %w", err)
	}
	return result, nil
}
