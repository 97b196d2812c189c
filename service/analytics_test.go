package service

import (
	"context"
	"testing"
	"time"

	"thrive/models"
	"thrive/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var analyticsNow = time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)

func march(day int) time.Time {
	return time.Date(2024, time.March, day, 9, 0, 0, 0, time.UTC)
}

func newAnalytics(t *testing.T) (*AnalyticsService, *gorm.DB, *models.User) {
	db := newTestDB(t)
	svc := NewAnalyticsService(
		repository.NewExpenseRepository(db),
		repository.NewIncomeRepository(db),
		repository.NewGoalRepository(db),
		repository.NewPredictionRepository(db),
		fixedClock(analyticsNow),
	)
	return svc, db, seedUser(t, db, "stats@thrive.app", false)
}

func addExpense(t *testing.T, db *gorm.DB, userID uint, amount float64, category string, date time.Time) {
	t.Helper()
	require.NoError(t, db.Create(&models.Expense{UserID: userID, Amount: amount, Category: category, Date: date}).Error)
}

func TestAnalyticsService_Dashboard(t *testing.T) {
	svc, db, u := newAnalytics(t)
	other := seedUser(t, db, "noise@thrive.app", false)

	addExpense(t, db, u.ID, 10, "Food", march(14))
	addExpense(t, db, u.ID, 20, "Food", march(10))
	addExpense(t, db, u.ID, 30, "Food", march(5))
	addExpense(t, db, u.ID, 40, "Rent", time.Date(2024, time.February, 10, 0, 0, 0, 0, time.UTC))
	addExpense(t, db, u.ID, 5, "Travel", march(20)) // after now
	addExpense(t, db, other.ID, 999, "Food", march(14))
	require.NoError(t, db.Create(&models.Income{UserID: u.ID, Amount: 1000, Source: "Salary", Date: march(12)}).Error)
	require.NoError(t, db.Create(&models.Income{UserID: u.ID, Amount: 300, Source: "Bonus", Date: time.Date(2024, time.February, 20, 0, 0, 0, 0, time.UTC)}).Error)
	require.NoError(t, db.Create(&models.SavingsGoal{UserID: u.ID, Title: "Trip", TargetAmount: 200, CurrentAmount: 50}).Error)
	require.NoError(t, db.Create(&models.SavingsGoal{UserID: u.ID, Title: "Zero", TargetAmount: 0, CurrentAmount: 10}).Error)
	require.NoError(t, db.Create(&models.SavingsGoal{UserID: u.ID, Title: "Over", TargetAmount: 100, CurrentAmount: 150}).Error)

	d, err := svc.Dashboard(context.Background(), u.ID)
	require.NoError(t, err)

	assert.Equal(t, MonthSummary{TotalExpenses: 60, TotalIncome: 1000, SavingsGoalProgress: 940, TransactionCount: 4}, d.CurrentMonth)
	assert.Equal(t, MonthSummary{TotalExpenses: 40, TransactionCount: 1}, d.PreviousMonth)
	assert.Equal(t, 50.0, d.ExpenseChange)

	require.Len(t, d.CategoryBreakdown, 1)
	assert.Equal(t, CategoryShare{Category: "Food", Amount: 60, Count: 3, Percentage: 100}, d.CategoryBreakdown[0])

	progress := map[string]float64{}
	for _, g := range d.SavingsGoals {
		progress[g.Title] = g.Progress
	}
	assert.Equal(t, map[string]float64{"Trip": 25, "Zero": 0, "Over": 150}, progress)

	require.Len(t, d.RecentTransactions, 4)
	types := []string{}
	for _, tx := range d.RecentTransactions {
		types = append(types, tx.Type)
	}
	assert.Equal(t, []string{"expense", "income", "expense", "expense"}, types)
	assert.Equal(t, "Food", d.RecentTransactions[0].Description, "empty description falls back to category")
	require.NotNil(t, d.RecentTransactions[0].Category)
	assert.Nil(t, d.RecentTransactions[1].Category)
	assert.Equal(t, "Salary", d.RecentTransactions[1].Description)
}

func TestAnalyticsService_DashboardBreakdown(t *testing.T) {
	svc, db, u := newAnalytics(t)

	addExpense(t, db, u.ID, 12.5, "", march(14))
	addExpense(t, db, u.ID, 25, "Food", march(13))
	addExpense(t, db, u.ID, 12.5, "Fun", march(12))
	addExpense(t, db, u.ID, 12.5, "", march(11))
	addExpense(t, db, u.ID, 0.01, "Bank", march(10))

	d, err := svc.Dashboard(context.Background(), u.ID)
	require.NoError(t, err)

	cats := []string{}
	sum := 0.0
	for _, c := range d.CategoryBreakdown {
		cats = append(cats, c.Category)
		sum += c.Percentage
	}
	assert.Equal(t, []string{"Food", "Uncategorized", "Fun", "Bank"}, cats)
	assert.InDelta(t, 100, sum, 0.05)
	assert.Equal(t, 25.0, d.CategoryBreakdown[1].Amount)
	assert.Equal(t, 2, d.CategoryBreakdown[1].Count)
	assert.Equal(t, 0.0, d.ExpenseChange, "no previous spending")

	// three expenses and zero incomes in the feed
	assert.Len(t, d.RecentTransactions, 3)
}

func TestAnalyticsService_DashboardEmpty(t *testing.T) {
	svc, _, u := newAnalytics(t)

	d, err := svc.Dashboard(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, MonthSummary{}, d.CurrentMonth)
	assert.NotNil(t, d.CategoryBreakdown)
	assert.NotNil(t, d.RecentTransactions)
	assert.NotNil(t, d.SavingsGoals)
}

func TestAnalyticsService_CategoryAnalytics(t *testing.T) {
	svc, db, u := newAnalytics(t)

	addExpense(t, db, u.ID, 10.10, "Food", march(14))
	addExpense(t, db, u.ID, 20.20, "Food", march(1))
	addExpense(t, db, u.ID, 5, "Travel", march(20))
	addExpense(t, db, u.ID, 100, "Rent", time.Date(2024, time.January, 20, 0, 0, 0, 0, time.UTC))

	out, err := svc.CategoryAnalytics(context.Background(), u.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, []CategoryAmount{{Category: "Food", Amount: 30.3}, {Category: "Travel", Amount: 5}}, out)

	out, err = svc.CategoryAnalytics(context.Background(), u.ID, DefaultAnalyticsMonths)
	require.NoError(t, err)
	require.Len(t, out, 3)
	assert.Equal(t, "Rent", out[0].Category)

	for _, bad := range []int{0, -1, MaxAnalyticsMonths + 1} {
		_, err := svc.CategoryAnalytics(context.Background(), u.ID, bad)
		assert.ErrorIs(t, err, ErrValidation)
	}
}

func TestAnalyticsService_Predict(t *testing.T) {
	svc, db, u := newAnalytics(t)

	f, err := svc.Predict(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, Forecast{PredictedSpending: 0, Confidence: 0.7}, *f)

	// 13 expenses; the oldest (amount 1) falls outside the sample
	for i := 1; i <= 13; i++ {
		addExpense(t, db, u.ID, float64(i), "Misc", time.Date(2024, time.January, i, 0, 0, 0, 0, time.UTC))
	}

	f, err = svc.Predict(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, 7.88, f.PredictedSpending)
	assert.Equal(t, PredictionConfidence, f.Confidence)

	stored, err := repository.NewPredictionRepository(db).ListByUser(context.Background(), u.ID)
	require.NoError(t, err)
	require.Len(t, stored, 2)
	assert.Equal(t, "2024-04", stored[0].Month)
}
