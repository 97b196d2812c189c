package service

import (
	"context"
	"log"
	"sort"
	"time"

	"thrive/models"
	"thrive/repository"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

const (
	// UncategorizedLabel groups expenses without a category.
	UncategorizedLabel = "Uncategorized"

	// PredictionSampleSize is how many recent expenses feed the forecast.
	PredictionSampleSize = 12
	// PredictionConfidence is reported with every forecast; the heuristic has no real confidence.
	PredictionConfidence = 0.7

	DefaultAnalyticsMonths = 3
	MaxAnalyticsMonths     = 120

	recentExpenseCount = 3
	recentIncomeCount  = 2
)

var predictionGrowth = decimal.RequireFromString("1.05")

// MonthSummary totals of one calendar month
type MonthSummary struct {
	TotalExpenses       float64 `json:"totalExpenses"`
	TotalIncome         float64 `json:"totalIncome"`
	SavingsGoalProgress float64 `json:"savingsGoalProgress"` // income minus expenses
	TransactionCount    int     `json:"transactionCount"`
}

// CategoryShare one row of the dashboard category breakdown
type CategoryShare struct {
	Category   string  `json:"category"`
	Amount     float64 `json:"amount"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// CategoryAmount one row of the category analytics
type CategoryAmount struct {
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
}

// GoalProgress savings goal snapshot
type GoalProgress struct {
	ID            uint       `json:"id"`
	Title         string     `json:"title"`
	Progress      float64    `json:"progress"`
	CurrentAmount float64    `json:"currentAmount"`
	TargetAmount  float64    `json:"targetAmount"`
	Deadline      *time.Time `json:"deadline"`
}

// RecentTransaction activity feed entry
type RecentTransaction struct {
	ID          uint      `json:"id"`
	Type        string    `json:"type"` // expense | income
	Amount      float64   `json:"amount"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
	Category    *string   `json:"category"`
}

// Dashboard monthly overview of one user
type Dashboard struct {
	CurrentMonth       MonthSummary        `json:"currentMonth"`
	PreviousMonth      MonthSummary        `json:"previousMonth"`
	ExpenseChange      float64             `json:"expenseChange"`
	CategoryBreakdown  []CategoryShare     `json:"categoryBreakdown"`
	SavingsGoals       []GoalProgress      `json:"savingsGoals"`
	RecentTransactions []RecentTransaction `json:"recentTransactions"`
}

// Forecast naive next-month spending estimate
type Forecast struct {
	PredictedSpending float64 `json:"predictedSpending"`
	Confidence        float64 `json:"confidence"`
}

// AnalyticsService derives aggregates from a user's ledger.
type AnalyticsService struct {
	expenses    repository.ExpenseRepository
	incomes     repository.IncomeRepository
	goals       repository.GoalRepository
	predictions repository.PredictionRepository
	now         Clock
}

// NewAnalyticsService creates the analytics service.
func NewAnalyticsService(
	expenses repository.ExpenseRepository,
	incomes repository.IncomeRepository,
	goals repository.GoalRepository,
	predictions repository.PredictionRepository,
	now Clock,
) *AnalyticsService {
	return &AnalyticsService{
		expenses:    expenses,
		incomes:     incomes,
		goals:       goals,
		predictions: predictions,
		now:         now,
	}
}

// MonthStart returns midnight of the first day of t's month in t's location.
func MonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// Dashboard builds the current/previous month overview. The four store reads run
// concurrently; the first failure cancels the rest.
func (s *AnalyticsService) Dashboard(ctx context.Context, userID uint) (*Dashboard, error) {
	now := s.now.now()
	monthStart := MonthStart(now)
	lastMonthStart := monthStart.AddDate(0, -1, 0)

	var (
		curExpenses  []models.Expense
		curIncomes   []models.Income
		prevExpenses []models.Expense
		goals        []models.SavingsGoal
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		curExpenses, err = s.expenses.ListBetween(gctx, userID, monthStart, now)
		return err
	})
	g.Go(func() error {
		var err error
		curIncomes, err = s.incomes.ListBetween(gctx, userID, monthStart, now)
		return err
	})
	g.Go(func() error {
		var err error
		prevExpenses, err = s.expenses.ListBetween(gctx, userID, lastMonthStart, monthStart)
		return err
	})
	g.Go(func() error {
		var err error
		goals, err = s.goals.ListByUser(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	curExpenseTotal := sumExpenses(curExpenses)
	curIncomeTotal := sumIncomes(curIncomes)
	prevExpenseTotal := sumExpenses(prevExpenses)

	d := &Dashboard{
		CurrentMonth: MonthSummary{
			TotalExpenses:       toFloat(curExpenseTotal),
			TotalIncome:         toFloat(curIncomeTotal),
			SavingsGoalProgress: toFloat(curIncomeTotal.Sub(curExpenseTotal)),
			TransactionCount:    len(curExpenses) + len(curIncomes),
		},
		// prior-month income is not fetched; it is always reported as 0
		PreviousMonth: MonthSummary{
			TotalExpenses:    toFloat(prevExpenseTotal),
			TransactionCount: len(prevExpenses),
		},
		ExpenseChange:      Percent(curExpenseTotal.Sub(prevExpenseTotal), prevExpenseTotal),
		CategoryBreakdown:  categoryBreakdown(curExpenses, curExpenseTotal),
		SavingsGoals:       goalProgress(goals),
		RecentTransactions: recentTransactions(curExpenses, curIncomes),
	}
	return d, nil
}

// CategoryAnalytics sums expenses of the last months months per category, largest first.
func (s *AnalyticsService) CategoryAnalytics(ctx context.Context, userID uint, months int) ([]CategoryAmount, error) {
	if months < 1 || months > MaxAnalyticsMonths {
		return nil, Invalid(`"months" must be an integer between 1 and %d`, MaxAnalyticsMonths)
	}

	since := s.now.now().AddDate(0, -months, 0)
	expenses, err := s.expenses.ListSince(ctx, userID, since)
	if err != nil {
		return nil, err
	}

	groups := groupByCategory(expenses)
	out := make([]CategoryAmount, 0, len(groups))
	for _, grp := range groups {
		out = append(out, CategoryAmount{Category: grp.category, Amount: toFloat(grp.total)})
	}
	return out, nil
}

// Predict averages the most recent expenses and adds 5%. This is a fixed
// heuristic, not a model.
func (s *AnalyticsService) Predict(ctx context.Context, userID uint) (*Forecast, error) {
	recent, err := s.expenses.ListByUser(ctx, userID, PredictionSampleSize)
	if err != nil {
		return nil, err
	}

	avg := decimal.Zero
	if len(recent) > 0 {
		avg = sumExpenses(recent).Div(decimal.NewFromInt(int64(len(recent))))
	}
	forecast := &Forecast{
		PredictedSpending: toFloat(avg.Mul(predictionGrowth)),
		Confidence:        PredictionConfidence,
	}

	record := &models.Prediction{
		UserID:            userID,
		Month:             MonthStart(s.now.now()).AddDate(0, 1, 0).Format("2006-01"),
		PredictedSpending: forecast.PredictedSpending,
		ConfidenceScore:   forecast.Confidence,
	}
	if err := s.predictions.Create(ctx, record); err != nil {
		log.Printf("store prediction for user %d: %v", userID, err)
	}

	return forecast, nil
}

type categoryGroup struct {
	category string
	total    decimal.Decimal
	count    int
}

// groupByCategory sums per category, sorted by amount desc then name.
func groupByCategory(expenses []models.Expense) []categoryGroup {
	index := make(map[string]int)
	var groups []categoryGroup
	for _, e := range expenses {
		category := e.Category
		if category == "" {
			category = UncategorizedLabel
		}
		i, ok := index[category]
		if !ok {
			i = len(groups)
			index[category] = i
			groups = append(groups, categoryGroup{category: category, total: decimal.Zero})
		}
		groups[i].total = groups[i].total.Add(decimal.NewFromFloat(e.Amount))
		groups[i].count++
	}

	sort.SliceStable(groups, func(a, b int) bool {
		if c := groups[a].total.Cmp(groups[b].total); c != 0 {
			return c > 0
		}
		return groups[a].category < groups[b].category
	})
	return groups
}

func categoryBreakdown(expenses []models.Expense, total decimal.Decimal) []CategoryShare {
	groups := groupByCategory(expenses)
	out := make([]CategoryShare, 0, len(groups))
	for _, grp := range groups {
		out = append(out, CategoryShare{
			Category:   grp.category,
			Amount:     toFloat(grp.total),
			Count:      grp.count,
			Percentage: Percent(grp.total, total),
		})
	}
	return out
}

func goalProgress(goals []models.SavingsGoal) []GoalProgress {
	out := make([]GoalProgress, 0, len(goals))
	for _, g := range goals {
		out = append(out, GoalProgress{
			ID:            g.ID,
			Title:         g.Title,
			Progress:      Percent(decimal.NewFromFloat(g.CurrentAmount), decimal.NewFromFloat(g.TargetAmount)),
			CurrentAmount: g.CurrentAmount,
			TargetAmount:  g.TargetAmount,
			Deadline:      g.Deadline,
		})
	}
	return out
}

// recentTransactions takes the first few of each (already newest-first) list and merges them.
func recentTransactions(expenses []models.Expense, incomes []models.Income) []RecentTransaction {
	out := make([]RecentTransaction, 0, recentExpenseCount+recentIncomeCount)
	for i := 0; i < len(expenses) && i < recentExpenseCount; i++ {
		e := expenses[i]
		description := e.Description
		if description == "" {
			description = e.Category
		}
		category := e.Category
		out = append(out, RecentTransaction{
			ID:          e.ID,
			Type:        "expense",
			Amount:      e.Amount,
			Description: description,
			Date:        e.Date,
			Category:    &category,
		})
	}
	for i := 0; i < len(incomes) && i < recentIncomeCount; i++ {
		inc := incomes[i]
		out = append(out, RecentTransaction{
			ID:          inc.ID,
			Type:        "income",
			Amount:      inc.Amount,
			Description: inc.Source,
			Date:        inc.Date,
		})
	}

	sort.SliceStable(out, func(a, b int) bool {
		return out[a].Date.After(out[b].Date)
	})
	return out
}

func sumExpenses(expenses []models.Expense) decimal.Decimal {
	total := decimal.Zero
	for _, e := range expenses {
		total = total.Add(decimal.NewFromFloat(e.Amount))
	}
	return total
}

func sumIncomes(incomes []models.Income) decimal.Decimal {
	total := decimal.Zero
	for _, inc := range incomes {
		total = total.Add(decimal.NewFromFloat(inc.Amount))
	}
	return total
}
