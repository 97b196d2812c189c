package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"thrive/models"
	"thrive/repository"
)

// TransactionPageSize bounds the per-user expense and income listings.
const TransactionPageSize = 200

const (
	msgExpenseNotFound = "Not found"
	msgIncomeNotFound  = "Income not found"
)

// ExpenseInput carries the fields of a create or partial update. Nil means absent.
type ExpenseInput struct {
	Amount      *float64
	Category    *string
	Description *string
	Date        *time.Time
}

// IncomeInput carries the fields of a create or partial update. Nil means absent.
type IncomeInput struct {
	Amount *float64
	Source *string
	Date   *time.Time
}

func checkAmount(amount *float64, required bool) error {
	if amount == nil {
		if required {
			return Invalid(`"amount" is required`)
		}
		return nil
	}
	if !IsMoney(*amount) {
		return Invalid(`"amount" must be a non-negative number with at most 2 decimal places`)
	}
	return nil
}

func text(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}

// ExpenseService owner-scoped expense CRUD
type ExpenseService struct {
	repo repository.ExpenseRepository
	now  Clock
}

// NewExpenseService creates the expense service.
func NewExpenseService(repo repository.ExpenseRepository, now Clock) *ExpenseService {
	return &ExpenseService{repo: repo, now: now}
}

func (s *ExpenseService) List(ctx context.Context, userID uint) ([]models.Expense, error) {
	return s.repo.ListByUser(ctx, userID, TransactionPageSize)
}

func (s *ExpenseService) Get(ctx context.Context, userID, id uint) (*models.Expense, error) {
	expense, err := s.repo.FindOwned(ctx, id, userID)
	return expense, ownedErr(err, msgExpenseNotFound)
}

func (s *ExpenseService) Create(ctx context.Context, userID uint, in ExpenseInput) (*models.Expense, error) {
	if err := checkAmount(in.Amount, true); err != nil {
		return nil, err
	}

	date := s.now.now()
	if in.Date != nil {
		date = *in.Date
	}

	expense := &models.Expense{
		UserID:      userID,
		Amount:      *in.Amount,
		Category:    text(in.Category),
		Description: text(in.Description),
		Date:        date.UTC(),
	}
	if err := s.repo.Create(ctx, expense); err != nil {
		return nil, err
	}
	return expense, nil
}

// Update replaces only the fields present in the input.
func (s *ExpenseService) Update(ctx context.Context, userID, id uint, in ExpenseInput) (*models.Expense, error) {
	if err := checkAmount(in.Amount, false); err != nil {
		return nil, err
	}

	expense, err := s.repo.FindOwned(ctx, id, userID)
	if err != nil {
		return nil, ownedErr(err, msgExpenseNotFound)
	}

	if in.Amount != nil {
		expense.Amount = *in.Amount
	}
	if in.Category != nil {
		expense.Category = text(in.Category)
	}
	if in.Description != nil {
		expense.Description = text(in.Description)
	}
	if in.Date != nil {
		expense.Date = in.Date.UTC()
	}

	if err := s.repo.Update(ctx, expense); err != nil {
		return nil, ownedErr(err, msgExpenseNotFound)
	}
	return expense, nil
}

func (s *ExpenseService) Delete(ctx context.Context, userID, id uint) error {
	return ownedErr(s.repo.DeleteOwned(ctx, id, userID), msgExpenseNotFound)
}

// IncomeService owner-scoped income CRUD
type IncomeService struct {
	repo repository.IncomeRepository
	now  Clock
}

// NewIncomeService creates the income service.
func NewIncomeService(repo repository.IncomeRepository, now Clock) *IncomeService {
	return &IncomeService{repo: repo, now: now}
}

func (s *IncomeService) List(ctx context.Context, userID uint) ([]models.Income, error) {
	return s.repo.ListByUser(ctx, userID, TransactionPageSize)
}

func (s *IncomeService) Get(ctx context.Context, userID, id uint) (*models.Income, error) {
	income, err := s.repo.FindOwned(ctx, id, userID)
	return income, ownedErr(err, msgIncomeNotFound)
}

func (s *IncomeService) Create(ctx context.Context, userID uint, in IncomeInput) (*models.Income, error) {
	if err := checkAmount(in.Amount, true); err != nil {
		return nil, err
	}

	date := s.now.now()
	if in.Date != nil {
		date = *in.Date
	}

	income := &models.Income{
		UserID: userID,
		Amount: *in.Amount,
		Source: text(in.Source),
		Date:   date.UTC(),
	}
	if err := s.repo.Create(ctx, income); err != nil {
		return nil, err
	}
	return income, nil
}

func (s *IncomeService) Update(ctx context.Context, userID, id uint, in IncomeInput) (*models.Income, error) {
	if err := checkAmount(in.Amount, false); err != nil {
		return nil, err
	}

	income, err := s.repo.FindOwned(ctx, id, userID)
	if err != nil {
		return nil, ownedErr(err, msgIncomeNotFound)
	}

	if in.Amount != nil {
		income.Amount = *in.Amount
	}
	if in.Source != nil {
		income.Source = text(in.Source)
	}
	if in.Date != nil {
		income.Date = in.Date.UTC()
	}

	if err := s.repo.Update(ctx, income); err != nil {
		return nil, ownedErr(err, msgIncomeNotFound)
	}
	return income, nil
}

func (s *IncomeService) Delete(ctx context.Context, userID, id uint) error {
	return ownedErr(s.repo.DeleteOwned(ctx, id, userID), msgIncomeNotFound)
}

// ownedErr turns a repository miss into a NotFound with msg; other errors pass through.
func ownedErr(err error, msg string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return NotFound(msg)
	}
	return err
}
