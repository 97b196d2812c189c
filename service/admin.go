package service

import (
	"context"
	"errors"
	"strings"

	"thrive/models"
	"thrive/repository"

	"golang.org/x/sync/errgroup"
)

// AdminListLimit bounds the cross-user transaction listings.
const AdminListLimit = 500

const msgUserNotFound = "User not found"

// Stats global counters for the admin overview
type Stats struct {
	TotalUsers         int64   `json:"totalUsers"`
	TotalExpenses      int64   `json:"totalExpenses"`
	TotalIncomes       int64   `json:"totalIncomes"`
	TotalGoals         int64   `json:"totalGoals"`
	TotalExpenseAmount float64 `json:"totalExpenseAmount"`
	TotalIncomeAmount  float64 `json:"totalIncomeAmount"`
}

// AdminExpense expense with its owner
type AdminExpense struct {
	models.Expense
	User *models.UserRef `json:"user"`
}

// AdminIncome income with its owner
type AdminIncome struct {
	models.Income
	User *models.UserRef `json:"user"`
}

// AdminGoal savings goal with its owner
type AdminGoal struct {
	models.SavingsGoal
	User *models.UserRef `json:"user"`
}

// AdminService cross-user reporting and account management
type AdminService struct {
	users    repository.UserRepository
	expenses repository.ExpenseRepository
	incomes  repository.IncomeRepository
	goals    repository.GoalRepository
}

// NewAdminService creates the admin service.
func NewAdminService(
	users repository.UserRepository,
	expenses repository.ExpenseRepository,
	incomes repository.IncomeRepository,
	goals repository.GoalRepository,
) *AdminService {
	return &AdminService{users: users, expenses: expenses, incomes: incomes, goals: goals}
}

// ListUsers returns every account, newest first.
func (s *AdminService) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.users.List(ctx)
}

// Stats gathers global counters concurrently.
func (s *AdminService) Stats(ctx context.Context) (*Stats, error) {
	var (
		st                    Stats
		expenseSum, incomeSum float64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { st.TotalUsers, err = s.users.Count(gctx); return })
	g.Go(func() (err error) { st.TotalExpenses, err = s.expenses.Count(gctx); return })
	g.Go(func() (err error) { st.TotalIncomes, err = s.incomes.Count(gctx); return })
	g.Go(func() (err error) { st.TotalGoals, err = s.goals.Count(gctx); return })
	g.Go(func() (err error) { expenseSum, err = s.expenses.SumAll(gctx); return })
	g.Go(func() (err error) { incomeSum, err = s.incomes.SumAll(gctx); return })
	if err := g.Wait(); err != nil {
		return nil, err
	}

	st.TotalExpenseAmount = Round2(expenseSum)
	st.TotalIncomeAmount = Round2(incomeSum)
	return &st, nil
}

func (s *AdminService) ListExpenses(ctx context.Context) ([]AdminExpense, error) {
	expenses, err := s.expenses.ListAll(ctx, AdminListLimit)
	if err != nil {
		return nil, err
	}
	out := make([]AdminExpense, 0, len(expenses))
	for _, e := range expenses {
		out = append(out, AdminExpense{Expense: e, User: e.User.Ref()})
	}
	return out, nil
}

func (s *AdminService) ListIncomes(ctx context.Context) ([]AdminIncome, error) {
	incomes, err := s.incomes.ListAll(ctx, AdminListLimit)
	if err != nil {
		return nil, err
	}
	out := make([]AdminIncome, 0, len(incomes))
	for _, inc := range incomes {
		out = append(out, AdminIncome{Income: inc, User: inc.User.Ref()})
	}
	return out, nil
}

func (s *AdminService) ListGoals(ctx context.Context) ([]AdminGoal, error) {
	goals, err := s.goals.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]AdminGoal, 0, len(goals))
	for _, g := range goals {
		out = append(out, AdminGoal{SavingsGoal: g, User: g.User.Ref()})
	}
	return out, nil
}

// DeleteUser removes a user and all of their data atomically. Admins cannot delete themselves.
func (s *AdminService) DeleteUser(ctx context.Context, actorID, id uint) error {
	if actorID == id {
		return Invalid("You cannot delete your own account")
	}
	if err := s.users.DeleteCascade(ctx, id); err != nil {
		return ownedErr(err, msgUserNotFound)
	}
	return nil
}

// SetAdmin grants or revokes the admin flag and returns the updated user.
// Admins cannot revoke their own flag.
func (s *AdminService) SetAdmin(ctx context.Context, actorID, id uint, isAdmin bool) (*models.User, error) {
	if actorID == id && !isAdmin {
		return nil, Invalid("You cannot remove your own admin privileges")
	}

	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, ownedErr(err, msgUserNotFound)
	}
	if err := s.users.SetAdmin(ctx, id, isAdmin); err != nil {
		return nil, err
	}
	user.IsAdmin = isAdmin
	return user, nil
}

// BootstrapInput first admin account data
type BootstrapInput struct {
	Name     string
	Email    string
	Password string
}

// CreateBootstrapAdmin creates the first admin. It fails once any admin exists.
func (s *AdminService) CreateBootstrapAdmin(ctx context.Context, in BootstrapInput) (*Profile, error) {
	email := NormalizeEmail(in.Email)
	if email == "" {
		return nil, Invalid(`"email" is required`)
	}
	if len(in.Password) < 6 {
		return nil, Invalid(`"password" length must be at least 6 characters long`)
	}

	exists, err := s.users.AdminExists(ctx)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, Conflict("Admin already exists")
	}

	taken, err := s.users.EmailExists(ctx, email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, Conflict("Email already registered")
	}

	hashed, err := HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		name = "Admin"
	}
	user := &models.User{Name: name, Email: email, PasswordHash: hashed, IsAdmin: true}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, Conflict("Email already registered")
		}
		return nil, err
	}

	p := NewProfile(user)
	return &p, nil
}
