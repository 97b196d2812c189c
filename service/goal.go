package service

import (
	"context"
	"log"
	"strings"
	"time"

	"thrive/models"
	"thrive/repository"
)

const msgGoalNotFound = "Savings goal not found"

// GoalInput carries the fields of a create or partial update. Nil means absent.
type GoalInput struct {
	Title         *string
	TargetAmount  *float64
	CurrentAmount *float64
	Deadline      *time.Time
	// ClearDeadline removes the deadline (explicit JSON null on update).
	ClearDeadline bool
}

// GoalNotifier is told when a goal reaches its target.
type GoalNotifier interface {
	GoalReached(user *models.User, goal *models.SavingsGoal) error
}

// GoalService owner-scoped savings goal CRUD and fund-add
type GoalService struct {
	repo     repository.GoalRepository
	users    repository.UserRepository
	notifier GoalNotifier
}

// NewGoalService creates the goal service. notifier may be nil.
func NewGoalService(repo repository.GoalRepository, users repository.UserRepository, notifier GoalNotifier) *GoalService {
	return &GoalService{repo: repo, users: users, notifier: notifier}
}

func (s *GoalService) List(ctx context.Context, userID uint) ([]models.SavingsGoal, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *GoalService) Get(ctx context.Context, userID, id uint) (*models.SavingsGoal, error) {
	goal, err := s.repo.FindOwned(ctx, id, userID)
	return goal, ownedErr(err, msgGoalNotFound)
}

func checkGoal(in GoalInput, create bool) error {
	if create || in.Title != nil {
		if in.Title == nil || strings.TrimSpace(*in.Title) == "" {
			return Invalid(`"title" is required`)
		}
	}
	if in.TargetAmount == nil && create {
		return Invalid(`"targetAmount" is required`)
	}
	if in.TargetAmount != nil && !IsMoney(*in.TargetAmount) {
		return Invalid(`"targetAmount" must be a non-negative number with at most 2 decimal places`)
	}
	if in.CurrentAmount != nil && !IsMoney(*in.CurrentAmount) {
		return Invalid(`"currentAmount" must be a non-negative number with at most 2 decimal places`)
	}
	return nil
}

func (s *GoalService) Create(ctx context.Context, userID uint, in GoalInput) (*models.SavingsGoal, error) {
	if err := checkGoal(in, true); err != nil {
		return nil, err
	}

	goal := &models.SavingsGoal{
		UserID:       userID,
		Title:        strings.TrimSpace(*in.Title),
		TargetAmount: *in.TargetAmount,
	}
	if in.CurrentAmount != nil {
		goal.CurrentAmount = *in.CurrentAmount
	}
	if in.Deadline != nil {
		d := in.Deadline.UTC()
		goal.Deadline = &d
	}

	if err := s.repo.Create(ctx, goal); err != nil {
		return nil, err
	}
	return goal, nil
}

func (s *GoalService) Update(ctx context.Context, userID, id uint, in GoalInput) (*models.SavingsGoal, error) {
	if err := checkGoal(in, false); err != nil {
		return nil, err
	}

	goal, err := s.repo.FindOwned(ctx, id, userID)
	if err != nil {
		return nil, ownedErr(err, msgGoalNotFound)
	}

	if in.Title != nil {
		goal.Title = strings.TrimSpace(*in.Title)
	}
	if in.TargetAmount != nil {
		goal.TargetAmount = *in.TargetAmount
	}
	if in.CurrentAmount != nil {
		goal.CurrentAmount = *in.CurrentAmount
	}
	switch {
	case in.ClearDeadline:
		goal.Deadline = nil
	case in.Deadline != nil:
		d := in.Deadline.UTC()
		goal.Deadline = &d
	}

	if err := s.repo.Update(ctx, goal); err != nil {
		return nil, ownedErr(err, msgGoalNotFound)
	}
	return goal, nil
}

func (s *GoalService) Delete(ctx context.Context, userID, id uint) error {
	return ownedErr(s.repo.DeleteOwned(ctx, id, userID), msgGoalNotFound)
}

// AddFunds increments the saved amount. Only strictly positive cent amounts are accepted.
func (s *GoalService) AddFunds(ctx context.Context, userID, id uint, amount *float64) (*models.SavingsGoal, error) {
	if amount == nil || *amount <= 0 {
		return nil, Invalid("Amount must be positive")
	}
	if !IsMoney(*amount) {
		return nil, Invalid(`"amount" must have at most 2 decimal places`)
	}

	goal, err := s.repo.AddFunds(ctx, id, userID, *amount)
	if err != nil {
		return nil, ownedErr(err, msgGoalNotFound)
	}
	goal.CurrentAmount = Round2(goal.CurrentAmount)

	before := Sum(goal.CurrentAmount).Sub(Sum(*amount))
	if goal.Reached() && before.LessThan(Sum(goal.TargetAmount)) {
		s.notifyReached(ctx, userID, *goal)
	}
	return goal, nil
}

func (s *GoalService) notifyReached(ctx context.Context, userID uint, goal models.SavingsGoal) {
	if s.notifier == nil {
		return
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		log.Printf("goal %d reached, owner lookup failed: %v", goal.ID, err)
		return
	}
	go func() {
		if err := s.notifier.GoalReached(user, &goal); err != nil {
			log.Printf("goal %d reached, notification failed: %v", goal.ID, err)
		}
	}()
}
