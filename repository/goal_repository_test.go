package repository

import (
	"context"
	"sync"
	"testing"

	"thrive/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGoalRepository_OrderNullDeadlineLast(t *testing.T) {
	db := newTestDB(t)
	repo := NewGoalRepository(db)
	ctx := context.Background()
	u := createUser(t, db, "saver@thrive.app")

	late, early := day(28), day(2)
	require.NoError(t, repo.Create(ctx, &models.SavingsGoal{UserID: u.ID, Title: "open", TargetAmount: 10}))
	require.NoError(t, repo.Create(ctx, &models.SavingsGoal{UserID: u.ID, Title: "late", TargetAmount: 10, Deadline: &late}))
	require.NoError(t, repo.Create(ctx, &models.SavingsGoal{UserID: u.ID, Title: "early", TargetAmount: 10, Deadline: &early}))

	goals, err := repo.ListByUser(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, goals, 3)
	assert.Equal(t, []string{"early", "late", "open"}, []string{goals[0].Title, goals[1].Title, goals[2].Title})

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.NotNil(t, all[0].User)
	assert.Equal(t, u.Email, all[0].User.Email)
}

func TestGoalRepository_AddFunds(t *testing.T) {
	db := newTestDB(t)
	repo := NewGoalRepository(db)
	ctx := context.Background()
	u := createUser(t, db, "saver@thrive.app")
	other := createUser(t, db, "thief@thrive.app")

	g := &models.SavingsGoal{UserID: u.ID, Title: "Laptop", TargetAmount: 1500, CurrentAmount: 300}
	require.NoError(t, repo.Create(ctx, g))

	updated, err := repo.AddFunds(ctx, g.ID, u.ID, 50.25)
	require.NoError(t, err)
	assert.InDelta(t, 350.25, updated.CurrentAmount, 0.001)

	_, err = repo.AddFunds(ctx, g.ID, other.ID, 10)
	assert.ErrorIs(t, err, ErrNotFound)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.AddFunds(ctx, g.ID, u.ID, 1)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	final, err := repo.FindOwned(ctx, g.ID, u.ID)
	require.NoError(t, err)
	assert.InDelta(t, 360.25, final.CurrentAmount, 0.001)
}

func TestGoalRepository_UpdateAndDelete(t *testing.T) {
	db := newTestDB(t)
	repo := NewGoalRepository(db)
	ctx := context.Background()
	u := createUser(t, db, "saver@thrive.app")

	deadline := day(30)
	g := &models.SavingsGoal{UserID: u.ID, Title: "Trip", TargetAmount: 2000, Deadline: &deadline}
	require.NoError(t, repo.Create(ctx, g))

	g.Deadline = nil
	g.Title = "Trip 2"
	require.NoError(t, repo.Update(ctx, g))

	got, err := repo.FindOwned(ctx, g.ID, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Trip 2", got.Title)
	assert.Nil(t, got.Deadline)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	require.NoError(t, repo.DeleteOwned(ctx, g.ID, u.ID))
	assert.ErrorIs(t, repo.DeleteOwned(ctx, g.ID, u.ID), ErrNotFound)
}

func TestPredictionRepository(t *testing.T) {
	db := newTestDB(t)
	repo := NewPredictionRepository(db)
	ctx := context.Background()
	u := createUser(t, db, "p@thrive.app")

	require.NoError(t, repo.Create(ctx, &models.Prediction{UserID: u.ID, Month: "2024-04", PredictedSpending: 52.5, ConfidenceScore: 0.7}))

	list, err := repo.ListByUser(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "2024-04", list[0].Month)
}
