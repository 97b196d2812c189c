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

func newAdminService(t *testing.T) (*AdminService, *gorm.DB) {
	db := newTestDB(t)
	return NewAdminService(
		repository.NewUserRepository(db),
		repository.NewExpenseRepository(db),
		repository.NewIncomeRepository(db),
		repository.NewGoalRepository(db),
	), db
}

func TestAdminService_Stats(t *testing.T) {
	svc, db := newAdminService(t)

	st, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Stats{}, *st)

	u := seedUser(t, db, "a@thrive.app", false)
	require.NoError(t, db.Create(&models.Expense{UserID: u.ID, Amount: 0.1, Date: time.Now()}).Error)
	require.NoError(t, db.Create(&models.Expense{UserID: u.ID, Amount: 0.2, Date: time.Now()}).Error)
	require.NoError(t, db.Create(&models.Income{UserID: u.ID, Amount: 100, Date: time.Now()}).Error)
	require.NoError(t, db.Create(&models.SavingsGoal{UserID: u.ID, Title: "g", TargetAmount: 1}).Error)

	st, err = svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Stats{
		TotalUsers:         1,
		TotalExpenses:      2,
		TotalIncomes:       1,
		TotalGoals:         1,
		TotalExpenseAmount: 0.3,
		TotalIncomeAmount:  100,
	}, *st)
}

func TestAdminService_ListingsCarryOwner(t *testing.T) {
	svc, db := newAdminService(t)
	u := seedUser(t, db, "owner@thrive.app", false)
	require.NoError(t, db.Create(&models.Expense{UserID: u.ID, Amount: 5, Date: time.Now()}).Error)
	require.NoError(t, db.Create(&models.Income{UserID: u.ID, Amount: 7, Date: time.Now()}).Error)
	require.NoError(t, db.Create(&models.SavingsGoal{UserID: u.ID, Title: "g", TargetAmount: 1}).Error)

	expenses, err := svc.ListExpenses(context.Background())
	require.NoError(t, err)
	require.Len(t, expenses, 1)
	assert.Equal(t, &models.UserRef{ID: u.ID, Name: u.Name, Email: u.Email}, expenses[0].User)

	incomes, err := svc.ListIncomes(context.Background())
	require.NoError(t, err)
	require.Len(t, incomes, 1)
	assert.Equal(t, u.Email, incomes[0].User.Email)

	goals, err := svc.ListGoals(context.Background())
	require.NoError(t, err)
	require.Len(t, goals, 1)
	assert.Equal(t, u.Email, goals[0].User.Email)
}

func TestAdminService_DeleteUser(t *testing.T) {
	svc, db := newAdminService(t)
	admin := seedUser(t, db, "admin@thrive.app", true)
	victim := seedUser(t, db, "victim@thrive.app", false)
	require.NoError(t, db.Create(&models.Expense{UserID: victim.ID, Amount: 5, Date: time.Now()}).Error)

	assert.ErrorIs(t, svc.DeleteUser(context.Background(), admin.ID, admin.ID), ErrValidation)
	assert.ErrorIs(t, svc.DeleteUser(context.Background(), admin.ID, 9999), ErrNotFound)

	require.NoError(t, svc.DeleteUser(context.Background(), admin.ID, victim.ID))
	var n int64
	require.NoError(t, db.Model(&models.Expense{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestAdminService_SetAdmin(t *testing.T) {
	svc, db := newAdminService(t)
	admin := seedUser(t, db, "admin@thrive.app", true)
	u := seedUser(t, db, "user@thrive.app", false)

	updated, err := svc.SetAdmin(context.Background(), admin.ID, u.ID, true)
	require.NoError(t, err)
	assert.True(t, updated.IsAdmin)

	reloaded, err := repository.NewUserRepository(db).FindByID(context.Background(), u.ID)
	require.NoError(t, err)
	assert.True(t, reloaded.IsAdmin)

	updated, err = svc.SetAdmin(context.Background(), admin.ID, u.ID, false)
	require.NoError(t, err)
	assert.False(t, updated.IsAdmin)

	_, err = svc.SetAdmin(context.Background(), admin.ID, admin.ID, false)
	assert.ErrorIs(t, err, ErrValidation)
	_, err = svc.SetAdmin(context.Background(), admin.ID, 4242, true)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAdminService_CreateBootstrapAdmin(t *testing.T) {
	svc, db := newAdminService(t)
	ctx := context.Background()
	seedUser(t, db, "taken@thrive.app", false)

	_, err := svc.CreateBootstrapAdmin(ctx, BootstrapInput{Email: "taken@thrive.app", Password: "secret1"})
	assert.ErrorIs(t, err, ErrConflict)

	p, err := svc.CreateBootstrapAdmin(ctx, BootstrapInput{Email: "root@thrive.app", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "Admin", p.Name)
	assert.True(t, p.IsAdmin)

	_, err = svc.CreateBootstrapAdmin(ctx, BootstrapInput{Email: "second@thrive.app", Password: "secret1"})
	assert.ErrorIs(t, err, ErrConflict)
	msg, _ := Message(err)
	assert.Equal(t, "Admin already exists", msg)

	var admins int64
	require.NoError(t, db.Model(&models.User{}).Where("is_admin = ?", true).Count(&admins).Error)
	assert.EqualValues(t, 1, admins)
}

func TestAdminService_CreateBootstrapAdminConcurrentDuplicate(t *testing.T) {
	db := newTestDB(t)
	seedUser(t, db, "root@thrive.app", false)
	svc := NewAdminService(
		staleEmailCheck{repository.NewUserRepository(db)},
		repository.NewExpenseRepository(db),
		repository.NewIncomeRepository(db),
		repository.NewGoalRepository(db),
	)

	_, err := svc.CreateBootstrapAdmin(context.Background(), BootstrapInput{Email: "root@thrive.app", Password: "secret1"})
	assert.ErrorIs(t, err, ErrConflict)
	msg, _ := Message(err)
	assert.Equal(t, "Email already registered", msg)
}
