package database

import (
	"testing"
	"time"

	"thrive/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestSeed(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent), TranslateError: true})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	defer sqlDB.Close()
	require.NoError(t, AutoMigrate(db))

	// pre-existing data is wiped
	require.NoError(t, db.Create(&models.User{Name: "old", Email: "old@thrive.app", PasswordHash: "x"}).Error)

	now := time.Date(2024, time.May, 20, 9, 0, 0, 0, time.UTC)
	res, err := Seed(db, now)
	require.NoError(t, err)
	assert.Equal(t, 6, res.Expenses)
	assert.Equal(t, 3, res.Incomes)
	assert.Equal(t, 3, res.Goals)

	var users []models.User
	require.NoError(t, db.Find(&users).Error)
	require.Len(t, users, 1)
	assert.Equal(t, SampleEmail, users[0].Email)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(users[0].PasswordHash), []byte(SamplePassword)))

	var total float64
	require.NoError(t, db.Model(&models.Expense{}).Select("COALESCE(SUM(amount), 0)").Scan(&total).Error)
	assert.InDelta(t, 308.74, total, 0.001)

	// seeding twice leaves one sample account
	_, err = Seed(db, now)
	require.NoError(t, err)
	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}
