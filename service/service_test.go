package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"thrive/database"
	"thrive/models"
	"thrive/repository"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, database.AutoMigrate(db))
	return db
}

type stubTokens struct{}

func (stubTokens) Generate(userID uint, email string) (string, error) {
	return fmt.Sprintf("token-%d-%s", userID, email), nil
}

func fixedClock(t time.Time) Clock {
	return func() time.Time { return t }
}

func seedUser(t *testing.T, db *gorm.DB, email string, admin bool) *models.User {
	t.Helper()
	u := &models.User{Name: "User " + email, Email: email, PasswordHash: "x", IsAdmin: admin}
	require.NoError(t, repository.NewUserRepository(db).Create(context.Background(), u))
	return u
}

func ptr[T any](v T) *T { return &v }
