package database

import (
	"path/filepath"
	"testing"

	"thrive/config"
	"thrive/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDialector(t *testing.T) {
	d, err := Dialector(config.DatabaseConfig{Driver: "mysql", Host: "db", Port: "3306", Username: "u", Password: "p", DBName: "thrive"})
	require.NoError(t, err)
	assert.Equal(t, "mysql", d.Name())

	d, err = Dialector(config.DatabaseConfig{Driver: "sqlite", SQLitePath: ":memory:"})
	require.NoError(t, err)
	assert.Equal(t, "sqlite", d.Name())

	_, err = Dialector(config.DatabaseConfig{Driver: "oracle"})
	assert.Error(t, err)
}

func TestInit_SQLiteMigratesSchema(t *testing.T) {
	cfg := &config.Config{
		Server: config.ServerConfig{Mode: "test"},
		Database: config.DatabaseConfig{
			Driver:     "sqlite",
			SQLitePath: filepath.Join(t.TempDir(), "data", "thrive.db"),
		},
	}

	db, err := Init(cfg)
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	defer sqlDB.Close()

	for _, table := range []any{
		&models.User{}, &models.Expense{}, &models.Income{},
		&models.SavingsGoal{}, &models.Prediction{}, &models.Recommendation{},
	} {
		assert.True(t, db.Migrator().HasTable(table))
	}

	// migrating twice is a no-op
	assert.NoError(t, AutoMigrate(db))
}
