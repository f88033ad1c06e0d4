package database_test

import (
	"context"
	"testing"
	"time"

	"catalog/internal/config"
	"catalog/internal/database"
	"catalog/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenGORM_SQLiteMigrates(t *testing.T) {
	db, err := database.OpenGORM(config.DatabaseConfig{
		Driver: config.DriverSQLite,
		DSN:    "file:database_test?mode=memory&cache=shared",
	})
	require.NoError(t, err)
	defer database.CloseGORM(db)

	assert.True(t, db.Migrator().HasTable(&models.Product{}))
	assert.True(t, db.Migrator().HasIndex(&models.Product{}, "Category"))
	assert.NoError(t, database.PingGORM(context.Background(), db))
}

func TestOpenGORM_RejectsNonSQLDriver(t *testing.T) {
	_, err := database.OpenGORM(config.DatabaseConfig{Driver: config.DriverMongo})
	assert.ErrorContains(t, err, "not a SQL driver")
}

func TestConnectMongo_Unreachable(t *testing.T) {
	_, err := database.ConnectMongo(context.Background(), "mongodb://127.0.0.1:1/?serverSelectionTimeoutMS=200", time.Second)
	assert.Error(t, err)
}
