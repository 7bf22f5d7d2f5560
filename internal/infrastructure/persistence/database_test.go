package persistence

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/leathershop/backend/internal/infrastructure/config"
)

func testDatabaseConfig() *config.DatabaseConfig {
	return &config.DatabaseConfig{
		Path:        ":memory:",
		BusyTimeout: 5000,
		ForeignKeys: true,
		JournalMode: "MEMORY",
	}
}

func TestNewDatabase(t *testing.T) {
	t.Run("opens in-memory database", func(t *testing.T) {
		db, err := NewDatabase(testDatabaseConfig())
		require.NoError(t, err)
		require.NotNil(t, db)
		defer db.Close()

		assert.NoError(t, db.Ping())
	})

	t.Run("limits connection pool to a single connection", func(t *testing.T) {
		db, err := NewDatabase(testDatabaseConfig())
		require.NoError(t, err)
		defer db.Close()

		sqlDB, err := db.DB.DB()
		require.NoError(t, err)
		assert.Equal(t, 1, sqlDB.Stats().MaxOpenConnections)
	})

	t.Run("fails when the database file cannot be created", func(t *testing.T) {
		cfg := testDatabaseConfig()
		cfg.Path = "/nonexistent-dir/shop.db"

		db, err := NewDatabase(cfg)
		assert.Error(t, err)
		assert.Nil(t, db)
	})
}

func TestDatabaseClose(t *testing.T) {
	db, err := NewDatabase(testDatabaseConfig())
	require.NoError(t, err)

	require.NoError(t, db.Close())
	assert.Error(t, db.Ping())
}

func TestDatabaseTransaction(t *testing.T) {
	setup := func(t *testing.T) *Database {
		db, err := NewDatabase(testDatabaseConfig())
		require.NoError(t, err)
		t.Cleanup(func() { _ = db.Close() })

		require.NoError(t, db.DB.Exec("CREATE TABLE scratch (id INTEGER PRIMARY KEY, name TEXT)").Error)
		return db
	}

	t.Run("commits on success", func(t *testing.T) {
		db := setup(t)

		err := db.Transaction(func(tx *gorm.DB) error {
			return tx.Exec("INSERT INTO scratch (name) VALUES (?)", "committed").Error
		})
		require.NoError(t, err)

		var count int64
		require.NoError(t, db.DB.Raw("SELECT COUNT(*) FROM scratch").Scan(&count).Error)
		assert.Equal(t, int64(1), count)
	})

	t.Run("rolls back on error", func(t *testing.T) {
		db := setup(t)
		boom := errors.New("boom")

		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Exec("INSERT INTO scratch (name) VALUES (?)", "rolled back").Error; err != nil {
				return err
			}
			return boom
		})
		require.ErrorIs(t, err, boom)

		var count int64
		require.NoError(t, db.DB.Raw("SELECT COUNT(*) FROM scratch").Scan(&count).Error)
		assert.Equal(t, int64(0), count)
	})
}
