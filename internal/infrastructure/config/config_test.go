package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	// Save original env vars and restore after tests
	originalEnv := map[string]string{
		"SHOP_APP_NAME":              os.Getenv("SHOP_APP_NAME"),
		"SHOP_APP_ENV":               os.Getenv("SHOP_APP_ENV"),
		"SHOP_DATABASE_PATH":         os.Getenv("SHOP_DATABASE_PATH"),
		"SHOP_DATABASE_BUSY_TIMEOUT": os.Getenv("SHOP_DATABASE_BUSY_TIMEOUT"),
		"SHOP_DATABASE_JOURNAL_MODE": os.Getenv("SHOP_DATABASE_JOURNAL_MODE"),
		"SHOP_LOG_LEVEL":             os.Getenv("SHOP_LOG_LEVEL"),
		"SHOP_LOG_FORMAT":            os.Getenv("SHOP_LOG_FORMAT"),
		"SHOP_SHOP_NAME":             os.Getenv("SHOP_SHOP_NAME"),
		"SHOP_SHOP_CURRENCY":         os.Getenv("SHOP_SHOP_CURRENCY"),
	}

	defer func() {
		for k, v := range originalEnv {
			if v == "" {
				os.Unsetenv(k)
			} else {
				os.Setenv(k, v)
			}
		}
	}()

	clearEnv := func() {
		for k := range originalEnv {
			os.Unsetenv(k)
		}
	}

	t.Run("loads default values when env vars not set", func(t *testing.T) {
		clearEnv()

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "leathershop", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "shop.db", cfg.Database.Path)
		assert.Equal(t, 5000, cfg.Database.BusyTimeout)
		assert.True(t, cfg.Database.ForeignKeys)
		assert.Equal(t, "WAL", cfg.Database.JournalMode)
		assert.Equal(t, "info", cfg.Log.Level)
		assert.Equal(t, "console", cfg.Log.Format)
		assert.Equal(t, "stdout", cfg.Log.Output)
		assert.Equal(t, "EUR", cfg.Shop.Currency)
	})

	t.Run("loads values from environment variables with SHOP prefix", func(t *testing.T) {
		clearEnv()
		os.Setenv("SHOP_APP_NAME", "test-shop")
		os.Setenv("SHOP_APP_ENV", "testing")
		os.Setenv("SHOP_DATABASE_PATH", "/tmp/test-shop.db")
		os.Setenv("SHOP_DATABASE_BUSY_TIMEOUT", "10000")
		os.Setenv("SHOP_DATABASE_JOURNAL_MODE", "DELETE")
		os.Setenv("SHOP_LOG_LEVEL", "debug")
		os.Setenv("SHOP_LOG_FORMAT", "json")
		os.Setenv("SHOP_SHOP_NAME", "Test Leather Works")
		os.Setenv("SHOP_SHOP_CURRENCY", "CHF")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "test-shop", cfg.App.Name)
		assert.Equal(t, "testing", cfg.App.Env)
		assert.Equal(t, "/tmp/test-shop.db", cfg.Database.Path)
		assert.Equal(t, 10000, cfg.Database.BusyTimeout)
		assert.Equal(t, "DELETE", cfg.Database.JournalMode)
		assert.Equal(t, "debug", cfg.Log.Level)
		assert.Equal(t, "json", cfg.Log.Format)
		assert.Equal(t, "Test Leather Works", cfg.Shop.Name)
		assert.Equal(t, "CHF", cfg.Shop.Currency)
	})

	t.Run("rejects invalid journal mode", func(t *testing.T) {
		clearEnv()
		os.Setenv("SHOP_DATABASE_JOURNAL_MODE", "ROLLBACK")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "journal_mode")
	})

	t.Run("rejects invalid log level", func(t *testing.T) {
		clearEnv()
		os.Setenv("SHOP_LOG_LEVEL", "verbose")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "log.level")
	})

	t.Run("rejects malformed currency code", func(t *testing.T) {
		clearEnv()
		os.Setenv("SHOP_SHOP_CURRENCY", "EURO")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "ISO 4217")
	})
}

func TestDatabaseConfigDSN(t *testing.T) {
	t.Run("builds DSN with pragmas", func(t *testing.T) {
		cfg := DatabaseConfig{
			Path:        "shop.db",
			BusyTimeout: 5000,
			ForeignKeys: true,
			JournalMode: "WAL",
		}

		dsn := cfg.DSN()
		assert.Contains(t, dsn, "file:shop.db?")
		assert.Contains(t, dsn, "_busy_timeout=5000")
		assert.Contains(t, dsn, "_foreign_keys=on")
		assert.Contains(t, dsn, "_journal_mode=WAL")
	})

	t.Run("disables foreign keys when configured", func(t *testing.T) {
		cfg := DatabaseConfig{
			Path:        ":memory:",
			BusyTimeout: 1000,
			ForeignKeys: false,
			JournalMode: "memory",
		}

		dsn := cfg.DSN()
		assert.Contains(t, dsn, "file::memory:?")
		assert.Contains(t, dsn, "_foreign_keys=off")
		assert.Contains(t, dsn, "_journal_mode=MEMORY")
	})
}
