package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Log      LogConfig
	Shop     ShopConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
}

// DatabaseConfig holds SQLite connection settings
type DatabaseConfig struct {
	Path        string // Database file path, ":memory:" for in-memory
	BusyTimeout int    // Lock wait in milliseconds
	ForeignKeys bool   // Enforce foreign key constraints
	JournalMode string // DELETE, WAL, MEMORY
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// ShopConfig holds shop-specific settings
type ShopConfig struct {
	Name     string
	Currency string // ISO 4217 code used for all amounts
}

// Load loads configuration from TOML file and environment variables
// Priority (highest to lowest):
// 1. Environment variables with SHOP_ prefix (e.g., SHOP_DATABASE_PATH)
// 2. shop.toml
// 3. Built-in defaults
func Load() (*Config, error) {
	return load("")
}

// LoadFile loads configuration from an explicit TOML file path.
// The file must exist; environment variables still take priority.
func LoadFile(path string) (*Config, error) {
	return load(path)
}

func load(path string) (*Config, error) {
	v := viper.New()

	// Set config file settings
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("shop")
		v.SetConfigType("toml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.leathershop")
	}

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if path != "" {
			return nil, fmt.Errorf("error reading config file %s: %w", path, err)
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	// Enable environment variable override
	v.SetEnvPrefix("SHOP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Build config struct
	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
		},
		Database: DatabaseConfig{
			Path:        v.GetString("database.path"),
			BusyTimeout: v.GetInt("database.busy_timeout"),
			ForeignKeys: v.GetBool("database.foreign_keys"),
			JournalMode: v.GetString("database.journal_mode"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		Shop: ShopConfig{
			Name:     v.GetString("shop.name"),
			Currency: v.GetString("shop.currency"),
		},
	}

	// Foreign keys default to on; viper has no "unset" for bools so the
	// key only disables them when explicitly present
	if !v.IsSet("database.foreign_keys") {
		cfg.Database.ForeignKeys = true
	}

	// Apply defaults for empty values
	applyDefaults(cfg)

	// Validate configuration
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "leathershop"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = "shop.db"
	}
	if cfg.Database.BusyTimeout == 0 {
		cfg.Database.BusyTimeout = 5000
	}
	if cfg.Database.JournalMode == "" {
		cfg.Database.JournalMode = "WAL"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}
	if cfg.Shop.Name == "" {
		cfg.Shop.Name = "Leather Workshop"
	}
	if cfg.Shop.Currency == "" {
		cfg.Shop.Currency = "EUR"
	}
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	if c.Database.BusyTimeout < 0 {
		return fmt.Errorf("database.busy_timeout cannot be negative")
	}

	switch strings.ToUpper(c.Database.JournalMode) {
	case "DELETE", "TRUNCATE", "PERSIST", "MEMORY", "WAL", "OFF":
	default:
		return fmt.Errorf("database.journal_mode %q is not a valid SQLite journal mode", c.Database.JournalMode)
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level %q must be one of debug, info, warn, error", c.Log.Level)
	}

	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("log.format %q must be json or console", c.Log.Format)
	}

	if len(c.Shop.Currency) != 3 {
		return fmt.Errorf("shop.currency %q must be a 3-letter ISO 4217 code", c.Shop.Currency)
	}

	return nil
}

// DSN returns the SQLite connection string with pragmas applied
func (d *DatabaseConfig) DSN() string {
	q := url.Values{}
	q.Set("_busy_timeout", strconv.Itoa(d.BusyTimeout))
	q.Set("_journal_mode", strings.ToUpper(d.JournalMode))
	if d.ForeignKeys {
		q.Set("_foreign_keys", "on")
	} else {
		q.Set("_foreign_keys", "off")
	}
	return fmt.Sprintf("file:%s?%s", d.Path, q.Encode())
}
