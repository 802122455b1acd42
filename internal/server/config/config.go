// Package config handles configuration for the subscription token server:
// defaults, a JSON file overlay, environment variables and command-line flags.
package config

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/subcheck/internal/common"
	"github.com/dmitrijs2005/subcheck/internal/logging"
)

// Config holds runtime settings for the server.
//
// Fields:
//   - HTTPAddr: bind address of the HTTP API.
//   - Storage: "postgres", "sqlite", "memory" or empty for automatic selection.
//   - DatabaseDSN: PostgreSQL DSN (pgx). Selects PostgreSQL when Storage is empty.
//   - SQLitePath: local database file used when no DSN is configured.
//   - DefaultTokens: comma-separated tokens seeded at startup.
//   - TokenTTLDays: day count added to the seeding instant; kept raw so that
//     an unparseable value can be reported and ignored instead of failing boot.
//   - AdminSecret: HMAC secret for admin bearer tokens; empty disables /add_token.
//   - CheckRateLimit: global requests per second allowed on /check, 0 = unlimited.
//   - LogLevel: debug, info, warn or error.
type Config struct {
	HTTPAddr       string
	Storage        string
	DatabaseDSN    string
	SQLitePath     string
	DefaultTokens  string
	TokenTTLDays   string
	AdminSecret    string
	CheckRateLimit int
	LogLevel       string
}

// LoadDefaults populates Config with development defaults.
func (c *Config) LoadDefaults() {
	c.HTTPAddr = ":5000"
	c.Storage = common.StorageAuto
	c.DatabaseDSN = ""
	c.SQLitePath = "subscriptions.db"
	c.DefaultTokens = ""
	c.TokenTTLDays = ""
	c.AdminSecret = ""
	c.CheckRateLimit = 0
	c.LogLevel = "info"
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file, the environment and finally command-line flags.
// The result is validated before it is returned.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	if err := parseEnv(cfg); err != nil {
		return nil, fmt.Errorf("env config: %w", err)
	}
	parseFlags(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks field combinations that cannot work at runtime.
func (c *Config) Validate() error {
	if c.HTTPAddr == "" {
		return errors.New("http address is required")
	}

	switch c.Storage {
	case common.StorageAuto, common.StorageSQLite, common.StorageMemory:
	case common.StoragePostgres:
		if c.DatabaseDSN == "" {
			return errors.New("postgres storage requires a database DSN")
		}
	default:
		return fmt.Errorf("unknown storage %q", c.Storage)
	}

	if c.SQLitePath == "" &&
		(c.Storage == common.StorageSQLite || (c.Storage == common.StorageAuto && c.DatabaseDSN == "")) {
		return errors.New("sqlite storage requires a file path")
	}

	if c.CheckRateLimit < 0 {
		return fmt.Errorf("check rate limit must not be negative, got %d", c.CheckRateLimit)
	}

	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}

	return nil
}
