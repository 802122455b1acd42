package config

import (
	"fmt"
	"strconv"

	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// envKeys maps recognised environment variables to configuration keys.
// DATABASE_URL, DEFAULT_TOKENS and TOKEN_TTL_DAYS keep their conventional
// unprefixed names.
var envKeys = map[string]string{
	"SUBCHECK_HTTP_ADDR":        "http_addr",
	"SUBCHECK_STORAGE":          "storage",
	"DATABASE_URL":              "database_dsn",
	"SUBCHECK_SQLITE_PATH":      "sqlite_path",
	"DEFAULT_TOKENS":            "default_tokens",
	"TOKEN_TTL_DAYS":            "token_ttl_days",
	"SUBCHECK_ADMIN_SECRET":     "admin_secret",
	"SUBCHECK_CHECK_RATE_LIMIT": "check_rate_limit",
	"SUBCHECK_LOG_LEVEL":        "log_level",
}

// parseEnv overlays set environment variables onto config.
func parseEnv(config *Config) error {
	k := koanf.New(".")

	provider := env.Provider("", ".", func(s string) string {
		return envKeys[s]
	})
	if err := k.Load(provider, nil); err != nil {
		return fmt.Errorf("load env: %w", err)
	}

	fields := map[string]*string{
		"http_addr":      &config.HTTPAddr,
		"storage":        &config.Storage,
		"database_dsn":   &config.DatabaseDSN,
		"sqlite_path":    &config.SQLitePath,
		"default_tokens": &config.DefaultTokens,
		"token_ttl_days": &config.TokenTTLDays,
		"admin_secret":   &config.AdminSecret,
		"log_level":      &config.LogLevel,
	}
	for key, dst := range fields {
		if k.Exists(key) {
			*dst = k.String(key)
		}
	}

	if k.Exists("check_rate_limit") {
		n, err := strconv.Atoi(k.String("check_rate_limit"))
		if err != nil {
			return fmt.Errorf("SUBCHECK_CHECK_RATE_LIMIT: %w", err)
		}
		config.CheckRateLimit = n
	}

	return nil
}
