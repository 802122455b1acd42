package config

import (
	"encoding/json"
	"os"
)

// JsonConfig is the on-disk shape of the configuration file. Only non-zero
// values override the defaults.
type JsonConfig struct {
	HTTPAddr       string `json:"http_addr"`
	Storage        string `json:"storage"`
	DatabaseDSN    string `json:"database_dsn"`
	SQLitePath     string `json:"sqlite_path"`
	DefaultTokens  string `json:"default_tokens"`
	TokenTTLDays   string `json:"token_ttl_days"`
	AdminSecret    string `json:"admin_secret"`
	CheckRateLimit int    `json:"check_rate_limit"`
	LogLevel       string `json:"log_level"`
}

// parseJson overlays the file named by -c/-config onto config. Nothing is
// loaded when the flag is absent. An unreadable or invalid file panics, as a
// half-applied configuration is worse than not starting.
func parseJson(config *Config) {
	path := jsonConfigPath()
	if path == "" {
		return
	}

	file, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setString(&config.HTTPAddr, c.HTTPAddr)
	setString(&config.Storage, c.Storage)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SQLitePath, c.SQLitePath)
	setString(&config.DefaultTokens, c.DefaultTokens)
	setString(&config.TokenTTLDays, c.TokenTTLDays)
	setString(&config.AdminSecret, c.AdminSecret)
	setString(&config.LogLevel, c.LogLevel)
	if c.CheckRateLimit != 0 {
		config.CheckRateLimit = c.CheckRateLimit
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
