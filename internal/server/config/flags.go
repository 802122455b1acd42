package config

import (
	"flag"
	"os"
)

// parseFlags populates Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":5000")
//	-m string   storage: postgres, sqlite or memory
//	-d string   PostgreSQL DSN
//	-f string   SQLite database file
//	-t string   comma-separated default tokens
//	-l string   default token time-to-live, days
//	-s string   admin bearer token secret
//	-r int      /check requests per second, 0 = unlimited
//	-v string   log level
//
// Only these flags are parsed; everything else in os.Args is ignored.
func parseFlags(config *Config) {
	args := filterArgs(os.Args[1:], []string{"-a", "-m", "-d", "-f", "-t", "-l", "-s", "-r", "-v"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.HTTPAddr, "a", config.HTTPAddr, "address and port to run server")
	fs.StringVar(&config.Storage, "m", config.Storage, "storage: postgres, sqlite or memory")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SQLitePath, "f", config.SQLitePath, "sqlite database file")
	fs.StringVar(&config.DefaultTokens, "t", config.DefaultTokens, "comma-separated default tokens")
	fs.StringVar(&config.TokenTTLDays, "l", config.TokenTTLDays, "default token ttl (in days)")
	fs.StringVar(&config.AdminSecret, "s", config.AdminSecret, "admin token secret")
	fs.IntVar(&config.CheckRateLimit, "r", config.CheckRateLimit, "check requests per second (0 = unlimited)")
	fs.StringVar(&config.LogLevel, "v", config.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
