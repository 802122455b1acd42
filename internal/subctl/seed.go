package subctl

import (
	"fmt"

	"github.com/dmitrijs2005/subcheck/internal/logging"
	"github.com/dmitrijs2005/subcheck/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/subcheck/internal/server/services"
	"github.com/dmitrijs2005/subcheck/internal/server/tokens"
	"github.com/urfave/cli/v2"
)

// SeedCommand runs the startup seeding against a store without starting
// the server. It reads the same environment variables as the server.
func SeedCommand() *cli.Command {
	return &cli.Command{
		Name:  "seed",
		Usage: "Create the default tokens in a store",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "storage",
				Usage:   "postgres, sqlite or memory (default: postgres when --dsn is set, else sqlite)",
				EnvVars: []string{"SUBCHECK_STORAGE"},
			},
			&cli.StringFlag{
				Name:    "dsn",
				Usage:   "PostgreSQL DSN",
				EnvVars: []string{"DATABASE_URL"},
			},
			&cli.StringFlag{
				Name:    "sqlite-path",
				Usage:   "SQLite database file",
				EnvVars: []string{"SUBCHECK_SQLITE_PATH"},
				Value:   "subscriptions.db",
			},
			&cli.StringFlag{
				Name:    "tokens",
				Usage:   "Comma-separated tokens",
				EnvVars: []string{"DEFAULT_TOKENS"},
			},
			&cli.StringFlag{
				Name:    "ttl-days",
				Usage:   "Days until the created tokens expire",
				EnvVars: []string{"TOKEN_TTL_DAYS"},
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level",
				Value: "warn",
			},
		},
		Action: runSeed,
	}
}

func runSeed(c *cli.Context) error {
	ctx := c.Context

	logger, err := logging.New(c.String("log-level"), c.App.ErrWriter)
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}

	plan := tokens.NewSeedPlan(c.String("tokens"), c.String("ttl-days"))
	if len(plan.Tokens) == 0 {
		return cli.Exit("no tokens given (--tokens or DEFAULT_TOKENS)", 2)
	}
	if plan.TTLIgnored {
		logger.Warn(ctx, "Token TTL is not a positive number of days, tokens will not expire",
			"value", c.String("ttl-days"))
	}

	m, err := repomanager.Open(ctx, repomanager.Options{
		Kind:       c.String("storage"),
		DSN:        c.String("dsn"),
		SQLitePath: c.String("sqlite-path"),
	})
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer m.Close()

	created, err := services.NewTokenService(m, logger, nil).Seed(ctx, plan)
	if err != nil {
		return err
	}

	fmt.Fprintf(c.App.Writer, "created %d of %d tokens\n", created, len(plan.Tokens))
	return nil
}
