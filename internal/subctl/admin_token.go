package subctl

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/subcheck/internal/common"
	"github.com/dmitrijs2005/subcheck/internal/server/auth"
	"github.com/urfave/cli/v2"
)

// AdminTokenCommand mints a bearer token accepted by POST /add_token.
func AdminTokenCommand() *cli.Command {
	return &cli.Command{
		Name:  "admin-token",
		Usage: "Print an admin bearer token for POST /add_token",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "secret",
				Usage:   "Admin secret configured on the server (prompted when empty)",
				EnvVars: []string{"SUBCHECK_ADMIN_SECRET"},
			},
			&cli.StringFlag{
				Name:  "subject",
				Usage: "Subject recorded in the token",
				Value: "admin",
			},
			&cli.DurationFlag{
				Name:  "ttl",
				Usage: "Token lifetime",
				Value: 24 * time.Hour,
			},
		},
		Action: runAdminToken,
	}
}

func runAdminToken(c *cli.Context) error {
	if c.Duration("ttl") <= 0 {
		return cli.Exit("--ttl must be positive", 2)
	}

	secret := []byte(c.String("secret"))
	if len(secret) == 0 {
		s, err := GetSecret(c.App.ErrWriter)
		if err != nil {
			return fmt.Errorf("read secret: %w", err)
		}
		secret = s
	}
	defer common.WipeByteArray(secret)

	if len(secret) == 0 {
		return errors.New("admin secret is empty")
	}

	tok, err := auth.GenerateAdminToken(c.String("subject"), secret, c.Duration("ttl"))
	if err != nil {
		return fmt.Errorf("generate token: %w", err)
	}

	fmt.Fprintln(c.App.Writer, tok)
	return nil
}
