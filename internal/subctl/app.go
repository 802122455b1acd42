// Package subctl implements the subctl administration tool: minting admin
// bearer tokens, seeding a store directly and checking tokens against a
// running server.
package subctl

import (
	"github.com/dmitrijs2005/subcheck/internal/buildinfo"
	"github.com/urfave/cli/v2"
)

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:    "subctl",
		Usage:   "subscription token administration",
		Version: buildinfo.Version(),
		Commands: []*cli.Command{
			AdminTokenCommand(),
			SeedCommand(),
			CheckCommand(),
		},
	}
}
