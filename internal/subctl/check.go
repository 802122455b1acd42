package subctl

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/urfave/cli/v2"
)

type checkResult struct {
	Token   string  `json:"token"`
	Valid   bool    `json:"valid"`
	Expires *string `json:"expires"`
	Message string  `json:"message"`
	Error   string  `json:"error"`
}

// CheckCommand asks a running server whether a token is valid. The exit
// status is 1 for tokens that are not valid.
func CheckCommand() *cli.Command {
	return &cli.Command{
		Name:      "check",
		Usage:     "Check a token against a running server",
		ArgsUsage: "<token>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "server",
				Usage:   "Server base URL",
				EnvVars: []string{"SUBCHECK_SERVER"},
				Value:   "http://localhost:5000",
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "Request timeout",
				Value: 10 * time.Second,
			},
		},
		Action: runCheck,
	}
}

func runCheck(c *cli.Context) error {
	token := c.Args().First()
	if token == "" {
		return cli.Exit("usage: subctl check <token>", 2)
	}

	endpoint := strings.TrimRight(c.String("server"), "/") + "/check?" + url.Values{"token": {token}}.Encode()

	req, err := http.NewRequestWithContext(c.Context, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	client := &http.Client{Timeout: c.Duration("timeout")}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	var res checkResult
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return fmt.Errorf("unexpected response (status %d): %w", resp.StatusCode, err)
	}

	switch {
	case res.Error != "":
		return fmt.Errorf("server error (status %d): %s", resp.StatusCode, res.Error)
	case res.Valid && res.Expires != nil:
		fmt.Fprintf(c.App.Writer, "%s: valid until %s\n", token, *res.Expires)
		return nil
	case res.Valid:
		fmt.Fprintf(c.App.Writer, "%s: valid, never expires\n", token)
		return nil
	default:
		fmt.Fprintf(c.App.Writer, "%s: %s\n", token, res.Message)
		return cli.Exit("", 1)
	}
}
