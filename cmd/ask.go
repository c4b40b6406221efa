package main

import (
	"encoding/json"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/insights-cli/internal/agent"
	"github.com/sells-group/insights-cli/pkg/monday"
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Answer a business question from board data",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		question := strings.Join(args, " ")

		ag, err := initAgent()
		if err != nil {
			return err
		}

		resp, err := ag.Answer(cmd.Context(), question)
		if err != nil {
			return eris.Wrap(err, "answer query")
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	},
}

// initAgent builds the board client and agent from config.
func initAgent() (*agent.Agent, error) {
	if cfg.Monday.Token == "" {
		return nil, eris.New("monday API token not configured (set INSIGHTS_MONDAY_TOKEN)")
	}

	client := monday.NewClient(cfg.Monday.Token,
		monday.WithBaseURL(cfg.Monday.BaseURL),
		monday.WithAPIVersion(cfg.Monday.APIVersion),
		monday.WithRateLimit(cfg.Monday.RateLimitRPS),
		monday.WithHTTPClient(&http.Client{Timeout: time.Duration(cfg.Monday.TimeoutSecs) * time.Second}),
	)

	ag, err := agent.New(client, cfg)
	if err != nil {
		return nil, eris.Wrap(err, "init agent")
	}
	return ag, nil
}

func init() {
	rootCmd.AddCommand(askCmd)
}
