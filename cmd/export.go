package main

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/insights-cli/internal/export"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export [question]",
	Short: "Answer a question and write the response to an xlsx workbook",
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

		if err := export.WriteXLSX(resp, exportOut); err != nil {
			return err
		}

		zap.L().Info("workbook written",
			zap.String("path", exportOut),
			zap.String("response_id", resp.ID),
		)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportOut, "out", "insights.xlsx", "output workbook path")
	rootCmd.AddCommand(exportCmd)
}
