package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var boardsCmd = &cobra.Command{
	Use:   "boards",
	Short: "List reachable boards (connection diagnostic)",
	RunE: func(cmd *cobra.Command, args []string) error {
		ag, err := initAgent()
		if err != nil {
			return err
		}

		boards, err := ag.Boards(cmd.Context())
		if err != nil {
			return eris.Wrap(err, "list boards")
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tITEMS")
		for _, b := range boards {
			fmt.Fprintf(w, "%s\t%s\t%d\n", b.ID, b.Name, b.ItemCount)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(boardsCmd)
}
