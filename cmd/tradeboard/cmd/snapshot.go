package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradeboard/dashboard"
	"github.com/rustyeddy/tradeboard/table"
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Print the current account as Org-mode tables",
	Long: `Run one refresh cycle and print the summary, open positions and trade history.

Examples:
  tradeboard snapshot
  tradeboard snapshot --sort profit_usd`,
	Args: cobra.NoArgs,
	RunE: runSnapshot,
}

var snapshotSort string

func init() {
	rootCmd.AddCommand(snapshotCmd)

	snapshotCmd.Flags().StringVarP(&snapshotSort, "sort", "s", "", "column field to sort both tables by (ascending)")
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	d, log, err := refreshOnce(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer log.Sync()

	if snapshotSort != "" {
		for _, id := range []string{table.OpenTableID, table.ClosedTableID} {
			if _, err := d.Sort(id, snapshotSort); err != nil {
				return fmt.Errorf("sort %s: %w", id, err)
			}
		}
	}

	writeSnapshot(cmd.OutOrStdout(), d.Snapshot())
	return nil
}

func writeSnapshot(w io.Writer, v dashboard.View) {
	fmt.Fprintln(w, "* Summary")
	for _, f := range v.Summary {
		fmt.Fprintf(w, "- %s: %s\n", f.Label, f.Text)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "* Open Positions")
	fmt.Fprint(w, table.FormatOrg(v.Open))
	fmt.Fprintln(w)
	fmt.Fprintln(w, "* Trade History")
	fmt.Fprint(w, table.FormatOrg(v.Closed))

	if len(v.Errors) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "* Errors")
		for k, e := range v.Errors {
			fmt.Fprintf(w, "- %s: %s\n", k, e)
		}
	}
}
