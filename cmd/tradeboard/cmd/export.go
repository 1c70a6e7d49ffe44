package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/rustyeddy/tradeboard/journal"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export trades and equity points to the journal",
	Long: `Run one refresh cycle and write every trade and equity point to the journal
configured in the journal section (CSV or SQLite).

With --org the trades are printed as Org-mode entries instead.

Examples:
  tradeboard export --config tradeboard.yaml
  tradeboard export --org > trades.org`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

var exportOrg bool

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().BoolVar(&exportOrg, "org", false, "print trades as Org-mode entries")
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	d, log, err := refreshOnce(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer log.Sync()

	data := d.Data()
	list := append(data.Open, data.Closed...)

	if exportOrg {
		fmt.Fprintln(cmd.OutOrStdout(), journal.FormatTradesOrg(list))
		return nil
	}

	j, err := journal.New(cfg.Journal)
	if err != nil {
		return fmt.Errorf("create journal: %w", err)
	}

	for _, t := range list {
		if err = j.RecordTrade(t); err != nil {
			break
		}
	}
	if err == nil {
		for _, p := range data.Equity {
			if err = j.RecordEquity(p); err != nil {
				break
			}
		}
	}
	if err = multierr.Append(err, j.Close()); err != nil {
		return fmt.Errorf("export: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ Exported %d trades and %d equity points (%s)\n", len(list), len(data.Equity), cfg.Journal.Type)
	return nil
}
