package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradeboard/journal"
	"github.com/rustyeddy/tradeboard/table"
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Query an exported SQLite journal",
	Long: `Query and display trades written by 'tradeboard export' to a SQLite journal.

Subcommands:
  trade  - Get details of a specific trade by ID
  today  - List trades closed today
  day    - List trades closed on a specific day
  equity - List equity points between two days

Examples:
  tradeboard journal trade <trade-id>
  tradeboard journal today
  tradeboard journal day 2024-01-15`,
}

var journalTradeCmd = &cobra.Command{
	Use:   "trade <trade-id>",
	Short: "Get details of a specific trade",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalTrade,
}

var journalTodayCmd = &cobra.Command{
	Use:   "today",
	Short: "List trades closed today",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return listClosedOn(cmd, time.Now().In(time.Local).Format("2006-01-02"))
	},
}

var journalDayCmd = &cobra.Command{
	Use:   "day <YYYY-MM-DD>",
	Short: "List trades closed on a specific day",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return listClosedOn(cmd, args[0])
	},
}

var journalEquityCmd = &cobra.Command{
	Use:   "equity <YYYY-MM-DD> [YYYY-MM-DD]",
	Short: "List equity points between two days",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runJournalEquity,
}

var journalDBPath string

func init() {
	rootCmd.AddCommand(journalCmd)
	journalCmd.AddCommand(journalTradeCmd)
	journalCmd.AddCommand(journalTodayCmd)
	journalCmd.AddCommand(journalDayCmd)
	journalCmd.AddCommand(journalEquityCmd)

	journalCmd.PersistentFlags().StringVarP(&journalDBPath, "db", "d", "./tradeboard.sqlite", "path to SQLite journal DB")
}

func runJournalTrade(cmd *cobra.Command, args []string) error {
	j, err := journal.NewSQLite(journalDBPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer j.Close()

	rec, err := j.GetTrade(args[0])
	if err != nil {
		return fmt.Errorf("get trade: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), journal.FormatTradeOrg(rec))
	return nil
}

func listClosedOn(cmd *cobra.Command, day string) error {
	j, err := journal.NewSQLite(journalDBPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer j.Close()

	start, end, err := dayBounds(time.Local, day)
	if err != nil {
		return fmt.Errorf("date: %w", err)
	}

	recs, err := j.ListTradesClosedBetween(start, end)
	if err != nil {
		return fmt.Errorf("query trades: %w", err)
	}
	total, err := j.RealizedBetween(start, end)
	if err != nil {
		return fmt.Errorf("realized: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "* %s: %d trades, realized %s\n\n", day, len(recs), total.StringFixed(2))
	fmt.Fprintln(out, journal.FormatTradesOrg(recs))
	return nil
}

func runJournalEquity(cmd *cobra.Command, args []string) error {
	j, err := journal.NewSQLite(journalDBPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer j.Close()

	start, end, err := dayBounds(time.Local, args[0])
	if err != nil {
		return fmt.Errorf("date: %w", err)
	}
	if len(args) == 2 {
		if _, end, err = dayBounds(time.Local, args[1]); err != nil {
			return fmt.Errorf("date: %w", err)
		}
	}

	points, err := j.ListEquityBetween(start, end)
	if err != nil {
		return fmt.Errorf("query equity: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "| Time | Equity | Balance | Daily PnL |")
	fmt.Fprintln(out, "|------+--------+---------+-----------|")
	for _, p := range points {
		fmt.Fprintf(out, "| %s | %s | %s | %s |\n",
			p.Timestamp.In(time.Local).Format("2006-01-02 15:04:05"),
			table.PlainNull(p.Equity), table.PlainNull(p.Balance), table.PlainNull(p.DailyPnl))
	}
	return nil
}

func dayBounds(loc *time.Location, day string) (time.Time, time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02", day, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
	end := start.AddDate(0, 0, 1)
	return start, end, nil
}
