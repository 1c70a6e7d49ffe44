package cmd

import (
	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradeboard/app"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the dashboard server",
	Long: `Start the refresh loop and serve the dashboard over HTTP.

The page at / shows the summary, both tables and the chart; views are pushed to
the browser over /ws after every change.

Example:
  tradeboard serve --config tradeboard.yaml`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	a := app.New(cfg)
	if err := a.Err(); err != nil {
		return err
	}
	a.Run()
	return nil
}
