package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rustyeddy/tradeboard/api"
	"github.com/rustyeddy/tradeboard/chart"
	"github.com/rustyeddy/tradeboard/config"
	"github.com/rustyeddy/tradeboard/dashboard"
	"github.com/rustyeddy/tradeboard/logging"
)

var rootCmd = &cobra.Command{
	Use:   "tradeboard",
	Short: "A live dashboard for a trading account API",
	Long: `Tradeboard polls a trading-account HTTP API and shows the account summary,
open positions, trade history and the equity curve.

It provides:
  - A browser dashboard with sortable tables and a range-filtered chart
  - One-shot snapshots of the current account as Org-mode tables
  - CSV and SQLite export of trades and equity points
  - Queries over an exported SQLite journal`,
	SilenceUsage: true,
}

var cfgFile string

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (YAML or JSON); defaults are used when empty")
}

// loadConfig reads --config, or returns the defaults.
func loadConfig() (*config.Config, error) {
	if cfgFile == "" {
		cfg := config.Default()
		return cfg, cfg.Validate()
	}
	cfg, err := config.LoadFromFile(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// refreshOnce runs a single dashboard cycle for the one-shot commands.
// Failed kinds are logged; the cycle still returns whatever loaded.
func refreshOnce(ctx context.Context, cfg *config.Config) (*dashboard.Dashboard, *zap.Logger, error) {
	log, err := logging.New(cfg.Log)
	if err != nil {
		return nil, nil, fmt.Errorf("logger: %w", err)
	}
	initial, err := chart.ParseRange(cfg.Chart.DefaultRange)
	if err != nil {
		return nil, nil, err
	}
	renderer := chart.NewRenderer(chart.NewEcharts(cfg.Chart), initial, chart.WithLogger(logging.Component(log, "chart")))
	client := api.NewClient(cfg.API.BaseURL, cfg.API.Timeout)
	d := dashboard.New(client, cfg.API.Endpoints, renderer, logging.Component(log, "dashboard"))

	if err := d.Refresh(ctx); err != nil {
		log.Warn("refresh incomplete", zap.Error(err))
	}
	return d, log, renderer.Close()
}
