package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

// Config represents the complete dashboard configuration
type Config struct {
	API     APIConfig     `json:"api" yaml:"api"`
	Refresh RefreshConfig `json:"refresh" yaml:"refresh"`
	Chart   ChartConfig   `json:"chart" yaml:"chart"`
	Server  ServerConfig  `json:"server" yaml:"server"`
	Log     LogConfig     `json:"log" yaml:"log"`
	Journal JournalConfig `json:"journal" yaml:"journal"`
}

// APIConfig describes the upstream trading-account API
type APIConfig struct {
	BaseURL   string          `json:"base_url" yaml:"base_url"`
	Timeout   time.Duration   `json:"timeout" yaml:"timeout"`
	Endpoints EndpointsConfig `json:"endpoints" yaml:"endpoints"`
}

// EndpointsConfig holds one path (or absolute URL) per data kind. An empty
// path disables that kind.
type EndpointsConfig struct {
	Summary string `json:"summary" yaml:"summary"`
	Trades  string `json:"trades" yaml:"trades"`
	History string `json:"history" yaml:"history"`
	Chart   string `json:"chart" yaml:"chart"`
}

// Overlap policies for refresh cycles that outlive their interval.
const (
	OverlapSkip  = "skip"
	OverlapAllow = "allow"
)

// RefreshConfig controls the polling loop
type RefreshConfig struct {
	Interval time.Duration `json:"interval" yaml:"interval"`
	// Schedule, when set, overrides Interval. Accepts a standard cron
	// expression or a descriptor such as "@every 15s".
	Schedule string `json:"schedule,omitempty" yaml:"schedule,omitempty"`
	Overlap  string `json:"overlap" yaml:"overlap"`
}

// ChartConfig contains chart presentation settings
type ChartConfig struct {
	DefaultRange string `json:"default_range" yaml:"default_range"`
	Width        string `json:"width" yaml:"width"`
	Height       string `json:"height" yaml:"height"`
	Title        string `json:"title" yaml:"title"`
}

// ServerConfig contains the HTTP surface settings
type ServerConfig struct {
	Addr string `json:"addr" yaml:"addr"`
	Mode string `json:"mode" yaml:"mode"` // gin mode: "debug", "release" or "test"
}

// LogConfig contains logger settings
type LogConfig struct {
	Level      string `json:"level" yaml:"level"`
	Encoding   string `json:"encoding" yaml:"encoding"` // "json" or "console"
	File       string `json:"file,omitempty" yaml:"file,omitempty"`
	MaxSize    int    `json:"max_size,omitempty" yaml:"max_size,omitempty"`
	MaxBackups int    `json:"max_backups,omitempty" yaml:"max_backups,omitempty"`
	MaxAge     int    `json:"max_age,omitempty" yaml:"max_age,omitempty"`
	Compress   bool   `json:"compress,omitempty" yaml:"compress,omitempty"`
}

// JournalConfig contains export parameters
type JournalConfig struct {
	Type       string `json:"type" yaml:"type"` // "csv" or "sqlite"
	TradesFile string `json:"trades_file,omitempty" yaml:"trades_file,omitempty"`
	EquityFile string `json:"equity_file,omitempty" yaml:"equity_file,omitempty"`
	DBPath     string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

// LoadFromFile loads configuration from a file (JSON or YAML)
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	// Unset fields keep their defaults.
	cfg := Default()

	// Try YAML first, fall back to JSON
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		cfg = Default()
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile saves configuration to a file (JSON or YAML based on extension)
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}

	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("api.base_url is required")
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("api.timeout must be positive")
	}
	e := c.API.Endpoints
	if e.Summary == "" && e.Trades == "" && e.History == "" && e.Chart == "" {
		return fmt.Errorf("api.endpoints: at least one endpoint is required")
	}
	if c.Refresh.Schedule == "" && c.Refresh.Interval < time.Second {
		return fmt.Errorf("refresh.interval must be at least 1s")
	}
	if _, err := c.Refresh.CronSchedule(); err != nil {
		return fmt.Errorf("refresh.schedule: %w", err)
	}
	if c.Refresh.Overlap != OverlapSkip && c.Refresh.Overlap != OverlapAllow {
		return fmt.Errorf("refresh.overlap must be 'skip' or 'allow'")
	}
	switch c.Chart.DefaultRange {
	case "1h", "1d", "7d", "all":
	default:
		return fmt.Errorf("chart.default_range must be one of 1h, 1d, 7d, all")
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("server.mode must be one of debug, release, test")
	}
	if c.Journal.Type != "csv" && c.Journal.Type != "sqlite" {
		return fmt.Errorf("journal.type must be 'csv' or 'sqlite'")
	}
	if c.Journal.Type == "csv" && (c.Journal.TradesFile == "" || c.Journal.EquityFile == "") {
		return fmt.Errorf("journal trades_file and equity_file required for CSV type")
	}
	if c.Journal.Type == "sqlite" && c.Journal.DBPath == "" {
		return fmt.Errorf("journal db_path required for SQLite type")
	}
	return nil
}

// CronSchedule returns the schedule the refresh loop follows.
func (r RefreshConfig) CronSchedule() (cron.Schedule, error) {
	if r.Schedule == "" {
		return cron.Every(r.Interval), nil
	}
	parser := cron.NewParser(cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	return parser.Parse(r.Schedule)
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL: "http://localhost:5000",
			Timeout: 10 * time.Second,
			Endpoints: EndpointsConfig{
				Summary: "/summary",
				Trades:  "/trades",
				History: "/history",
				Chart:   "/equity_chart",
			},
		},
		Refresh: RefreshConfig{
			Interval: 15 * time.Second,
			Overlap:  OverlapSkip,
		},
		Chart: ChartConfig{
			DefaultRange: "all",
			Width:        "100%",
			Height:       "420px",
			Title:        "Equity",
		},
		Server: ServerConfig{
			Addr: ":8080",
			Mode: "release",
		},
		Log: LogConfig{
			Level:    "info",
			Encoding: "console",
		},
		Journal: JournalConfig{
			Type:       "csv",
			TradesFile: "./trades.csv",
			EquityFile: "./equity.csv",
		},
	}
}
