package cmd

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/tradeboard/config"
	"github.com/rustyeddy/tradeboard/journal"
)

func upstream(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/summary", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"balance":1000,"equity":1012.5,"unrealized_pnl_pct":-0.25,"margin_free":900,"margin":100}`))
	})
	mux.HandleFunc("/trades", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"ticket":"A1","symbol":"EURUSD","type":"buy","volume":1,"open_price":1.1,"open_time":"2024-05-04 10:00:00","profit_usd":3}]`))
	})
	mux.HandleFunc("/history", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"ticket":"H1","symbol":"GBPUSD","entry_type":"sell","volume":1,"price_opened":1.27,"price_closed":1.26,"date_opened":"2024-05-01 08:00:00","date_closed":"2024-05-01 09:00:00","pnl":100}]`))
	})
	mux.HandleFunc("/equity_chart", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"timestamp":"2024-05-04 10:00:00","equity":1005,"balance":1000}]`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func writeConfig(t *testing.T, mutate func(*config.Config)) string {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Log.File = filepath.Join(dir, "tradeboard.log")
	cfg.Journal.Type = "sqlite"
	cfg.Journal.DBPath = filepath.Join(dir, "journal.db")
	if mutate != nil {
		mutate(cfg)
	}
	path := filepath.Join(dir, "tradeboard.yaml")
	require.NoError(t, cfg.SaveToFile(path))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		cfgFile = ""
		exportOrg = false
		snapshotSort = ""
	})
	err := rootCmd.Execute()
	return out.String(), err
}

func TestSnapshot(t *testing.T) {
	up := upstream(t)
	path := writeConfig(t, func(c *config.Config) { c.API.BaseURL = up.URL })

	out, err := execute(t, "--config", path, "snapshot")
	require.NoError(t, err)

	assert.Contains(t, out, "* Summary")
	assert.Contains(t, out, "- Balance: $1000.00")
	assert.Contains(t, out, "- Unrealized PnL: -0.25%")
	assert.Contains(t, out, "* Open Positions")
	assert.Contains(t, out, "EURUSD")
	assert.Contains(t, out, "* Trade History")
	assert.Contains(t, out, "GBPUSD")
	assert.NotContains(t, out, "* Errors")
}

func TestSnapshotUnknownSortField(t *testing.T) {
	up := upstream(t)
	path := writeConfig(t, func(c *config.Config) { c.API.BaseURL = up.URL })

	_, err := execute(t, "--config", path, "snapshot", "--sort", "nope")
	assert.Error(t, err)
}

func TestExportSQLite(t *testing.T) {
	up := upstream(t)
	var dbPath string
	path := writeConfig(t, func(c *config.Config) {
		c.API.BaseURL = up.URL
		dbPath = c.Journal.DBPath
	})

	out, err := execute(t, "--config", path, "export")
	require.NoError(t, err)
	assert.Contains(t, out, "Exported 2 trades and 1 equity points")

	j, err := journal.NewSQLite(dbPath)
	require.NoError(t, err)
	defer j.Close()

	h1, err := j.GetTrade("H1")
	require.NoError(t, err)
	assert.Equal(t, "GBPUSD", h1.Symbol)

	_, err = j.GetTrade("A1")
	require.NoError(t, err)

	start := time.Date(2024, 5, 4, 0, 0, 0, 0, time.UTC)
	points, err := j.ListEquityBetween(start, start.Add(24*time.Hour))
	require.NoError(t, err)
	assert.Len(t, points, 1)
}

func TestExportOrg(t *testing.T) {
	up := upstream(t)
	path := writeConfig(t, func(c *config.Config) { c.API.BaseURL = up.URL })

	out, err := execute(t, "--config", path, "export", "--org")
	require.NoError(t, err)
	assert.Contains(t, out, "** Trade: EURUSD Buy (A1)")
	assert.Contains(t, out, "** Trade: GBPUSD Sell (H1)")
}

func TestConfigInitAndValidate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tradeboard.yaml")

	out, err := execute(t, "config", "init", "-o", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Created default configuration")

	out, err = execute(t, "config", "validate", "-f", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration valid")
	assert.Contains(t, out, "Refresh: 15s (overlap skip)")
}

func TestDayBounds(t *testing.T) {
	start, end, err := dayBounds(time.UTC, "2024-01-15")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, 24*time.Hour, end.Sub(start))

	_, _, err = dayBounds(time.UTC, "15/01/2024")
	assert.Error(t, err)
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "tradeboard version "+version)
}
