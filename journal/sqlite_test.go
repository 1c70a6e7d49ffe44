package journal

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/tradeboard/trades"
)

func newTestSQLite(t *testing.T) (*SQLite, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	j, err := NewSQLite(path)
	require.NoError(t, err)
	return j, path
}

func TestSQLiteSchemaCreated(t *testing.T) {
	t.Parallel()

	j, path := newTestSQLite(t)
	require.NoError(t, j.Close())

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	rows, err := db.Query(`SELECT name FROM sqlite_master WHERE type='table' AND name IN ('trades','equity')`)
	require.NoError(t, err)
	defer rows.Close()

	found := map[string]bool{}
	for rows.Next() {
		var name string
		require.NoError(t, rows.Scan(&name))
		found[name] = true
	}
	require.NoError(t, rows.Err())

	assert.True(t, found["trades"])
	assert.True(t, found["equity"])
}

func TestSQLiteRoundTrip(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	defer j.Close()

	want := closedTrade()
	require.NoError(t, j.RecordTrade(want))

	got, err := j.GetTrade("T1")
	require.NoError(t, err)
	assert.Equal(t, "EURUSD", got.Symbol)
	assert.Equal(t, trades.Sell, got.Direction)
	assert.Equal(t, trades.Closed, got.Status)
	assert.True(t, got.Volume.Equal(want.Volume))
	assert.True(t, got.OpenPrice.Equal(want.OpenPrice))
	require.True(t, got.ClosePrice.Valid)
	assert.True(t, got.ClosePrice.Decimal.Equal(want.ClosePrice.Decimal))
	assert.True(t, got.OpenTime.Equal(want.OpenTime))
	require.NotNil(t, got.CloseTime)
	assert.True(t, got.CloseTime.Equal(*want.CloseTime))
	require.NotNil(t, got.DurationSeconds)
	assert.Equal(t, int64(3661), *got.DurationSeconds)
	assert.True(t, got.ProfitAbsolute.Equal(want.ProfitAbsolute))
	assert.True(t, got.ProfitPercent.Decimal.Equal(want.ProfitPercent.Decimal))
}

func TestSQLiteOpenTradeNulls(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	defer j.Close()

	rec := openTrade()
	require.NoError(t, j.RecordTrade(rec))

	got, err := j.GetTrade(TradeID(rec))
	require.NoError(t, err)
	assert.Equal(t, trades.Open, got.Status)
	assert.False(t, got.ClosePrice.Valid)
	assert.Nil(t, got.CloseTime)
	assert.Nil(t, got.DurationSeconds)
	assert.False(t, got.ProfitPercent.Valid)
}

func TestSQLiteRecordTradeReplaces(t *testing.T) {
	t.Parallel()

	j, path := newTestSQLite(t)

	rec := openTrade()
	require.NoError(t, j.RecordTrade(rec))
	rec.ProfitAbsolute = dec("30")
	require.NoError(t, j.RecordTrade(rec))
	require.NoError(t, j.Close())

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	var count int
	var profit string
	require.NoError(t, db.QueryRow(`SELECT COUNT(*), MAX(profit_usd) FROM trades`).Scan(&count, &profit))
	assert.Equal(t, 1, count)
	assert.Equal(t, "30", profit)
}

func TestGetTradeNotFound(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	defer j.Close()

	_, err := j.GetTrade("nonexistent")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestListTradesClosedBetween(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	defer j.Close()

	base := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	for i, p := range []string{"10", "-4", "7"} {
		rec := closedTrade()
		rec.Ticket = "T" + p
		ct := base.Add(time.Duration(i) * 24 * time.Hour)
		rec.CloseTime = &ct
		rec.ProfitAbsolute = dec(p)
		require.NoError(t, j.RecordTrade(rec))
	}
	require.NoError(t, j.RecordTrade(openTrade()))

	list, err := j.ListTradesClosedBetween(base, base.Add(48*time.Hour))
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "T10", list[0].Ticket)
	assert.Equal(t, "T-4", list[1].Ticket)

	total, err := j.RealizedBetween(base, base.Add(72*time.Hour))
	require.NoError(t, err)
	assert.True(t, total.Equal(dec("13")), total.String())
}

func TestListEquityBetween(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	defer j.Close()

	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	for _, h := range []int{2, 0, 1} {
		require.NoError(t, j.RecordEquity(trades.EquityPoint{
			Timestamp: base.Add(time.Duration(h) * time.Hour),
			Equity:    nd("1000"),
			DailyPnl:  nd("-3.5"),
		}))
	}

	points, err := j.ListEquityBetween(base, base.Add(2*time.Hour))
	require.NoError(t, err)
	require.Len(t, points, 2)
	assert.True(t, points[0].Timestamp.Equal(base))
	assert.True(t, points[1].Timestamp.Equal(base.Add(time.Hour)))
	assert.True(t, points[0].Equity.Valid)
	assert.False(t, points[0].Balance.Valid)
	assert.True(t, points[0].DailyPnl.Decimal.Equal(dec("-3.5")))
}
