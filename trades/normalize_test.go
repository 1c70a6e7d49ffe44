package trades

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestNormalize_InferredSell(t *testing.T) {
	rec := Normalize(map[string]any{
		"symbol":      "EURUSD",
		"open_price":  1.1,
		"close_price": 1.05,
		"volume":      0.5,
		"profit_usd":  -25.0,
	})

	assert.Equal(t, "EURUSD", rec.Symbol)
	assert.Equal(t, Sell, rec.Direction)
	assert.True(t, rec.ProfitAbsolute.Equal(d("-25")), rec.ProfitAbsolute.String())
	assert.True(t, rec.Volume.Equal(d("0.5")))
	assert.Equal(t, Closed, rec.Status)
	require.True(t, rec.ClosePrice.Valid)
	assert.True(t, rec.ClosePrice.Decimal.Equal(d("1.05")))
	require.NotNil(t, rec.CloseTime)
}

func TestNormalize_DirectionHeuristic(t *testing.T) {
	tests := []struct {
		name  string
		open  any
		close any
		want  Direction
	}{
		{"open above close", json.Number("1.2000"), json.Number("1.1000"), Sell},
		{"open below close", json.Number("1.1000"), json.Number("1.2000"), Buy},
		{"equal prices", json.Number("1.1"), json.Number("1.10"), Buy},
		{"sentinel close", json.Number("1.2"), "-", Buy},
		{"null close", json.Number("1.2"), nil, Buy},
		{"string prices", "2400.50", "2399.10", Sell},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := Normalize(map[string]any{
				"symbol":      "XAUUSD",
				"open_price":  tt.open,
				"close_price": tt.close,
				"profit_usd":  json.Number("1"),
			})
			assert.Equal(t, tt.want, rec.Direction)
		})
	}
}

func TestNormalize_ExplicitDirectionWins(t *testing.T) {
	tests := []struct {
		name string
		raw  map[string]any
		want Direction
	}{
		{"type buy overrides heuristic", map[string]any{"type": "buy", "open_price": 2, "close_price": 1}, Buy},
		{"entry_type SELL", map[string]any{"entry_type": "SELL", "open_price": 1, "close_price": 2}, Sell},
		{"buy limit prefix", map[string]any{"type": "BUY_LIMIT"}, Buy},
		{"mt5 numeric sell", map[string]any{"type": json.Number("1"), "open_price": 1, "close_price": 2}, Sell},
		{"direction short", map[string]any{"direction": "short"}, Sell},
		{"unknown label falls back", map[string]any{"type": "in", "open_price": 2, "close_price": 1}, Sell},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.raw["profit_usd"] = 0
			assert.Equal(t, tt.want, Normalize(tt.raw).Direction)
		})
	}
}

func TestNormalize_SentinelMeansOpen(t *testing.T) {
	variants := []map[string]any{
		{"close_price": "-", "close_time": "-", "profit_usd": json.Number("12.5")},
		{"close_price": nil, "close_time": nil, "profit_usd": json.Number("12.5")},
		{"profit_usd": json.Number("12.5")},
		{"close_price": "", "profit_usd": json.Number("12.5")},
		{"close_price": json.Number("1.3"), "close_time": "2024-01-02 10:00:00", "profit_usd": "-"},
	}

	for i, raw := range variants {
		raw["symbol"] = "GBPUSD"
		raw["open_price"] = json.Number("1.25")
		raw["open_time"] = "2024-01-02 09:00:00"
		rec := Normalize(raw)
		assert.Equal(t, Open, rec.Status, "variant %d", i)
		assert.False(t, rec.ClosePrice.Valid, "variant %d", i)
		assert.Nil(t, rec.CloseTime, "variant %d", i)
	}
}

func TestNormalize_FieldVariants(t *testing.T) {
	v1 := Normalize(map[string]any{
		"symbol":      "EURUSD",
		"type":        "buy",
		"volume":      json.Number("0.10"),
		"open_price":  json.Number("1.0850"),
		"close_price": json.Number("1.0900"),
		"open_time":   "2024-03-01 10:00:00",
		"close_time":  "2024-03-01 11:30:00",
		"duration":    "1:30:00",
		"profit_usd":  json.Number("50"),
		"profit_pct":  json.Number("0.46"),
	})
	v2 := Normalize(map[string]any{
		"symbol":       "EURUSD",
		"entry_type":   "buy",
		"volume":       "0.10",
		"price_opened": "1.0850",
		"price_closed": "1.0900",
		"date_opened":  "2024-03-01T10:00:00Z",
		"date_closed":  "2024-03-01T11:30:00Z",
		"pnl":          "$50.00",
		"profit_pct":   "0.46%",
	})

	for _, rec := range []TradeRecord{v1, v2} {
		assert.Equal(t, Closed, rec.Status)
		assert.Equal(t, Buy, rec.Direction)
		assert.True(t, rec.Volume.Equal(d("0.1")))
		assert.True(t, rec.OpenPrice.Equal(d("1.085")))
		assert.True(t, rec.ProfitAbsolute.Equal(d("50")))
		require.True(t, rec.ProfitPercent.Valid)
		assert.True(t, rec.ProfitPercent.Decimal.Equal(d("0.46")))
		assert.Equal(t, time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC), rec.OpenTime)
		require.NotNil(t, rec.CloseTime)
		assert.Equal(t, time.Date(2024, 3, 1, 11, 30, 0, 0, time.UTC), *rec.CloseTime)
		require.NotNil(t, rec.DurationSeconds)
		assert.Equal(t, int64(5400), *rec.DurationSeconds)
	}
}

func TestNormalize_MissingProfitDegradesToZero(t *testing.T) {
	rec, gaps := normalize(map[string]any{
		"symbol":     "BTCUSD",
		"open_price": json.Number("65000"),
		"open_time":  json.Number("1700000000"),
		"volume":     json.Number("0.01"),
	})
	assert.True(t, rec.ProfitAbsolute.IsZero())
	assert.Equal(t, Open, rec.Status)
	assert.Equal(t, Gaps(1), gaps)
	assert.Equal(t, time.Unix(1700000000, 0).UTC(), rec.OpenTime)
}

func TestNormalize_ClosedWithoutCloseTime(t *testing.T) {
	rec, gaps := normalize(map[string]any{
		"symbol":      "EURUSD",
		"volume":      json.Number("1"),
		"open_price":  json.Number("1.1"),
		"close_price": json.Number("1.2"),
		"open_time":   "2024-01-01 00:00:00",
		"duration":    json.Number("3600"),
		"profit_usd":  json.Number("10"),
	})
	assert.Equal(t, Closed, rec.Status)
	require.NotNil(t, rec.CloseTime)
	assert.Equal(t, time.Date(2024, 1, 1, 1, 0, 0, 0, time.UTC), *rec.CloseTime)
	assert.Equal(t, Gaps(1), gaps)
}

func TestNormalize_EveryRecordHasOneStatus(t *testing.T) {
	raws := []map[string]any{
		{},
		{"close_price": json.Number("1")},
		{"profit_usd": json.Number("1")},
		{"close_price": json.Number("1"), "profit_usd": json.Number("1")},
		{"close_price": "-", "profit_usd": "-"},
	}
	for _, raw := range raws {
		rec := Normalize(raw)
		switch rec.Status {
		case Open:
			assert.False(t, rec.ClosePrice.Valid)
			assert.Nil(t, rec.CloseTime)
		case Closed:
			assert.True(t, rec.ClosePrice.Valid)
			assert.NotNil(t, rec.CloseTime)
		default:
			t.Fatalf("unexpected status %q", rec.Status)
		}
	}
}

func TestNormalizeAll(t *testing.T) {
	recs, gaps := NormalizeAll([]any{
		map[string]any{"symbol": "EURUSD", "open_price": 1.1, "open_time": "2024-01-01", "volume": 1, "profit_usd": 3},
		"garbage",
		map[string]any{"symbol": "XAUUSD", "open_price": 2000, "close_price": 2010, "open_time": "2024-01-01", "close_time": "2024-01-02", "volume": 1, "profit_usd": 10},
	})
	require.Len(t, recs, 2)
	assert.Equal(t, Gaps(1), gaps)

	open, closed := Split(recs)
	require.Len(t, open, 1)
	require.Len(t, closed, 1)
	assert.Equal(t, "EURUSD", open[0].Symbol)
	assert.Equal(t, "XAUUSD", closed[0].Symbol)
}

func TestParseDurationText(t *testing.T) {
	tests := []struct {
		in   string
		want int64
		ok   bool
	}{
		{"90", 90, true},
		{"1h2m3s", 3723, true},
		{"1h 5m", 3900, true},
		{"02:03:04", 7384, true},
		{"2 days, 01:00:00", 176400, true},
		{"1 day", 86400, true},
		{"soon", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := parseDurationText(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
