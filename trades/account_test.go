package trades

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeSummary(t *testing.T) {
	s, gaps := NormalizeSummary(map[string]any{
		"balance":            json.Number("1000.456"),
		"equity":             json.Number("1002"),
		"unrealized_pnl_pct": "0.15%",
		"free_margin":        "$980.00",
		"margin":             json.Number("22"),
	})

	assert.Equal(t, Gaps(0), gaps)
	assert.True(t, s.Balance.Equal(d("1000.456")))
	assert.True(t, s.Equity.Equal(d("1002")))
	assert.True(t, s.UnrealizedPnlPercent.Equal(d("0.15")))
	assert.True(t, s.MarginFree.Equal(d("980")))
	assert.True(t, s.Margin.Equal(d("22")))
}

func TestNormalizeSummary_MissingFieldsAreZero(t *testing.T) {
	s, gaps := NormalizeSummary(map[string]any{"balance": "oops", "equity": nil})

	assert.Equal(t, Gaps(5), gaps)
	assert.True(t, s.Balance.IsZero())
	assert.True(t, s.Equity.IsZero())
	assert.True(t, s.Margin.IsZero())
}

func TestNormalizeEquity_SortsAscending(t *testing.T) {
	points, gaps := NormalizeEquity([]any{
		map[string]any{"timestamp": "2024-05-03 00:00:00", "equity": json.Number("1030"), "balance": json.Number("1000")},
		map[string]any{"timestamp": "2024-05-02 00:00:00", "equity": json.Number("1020"), "balance": json.Number("1000")},
		map[string]any{"timestamp": "2024-05-01 00:00:00", "equity": json.Number("1010"), "balance": json.Number("1000")},
	})

	assert.Equal(t, Gaps(0), gaps)
	require.Len(t, points, 3)
	for i := 1; i < len(points); i++ {
		assert.True(t, points[i-1].Timestamp.Before(points[i].Timestamp))
	}
	assert.Equal(t, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), points[0].Timestamp)
	assert.True(t, points[0].Equity.Decimal.Equal(d("1010")))
}

func TestNormalizeEquity_OptionalSeries(t *testing.T) {
	points, _ := NormalizeEquity([]any{
		map[string]any{"time": json.Number("1714521600"), "daily_pnl": json.Number("-12.5")},
		map[string]any{
			"date":                 "2024-05-02",
			"equity":               json.Number("990"),
			"balance":              json.Number("1000"),
			"max_loss_threshold":   json.Number("900"),
			"daily_loss_threshold": "-",
		},
	})
	require.Len(t, points, 2)

	first := points[0]
	assert.True(t, first.DailyPnl.Valid)
	assert.False(t, first.Equity.Valid)
	assert.False(t, first.Balance.Valid)

	second := points[1]
	assert.True(t, second.MaxLossThreshold.Valid)
	assert.False(t, second.DailyLossThreshold.Valid)
}

func TestNormalizeEquity_DropsUnusablePoints(t *testing.T) {
	points, gaps := NormalizeEquity([]any{
		map[string]any{"equity": json.Number("1")},
		map[string]any{"timestamp": "yesterday"},
		"not an object",
		map[string]any{"timestamp": "2024-05-01T00:00:00Z", "equity": json.Number("1")},
	})
	assert.Len(t, points, 1)
	assert.Equal(t, Gaps(3), gaps)
}
