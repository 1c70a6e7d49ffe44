package trades

import (
	"sort"

	"github.com/shopspring/decimal"
)

// NormalizeSummary maps the /summary payload. Missing fields become zero.
func NormalizeSummary(raw map[string]any) (SummarySnapshot, Gaps) {
	var gaps Gaps
	field := func(keys ...string) decimal.Decimal {
		v, ok := lookup(raw, keys...)
		if !ok {
			gaps++
			return decimal.Zero
		}
		d, ok := toDecimal(v)
		if !ok {
			gaps++
		}
		return d
	}

	return SummarySnapshot{
		Balance:              field("balance"),
		Equity:               field("equity"),
		UnrealizedPnlPercent: field("unrealized_pnl_pct", "unrealized_pct"),
		MarginFree:           field("margin_free", "free_margin"),
		Margin:               field("margin"),
	}, gaps
}

// NormalizeEquity maps a chart payload to points sorted ascending by
// timestamp. Upstream order is not trusted; points without a usable
// timestamp are dropped and counted as gaps.
func NormalizeEquity(raw []any) ([]EquityPoint, Gaps) {
	var gaps Gaps
	out := make([]EquityPoint, 0, len(raw))
	for _, item := range raw {
		obj, ok := item.(map[string]any)
		if !ok {
			gaps++
			continue
		}
		v, ok := lookup(obj, "timestamp", "time", "date")
		if !ok {
			gaps++
			continue
		}
		ts, ok := toTime(v)
		if !ok {
			gaps++
			continue
		}
		out = append(out, EquityPoint{
			Timestamp:          ts,
			Equity:             optional(obj, "equity"),
			Balance:            optional(obj, "balance"),
			DailyPnl:           optional(obj, "daily_pnl"),
			MaxLossThreshold:   optional(obj, "max_loss_threshold"),
			DailyLossThreshold: optional(obj, "daily_loss_threshold"),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out, gaps
}

func optional(raw map[string]any, keys ...string) decimal.NullDecimal {
	v, ok := lookup(raw, keys...)
	if !ok {
		return decimal.NullDecimal{}
	}
	d, ok := toDecimal(v)
	if !ok {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(d)
}
