package trades

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Field-name variants observed across API versions, in priority order.
var (
	ticketKeys     = []string{"ticket", "id", "position_id"}
	symbolKeys     = []string{"symbol"}
	directionKeys  = []string{"type", "entry_type", "direction", "side"}
	volumeKeys     = []string{"volume", "lots"}
	openPriceKeys  = []string{"open_price", "price_opened"}
	closePriceKeys = []string{"close_price", "price_closed"}
	openTimeKeys   = []string{"open_time", "date_opened"}
	closeTimeKeys  = []string{"close_time", "date_closed"}
	durationKeys   = []string{"duration"}
	profitKeys     = []string{"profit_usd", "pnl", "profit"}
	profitPctKeys  = []string{"profit_pct"}
)

// Normalize maps one raw upstream trade object to a TradeRecord. Missing or
// unusable fields degrade (numbers to zero, optional fields to null) rather
// than failing.
func Normalize(raw map[string]any) TradeRecord {
	rec, _ := normalize(raw)
	return rec
}

// NormalizeAll normalizes a raw trade array. Entries that are not JSON
// objects are skipped and counted as gaps along with degraded fields.
func NormalizeAll(raw []any) ([]TradeRecord, Gaps) {
	out := make([]TradeRecord, 0, len(raw))
	var gaps Gaps
	for _, item := range raw {
		obj, ok := item.(map[string]any)
		if !ok {
			gaps++
			continue
		}
		rec, g := normalize(obj)
		gaps += g
		out = append(out, rec)
	}
	return out, gaps
}

func normalize(raw map[string]any) (TradeRecord, Gaps) {
	var gaps Gaps
	dec := func(keys []string) (decimal.Decimal, bool) {
		v, ok := lookup(raw, keys...)
		if !ok {
			return decimal.Zero, false
		}
		d, ok := toDecimal(v)
		if !ok {
			gaps++
		}
		return d, ok
	}
	stamp := func(keys []string) (time.Time, bool) {
		v, ok := lookup(raw, keys...)
		if !ok {
			return time.Time{}, false
		}
		ts, ok := toTime(v)
		if !ok {
			gaps++
		}
		return ts, ok
	}

	rec := TradeRecord{}
	if v, ok := lookup(raw, ticketKeys...); ok {
		rec.Ticket = toText(v)
	}
	if v, ok := lookup(raw, symbolKeys...); ok {
		rec.Symbol = toText(v)
	} else {
		gaps++
	}

	var ok bool
	if rec.Volume, ok = dec(volumeKeys); !ok {
		gaps++
	}
	if rec.OpenPrice, ok = dec(openPriceKeys); !ok {
		gaps++
	}
	if rec.OpenTime, ok = stamp(openTimeKeys); !ok {
		gaps++
	}

	closePrice, hasClose := dec(closePriceKeys)
	profit, hasProfit := dec(profitKeys)
	rec.ProfitAbsolute = profit
	if pct, ok := dec(profitPctKeys); ok {
		rec.ProfitPercent = decimal.NewNullDecimal(pct)
	}

	var duration *int64
	if v, ok := lookup(raw, durationKeys...); ok {
		if secs, ok := toSeconds(v); ok {
			duration = &secs
		} else {
			gaps++
		}
	}

	if hasClose && hasProfit {
		rec.Status = Closed
		rec.ClosePrice = decimal.NewNullDecimal(closePrice)
		closeTime, ok := stamp(closeTimeKeys)
		if !ok {
			gaps++
			closeTime = rec.OpenTime
			if duration != nil {
				closeTime = rec.OpenTime.Add(time.Duration(*duration) * time.Second)
			}
		}
		rec.CloseTime = &closeTime
		if duration == nil && !rec.OpenTime.IsZero() && !closeTime.Before(rec.OpenTime) {
			secs := int64(closeTime.Sub(rec.OpenTime) / time.Second)
			duration = &secs
		}
	} else {
		if !hasProfit {
			gaps++
		}
		rec.Status = Open
	}
	rec.DurationSeconds = duration

	if d, ok := explicitDirection(raw); ok {
		rec.Direction = d
	} else {
		rec.Direction = InferDirection(rec.OpenPrice, closePrice, hasClose)
	}

	return rec, gaps
}

// InferDirection is the price-comparison heuristic used when upstream does
// not say which side a trade is on: Sell iff the open price is above the
// close price, Buy otherwise (including when there is no close price).
func InferDirection(open, close decimal.Decimal, hasClose bool) Direction {
	if hasClose && open.GreaterThan(close) {
		return Sell
	}
	return Buy
}

func explicitDirection(raw map[string]any) (Direction, bool) {
	v, ok := lookup(raw, directionKeys...)
	if !ok {
		return "", false
	}
	var s string
	switch t := v.(type) {
	case string:
		s = strings.ToLower(strings.TrimSpace(t))
	case json.Number:
		s = t.String()
	case float64:
		s = toText(t)
	default:
		return "", false
	}
	switch {
	case strings.HasPrefix(s, "buy"), s == "long", s == "0":
		return Buy, true
	case strings.HasPrefix(s, "sell"), s == "short", s == "1":
		return Sell, true
	}
	return "", false
}
