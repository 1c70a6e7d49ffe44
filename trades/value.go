package trades

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Sentinel is how upstream marks a field that does not apply yet.
const Sentinel = "-"

// timeLayouts are tried in order for string timestamps.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006.01.02 15:04:05",
	"2006.01.02 15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

// lookup returns the first of keys whose value is present. Absent keys,
// null, empty strings and the sentinel all count as not present.
func lookup(raw map[string]any, keys ...string) (any, bool) {
	for _, k := range keys {
		v, ok := raw[k]
		if !ok || isBlank(v) {
			continue
		}
		return v, true
	}
	return nil, false
}

func isBlank(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		s := strings.TrimSpace(t)
		return s == "" || s == Sentinel
	}
	return false
}

// toDecimal converts JSON numbers and decorated numeric strings such as
// "$1,200.50" or "-3.2%".
func toDecimal(v any) (decimal.Decimal, bool) {
	switch t := v.(type) {
	case json.Number:
		d, err := decimal.NewFromString(t.String())
		return d, err == nil
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return decimal.Zero, false
		}
		return decimal.NewFromFloat(t), true
	case int:
		return decimal.NewFromInt(int64(t)), true
	case int64:
		return decimal.NewFromInt(t), true
	case string:
		s := stripDecoration(t)
		if s == "" {
			return decimal.Zero, false
		}
		d, err := decimal.NewFromString(s)
		return d, err == nil
	}
	return decimal.Zero, false
}

// stripDecoration removes currency, percent and grouping characters.
func stripDecoration(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '$', '%', ',', ' ', '\u00a0':
			return -1
		}
		return r
	}, strings.TrimSpace(s))
}

// toTime parses strings in the known layouts and numeric unix timestamps in
// seconds or milliseconds.
func toTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case string:
		s := strings.TrimSpace(t)
		for _, layout := range timeLayouts {
			if ts, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
				return ts.UTC(), true
			}
		}
		if n, err := strconv.ParseFloat(s, 64); err == nil {
			return unixTime(n), true
		}
	case json.Number:
		if n, err := t.Float64(); err == nil {
			return unixTime(n), true
		}
	case float64:
		return unixTime(t), true
	case int64:
		return unixTime(float64(t)), true
	case int:
		return unixTime(float64(t)), true
	}
	return time.Time{}, false
}

func unixTime(n float64) time.Time {
	if math.Abs(n) >= 1e12 {
		return time.UnixMilli(int64(n)).UTC()
	}
	sec, frac := math.Modf(n)
	return time.Unix(int64(sec), int64(frac*1e9)).UTC()
}

// toSeconds parses a duration given as seconds, a Go duration string,
// "HH:MM:SS" or "N days, HH:MM:SS".
func toSeconds(v any) (int64, bool) {
	if d, ok := v.(string); ok {
		return parseDurationText(d)
	}
	d, ok := toDecimal(v)
	if !ok {
		return 0, false
	}
	return d.Round(0).IntPart(), true
}

func parseDurationText(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	if n, err := strconv.ParseFloat(s, 64); err == nil {
		return int64(math.Round(n)), true
	}
	if d, err := time.ParseDuration(strings.ReplaceAll(s, " ", "")); err == nil {
		return int64(d / time.Second), true
	}

	var days int64
	if i := strings.Index(s, "day"); i >= 0 {
		n, err := strconv.ParseInt(strings.TrimSpace(s[:i]), 10, 64)
		if err != nil {
			return 0, false
		}
		days = n
		s = strings.TrimLeft(s[i:], "days,")
		s = strings.TrimSpace(s)
		if s == "" {
			return days * 86400, true
		}
	}

	var h, m, sec int64
	if _, err := fmt.Sscanf(s, "%d:%d:%d", &h, &m, &sec); err != nil {
		return 0, false
	}
	return days*86400 + h*3600 + m*60 + sec, true
}

func toText(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}
