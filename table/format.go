package table

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rustyeddy/tradeboard/trades"
)

// Blank is shown for values that do not apply.
const Blank = trades.Sentinel

// TimeLayout is the display form of timestamps, always UTC.
const TimeLayout = "2006-01-02 15:04:05"

// Currency formats d as "$1000.46"; negatives keep the sign after the
// symbol ("$-25.00").
func Currency(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

func Percent(d decimal.Decimal) string {
	return d.StringFixed(2) + "%"
}

// ToneOf marks zero and gains Positive, losses Negative.
func ToneOf(d decimal.Decimal) Tone {
	if d.IsNegative() {
		return Negative
	}
	return Positive
}

func Plain(d decimal.Decimal) string {
	return d.String()
}

func PlainNull(d decimal.NullDecimal) string {
	if !d.Valid {
		return Blank
	}
	return d.Decimal.String()
}

func Time(t *time.Time) string {
	if t == nil || t.IsZero() {
		return Blank
	}
	return t.UTC().Format(TimeLayout)
}

// Duration renders seconds as "1h02m03s", "4m05s" or "9s".
func Duration(secs *int64) string {
	if secs == nil {
		return Blank
	}
	s := *secs
	sign := ""
	if s < 0 {
		sign, s = "-", -s
	}
	h, m, sec := s/3600, s/60%60, s%60
	switch {
	case h > 0:
		return fmt.Sprintf("%s%dh%02dm%02ds", sign, h, m, sec)
	case m > 0:
		return fmt.Sprintf("%s%dm%02ds", sign, m, sec)
	default:
		return fmt.Sprintf("%s%ds", sign, sec)
	}
}
