package chart

import (
	"fmt"
	"time"

	"github.com/rustyeddy/tradeboard/trades"
)

// Range is a chart time window selected from the range buttons.
type Range string

const (
	RangeHour Range = "1h"
	RangeDay  Range = "1d"
	RangeWeek Range = "7d"
	RangeAll  Range = "all"
)

// Ranges lists the selectable windows in button order.
var Ranges = []Range{RangeHour, RangeDay, RangeWeek, RangeAll}

func ParseRange(s string) (Range, error) {
	for _, r := range Ranges {
		if string(r) == s {
			return r, nil
		}
	}
	return "", fmt.Errorf("invalid chart range %q (want 1h, 1d, 7d or all)", s)
}

// Window is the span a range covers; zero means unbounded.
func (r Range) Window() time.Duration {
	switch r {
	case RangeHour:
		return time.Hour
	case RangeDay:
		return 24 * time.Hour
	case RangeWeek:
		return 7 * 24 * time.Hour
	}
	return 0
}

// Filter keeps the points with timestamp >= now - window. RangeAll returns
// points unchanged.
func Filter(points []trades.EquityPoint, r Range, now time.Time) []trades.EquityPoint {
	w := r.Window()
	if w == 0 {
		return points
	}
	cutoff := now.Add(-w)
	out := make([]trades.EquityPoint, 0, len(points))
	for _, p := range points {
		if !p.Timestamp.Before(cutoff) {
			out = append(out, p)
		}
	}
	return out
}
