// Package chart builds the equity chart from cached points and windows it
// by range without going back to the API.
package chart

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rustyeddy/tradeboard/trades"
)

// Handle identifies one rendered chart instance.
type Handle string

// ErrUnknownHandle is returned when destroying a chart that does not exist.
var ErrUnknownHandle = errors.New("chart: unknown handle")

// Series is one labelled line. Values line up with the labels passed to
// RenderSeries; a null value is a gap.
type Series struct {
	Label  string                `json:"label"`
	Values []decimal.NullDecimal `json:"values"`
}

// Charter is the drawing primitive. Every handle returned by RenderSeries
// must eventually be passed to Destroy.
type Charter interface {
	RenderSeries(labels []time.Time, series []Series) (Handle, error)
	Destroy(Handle) error
}

// Series labels.
const (
	EquityLabel    = "Equity"
	BalanceLabel   = "Balance"
	DailyPnlLabel  = "Daily PnL"
	MaxLossLabel   = "Max Loss"
	DailyLossLabel = "Daily Loss"
)

type seriesSource struct {
	label string
	value func(trades.EquityPoint) decimal.NullDecimal
}

var sources = []seriesSource{
	{EquityLabel, func(p trades.EquityPoint) decimal.NullDecimal { return p.Equity }},
	{BalanceLabel, func(p trades.EquityPoint) decimal.NullDecimal { return p.Balance }},
	{DailyPnlLabel, func(p trades.EquityPoint) decimal.NullDecimal { return p.DailyPnl }},
	{MaxLossLabel, func(p trades.EquityPoint) decimal.NullDecimal { return p.MaxLossThreshold }},
	{DailyLossLabel, func(p trades.EquityPoint) decimal.NullDecimal { return p.DailyLossThreshold }},
}

// BuildSeries lays points out as x labels and one series per value kind.
// A kind that no point carries is left out entirely.
func BuildSeries(points []trades.EquityPoint) ([]time.Time, []Series) {
	labels := make([]time.Time, len(points))
	for i, p := range points {
		labels[i] = p.Timestamp
	}

	var series []Series
	for _, src := range sources {
		values := make([]decimal.NullDecimal, len(points))
		present := false
		for i, p := range points {
			values[i] = src.value(p)
			present = present || values[i].Valid
		}
		if present {
			series = append(series, Series{Label: src.label, Values: values})
		}
	}
	return labels, series
}
