package trades

import (
	"time"

	"github.com/shopspring/decimal"
)

// Direction of a position.
type Direction string

const (
	Buy  Direction = "Buy"
	Sell Direction = "Sell"
)

// Status of a position. Every TradeRecord has exactly one.
type Status string

const (
	Open   Status = "Open"
	Closed Status = "Closed"
)

// TradeRecord is the canonical trade after normalization. Open records carry
// no close price or close time; closed records carry both.
type TradeRecord struct {
	Ticket          string
	Symbol          string
	Direction       Direction
	Volume          decimal.Decimal
	OpenPrice       decimal.Decimal
	ClosePrice      decimal.NullDecimal
	OpenTime        time.Time
	CloseTime       *time.Time
	DurationSeconds *int64
	ProfitAbsolute  decimal.Decimal
	ProfitPercent   decimal.NullDecimal
	Status          Status
}

// IsOpen reports whether the position is still open.
func (t TradeRecord) IsOpen() bool { return t.Status == Open }

// SummarySnapshot is the account summary shown above the tables.
type SummarySnapshot struct {
	Balance              decimal.Decimal
	Equity               decimal.Decimal
	UnrealizedPnlPercent decimal.Decimal
	MarginFree           decimal.Decimal
	Margin               decimal.Decimal
}

// EquityPoint is one sample of the account curve. Every value series is
// optional: older payloads only carry DailyPnl.
type EquityPoint struct {
	Timestamp          time.Time
	Equity             decimal.NullDecimal
	Balance            decimal.NullDecimal
	DailyPnl           decimal.NullDecimal
	MaxLossThreshold   decimal.NullDecimal
	DailyLossThreshold decimal.NullDecimal
}

// Gaps counts fields that were missing or unusable and had to be degraded.
type Gaps int

// Split partitions records by status, preserving upstream order.
func Split(records []TradeRecord) (open, closed []TradeRecord) {
	for _, r := range records {
		if r.IsOpen() {
			open = append(open, r)
		} else {
			closed = append(closed, r)
		}
	}
	return open, closed
}
