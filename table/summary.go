package table

import (
	"github.com/rustyeddy/tradeboard/trades"
)

// Summary element ids.
const (
	BalanceID       = "balance"
	EquityID        = "equity"
	UnrealizedPnlID = "unrealized_pnl"
	MarginFreeID    = "margin_free"
	MarginID        = "margin"
)

// SummaryField is one labelled value of the account summary.
type SummaryField struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Cell
}

// Summary renders the account snapshot in display order.
func Summary(s trades.SummarySnapshot) []SummaryField {
	return []SummaryField{
		{BalanceID, "Balance", Cell{Text: Currency(s.Balance)}},
		{EquityID, "Equity", Cell{Text: Currency(s.Equity)}},
		{UnrealizedPnlID, "Unrealized PnL", Cell{
			Text: Percent(s.UnrealizedPnlPercent),
			Tone: ToneOf(s.UnrealizedPnlPercent),
		}},
		{MarginFreeID, "Free Margin", Cell{Text: Currency(s.MarginFree)}},
		{MarginID, "Margin", Cell{Text: Currency(s.Margin)}},
	}
}
