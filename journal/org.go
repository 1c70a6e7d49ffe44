package journal

import (
	"fmt"
	"strings"

	"github.com/rustyeddy/tradeboard/trades"
)

// FormatTradeOrg renders a trade as an Org-mode block suitable for pasting into a journal.
// Structured facts go in a PROPERTIES drawer; Thesis/Execution/Review are left as
// placeholders for notes.
func FormatTradeOrg(t trades.TradeRecord) string {
	id := TradeID(t)
	var b strings.Builder
	fmt.Fprintf(&b, "** Trade: %s %s (%s)\n", t.Symbol, t.Direction, shortID(id))
	b.WriteString(":PROPERTIES:\n")
	fmt.Fprintf(&b, ":TRADE_ID: %s\n", id)
	fmt.Fprintf(&b, ":SYMBOL: %s\n", t.Symbol)
	fmt.Fprintf(&b, ":DIRECTION: %s\n", t.Direction)
	fmt.Fprintf(&b, ":STATUS: %s\n", t.Status)
	fmt.Fprintf(&b, ":VOLUME: %s\n", t.Volume)
	fmt.Fprintf(&b, ":OPEN_PRICE: %s\n", t.OpenPrice)
	if t.ClosePrice.Valid {
		fmt.Fprintf(&b, ":CLOSE_PRICE: %s\n", t.ClosePrice.Decimal)
	}
	fmt.Fprintf(&b, ":OPEN_TIME: %s\n", stamp(&t.OpenTime))
	if t.CloseTime != nil {
		fmt.Fprintf(&b, ":CLOSE_TIME: %s\n", stamp(t.CloseTime))
	}
	fmt.Fprintf(&b, ":PROFIT_USD: %s\n", t.ProfitAbsolute.StringFixed(2))
	if t.ProfitPercent.Valid {
		fmt.Fprintf(&b, ":PROFIT_PCT: %s\n", t.ProfitPercent.Decimal.StringFixed(2))
	}
	b.WriteString(":END:\n")
	b.WriteString("\n")
	b.WriteString("*** Thesis\n- \n\n")
	b.WriteString("*** Execution\n- \n\n")
	b.WriteString("*** Review\n- \n")

	return b.String()
}

// FormatTradesOrg renders multiple trades separated by blank lines.
func FormatTradesOrg(list []trades.TradeRecord) string {
	var b strings.Builder
	for i, t := range list {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(FormatTradeOrg(t))
	}
	return b.String()
}

func shortID(full string) string {
	if len(full) <= 8 {
		return full
	}
	return full[:8]
}
