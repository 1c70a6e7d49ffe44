// journal/journal.go
package journal

import (
	"fmt"
	"strings"

	"github.com/rustyeddy/tradeboard/config"
	"github.com/rustyeddy/tradeboard/pkg/id"
	"github.com/rustyeddy/tradeboard/trades"
)

// Journal writes canonical records out of the process.
type Journal interface {
	RecordTrade(trades.TradeRecord) error
	RecordEquity(trades.EquityPoint) error
	Close() error
}

// New opens the journal type named in cfg.
func New(cfg config.JournalConfig) (Journal, error) {
	switch cfg.Type {
	case "csv":
		return NewCSV(cfg.TradesFile, cfg.EquityFile)
	case "sqlite":
		return NewSQLite(cfg.DBPath)
	}
	return nil, fmt.Errorf("unknown journal type %q", cfg.Type)
}

// TradeID is the key a record is stored under: the upstream ticket when
// there is one, otherwise a ULID derived from the open time and the fields
// that identify the position, so exporting the same trade twice updates it.
func TradeID(t trades.TradeRecord) string {
	if t.Ticket != "" {
		return t.Ticket
	}
	key := strings.Join([]string{t.Symbol, string(t.Direction), t.OpenPrice.String(), t.Volume.String()}, "|")
	return id.Derive(t.OpenTime, key)
}
