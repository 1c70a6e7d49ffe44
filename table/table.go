// Package table turns canonical trade records into display rows and keeps
// the per-column sort toggles.
package table

import (
	"github.com/rustyeddy/tradeboard/trades"
)

// ColumnType selects the comparison used when a column is sorted.
type ColumnType string

const (
	Numeric       ColumnType = "numeric"
	Date          ColumnType = "date"
	Lexicographic ColumnType = "lexicographic"
)

// Table ids as used by the page and the HTTP routes.
const (
	OpenTableID   = "trades"
	ClosedTableID = "history"
)

type Column struct {
	Field string     `json:"field"`
	Title string     `json:"title"`
	Type  ColumnType `json:"type"`
}

// OpenColumns is the layout of the open positions table.
var OpenColumns = []Column{
	{"symbol", "Symbol", Lexicographic},
	{"type", "Type", Lexicographic},
	{"volume", "Volume", Numeric},
	{"open_price", "Open Price", Numeric},
	{"close_price", "Current Price", Numeric},
	{"open_time", "Open Time", Date},
	{"duration", "Duration", Numeric},
	{"profit_usd", "Profit ($)", Numeric},
	{"profit_pct", "Profit (%)", Numeric},
}

// ClosedColumns is the layout of the trade history table.
var ClosedColumns = []Column{
	{"symbol", "Symbol", Lexicographic},
	{"entry_type", "Type", Lexicographic},
	{"volume", "Volume", Numeric},
	{"open_price", "Open Price", Numeric},
	{"close_price", "Close Price", Numeric},
	{"open_time", "Open Time", Date},
	{"close_time", "Close Time", Date},
	{"duration", "Duration", Numeric},
	{"profit_usd", "Profit ($)", Numeric},
	{"profit_pct", "Profit (%)", Numeric},
}

// Tone is the colour class of a cell.
type Tone string

const (
	None     Tone = ""
	Positive Tone = "positive"
	Negative Tone = "negative"
)

type Cell struct {
	Text string `json:"text"`
	Tone Tone   `json:"tone,omitempty"`
}

// Row holds one cell per column, in column order.
type Row []Cell

type Table struct {
	ID      string   `json:"id"`
	Columns []Column `json:"columns"`
	Rows    []Row    `json:"rows"`
}

func New(id string, columns []Column) *Table {
	return &Table{ID: id, Columns: columns, Rows: []Row{}}
}

func NewOpen() *Table   { return New(OpenTableID, OpenColumns) }
func NewClosed() *Table { return New(ClosedTableID, ClosedColumns) }

// Column returns the column for field and its index, or -1.
func (t *Table) Column(field string) (Column, int) {
	for i, c := range t.Columns {
		if c.Field == field {
			return c, i
		}
	}
	return Column{}, -1
}

// Clone returns a deep copy safe to hand to another goroutine.
func (t *Table) Clone() *Table {
	out := &Table{ID: t.ID, Columns: t.Columns, Rows: make([]Row, len(t.Rows))}
	for i, r := range t.Rows {
		out.Rows[i] = append(Row(nil), r...)
	}
	return out
}

// Render clears every existing row and writes one row per record in the
// order given. Rendering the same records twice leaves the same table.
func Render(t *Table, records []trades.TradeRecord) {
	t.Rows = make([]Row, 0, len(records))
	for _, rec := range records {
		row := make(Row, len(t.Columns))
		for i, c := range t.Columns {
			row[i] = cellFor(c.Field, rec)
		}
		t.Rows = append(t.Rows, row)
	}
}

func cellFor(field string, rec trades.TradeRecord) Cell {
	switch field {
	case "symbol":
		return Cell{Text: orBlank(rec.Symbol)}
	case "type", "entry_type":
		return Cell{Text: string(rec.Direction)}
	case "volume":
		return Cell{Text: Plain(rec.Volume)}
	case "open_price":
		return Cell{Text: Plain(rec.OpenPrice)}
	case "close_price":
		return Cell{Text: PlainNull(rec.ClosePrice)}
	case "open_time":
		return Cell{Text: Time(&rec.OpenTime)}
	case "close_time":
		return Cell{Text: Time(rec.CloseTime)}
	case "duration":
		return Cell{Text: Duration(rec.DurationSeconds)}
	case "profit_usd":
		return Cell{Text: Currency(rec.ProfitAbsolute), Tone: ToneOf(rec.ProfitAbsolute)}
	case "profit_pct":
		if !rec.ProfitPercent.Valid {
			return Cell{Text: Blank}
		}
		return Cell{Text: Percent(rec.ProfitPercent.Decimal), Tone: ToneOf(rec.ProfitPercent.Decimal)}
	}
	return Cell{Text: Blank}
}

func orBlank(s string) string {
	if s == "" {
		return Blank
	}
	return s
}
