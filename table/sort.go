package table

import (
	"errors"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

// ErrUnknownColumn is returned when sorting by a field the table lacks.
var ErrUnknownColumn = errors.New("table: unknown column")

// Order of a sort pass.
type Order string

const (
	Ascending  Order = "asc"
	Descending Order = "desc"
)

type sortKey struct {
	table string
	field string
}

// SortState remembers, per table and column, which order the next sort of
// that column uses. Columns toggle independently of each other.
type SortState struct {
	mu   sync.Mutex
	desc map[sortKey]bool
}

func NewSortState() *SortState {
	return &SortState{desc: make(map[sortKey]bool)}
}

// Next reports the order the next Sort of (tableID, field) will use.
func (s *SortState) Next(tableID, field string) Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.desc[sortKey{tableID, field}] {
		return Descending
	}
	return Ascending
}

// Sort reorders the rows of t in place by field, compared as typ. The first
// call for a column sorts ascending and each later call flips the order.
// Values that cannot be parsed as typ end up last in either order.
func (s *SortState) Sort(t *Table, field string, typ ColumnType) (Order, error) {
	_, idx := t.Column(field)
	if idx < 0 {
		return "", ErrUnknownColumn
	}

	k := sortKey{t.ID, field}
	s.mu.Lock()
	order := Ascending
	if s.desc[k] {
		order = Descending
	}
	s.desc[k] = !s.desc[k]
	s.mu.Unlock()

	type keyed struct {
		row Row
		key value
	}
	rows := make([]keyed, len(t.Rows))
	for i, r := range t.Rows {
		text := ""
		if idx < len(r) {
			text = r[idx].Text
		}
		rows[i] = keyed{row: r, key: parseValue(text, typ)}
	}

	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i].key, rows[j].key
		if a.ok != b.ok {
			return a.ok
		}
		if !a.ok {
			return false
		}
		c := a.compare(b)
		if order == Descending {
			return c > 0
		}
		return c < 0
	})

	for i := range rows {
		t.Rows[i] = rows[i].row
	}
	return order, nil
}

// SortColumn sorts by field using the column's own type.
func (s *SortState) SortColumn(t *Table, field string) (Order, error) {
	c, idx := t.Column(field)
	if idx < 0 {
		return "", ErrUnknownColumn
	}
	return s.Sort(t, field, c.Type)
}

type value struct {
	ok   bool
	num  float64
	at   time.Time
	text string
	typ  ColumnType
}

func (v value) compare(o value) int {
	switch v.typ {
	case Numeric:
		switch {
		case v.num < o.num:
			return -1
		case v.num > o.num:
			return 1
		}
		return 0
	case Date:
		return v.at.Compare(o.at)
	default:
		return strings.Compare(v.text, o.text)
	}
}

func parseValue(text string, typ ColumnType) value {
	v := value{typ: typ, text: text}
	switch typ {
	case Numeric:
		v.num, v.ok = parseNumber(text)
	case Date:
		at, err := time.Parse(TimeLayout, strings.TrimSpace(text))
		v.at, v.ok = at, err == nil
	default:
		v.ok = true
	}
	return v
}

// parseNumber strips currency, percent and grouping decoration. Duration
// text such as "1h02m03s" compares by its length in seconds.
func parseNumber(text string) (float64, bool) {
	s := strings.NewReplacer("$", "", "%", "", ",", "", " ", "").Replace(text)
	if s == "" || s == Blank {
		return 0, false
	}
	if n, err := strconv.ParseFloat(s, 64); err == nil {
		return n, true
	}
	if d, err := time.ParseDuration(s); err == nil {
		return d.Seconds(), true
	}
	return 0, false
}
