package dashboard

import (
	"errors"
	"sync"
	"time"

	"github.com/rustyeddy/tradeboard/chart"
	"github.com/rustyeddy/tradeboard/table"
	"github.com/rustyeddy/tradeboard/trades"
)

// ErrUnknownTable is returned for a table id other than trades or history.
var ErrUnknownTable = errors.New("dashboard: unknown table")

// State is everything one view shows. It lives as long as the process.
type State struct {
	mu sync.RWMutex

	summary []table.SummaryField
	open    *table.Table
	closed  *table.Table
	sorts   *table.SortState
	chart   *chart.Renderer

	data    Data
	errs    map[Kind]string
	cycle   uint64
	updated time.Time
}

// Data holds the canonical records behind the rendered view.
type Data struct {
	Summary trades.SummarySnapshot
	Open    []trades.TradeRecord
	Closed  []trades.TradeRecord
	Equity  []trades.EquityPoint
}

func NewState(renderer *chart.Renderer) *State {
	return &State{
		summary: table.Summary(trades.SummarySnapshot{}),
		open:    table.NewOpen(),
		closed:  table.NewClosed(),
		sorts:   table.NewSortState(),
		chart:   renderer,
		errs:    make(map[Kind]string),
	}
}

func (s *State) table(id string) (*table.Table, error) {
	switch id {
	case table.OpenTableID:
		return s.open, nil
	case table.ClosedTableID:
		return s.closed, nil
	}
	return nil, ErrUnknownTable
}

// View is a copy of the state safe to serialize.
type View struct {
	Cycle     uint64               `json:"cycle"`
	UpdatedAt time.Time            `json:"updated_at"`
	Summary   []table.SummaryField `json:"summary"`
	Open      *table.Table         `json:"trades"`
	Closed    *table.Table         `json:"history"`
	Chart     ChartView            `json:"chart"`
	Errors    map[Kind]string      `json:"errors,omitempty"`
}

type ChartView struct {
	Range  chart.Range    `json:"range"`
	Ranges []chart.Range  `json:"ranges"`
	Handle chart.Handle   `json:"handle,omitempty"`
	Labels []time.Time    `json:"labels"`
	Series []chart.Series `json:"series"`
}

func (s *State) view() View {
	v := View{
		Cycle:     s.cycle,
		UpdatedAt: s.updated,
		Summary:   append([]table.SummaryField(nil), s.summary...),
		Open:      s.open.Clone(),
		Closed:    s.closed.Clone(),
	}
	if len(s.errs) > 0 {
		v.Errors = make(map[Kind]string, len(s.errs))
		for k, e := range s.errs {
			v.Errors[k] = e
		}
	}

	labels, series := chart.BuildSeries(s.chart.Visible())
	h, _ := s.chart.Handle()
	v.Chart = ChartView{
		Range:  s.chart.Range(),
		Ranges: chart.Ranges,
		Handle: h,
		Labels: labels,
		Series: series,
	}
	return v
}
