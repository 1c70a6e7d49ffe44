// Package dashboard runs refresh cycles against the account API and keeps
// the rendered view.
package dashboard

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sourcegraph/conc"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/rustyeddy/tradeboard/chart"
	"github.com/rustyeddy/tradeboard/config"
	"github.com/rustyeddy/tradeboard/table"
	"github.com/rustyeddy/tradeboard/trades"
)

// Kind names one upstream data source.
type Kind string

const (
	KindSummary Kind = "summary"
	KindTrades  Kind = "trades"
	KindHistory Kind = "history"
	KindChart   Kind = "chart"
)

// Fetcher is the part of api.Client a cycle needs.
type Fetcher interface {
	FetchObject(ctx context.Context, endpoint string) (map[string]any, error)
	FetchArray(ctx context.Context, endpoint string) ([]any, error)
}

type Dashboard struct {
	fetcher   Fetcher
	endpoints config.EndpointsConfig
	state     *State
	log       *zap.Logger
	now       func() time.Time

	started atomic.Uint64
	done    atomic.Bool

	subMu sync.Mutex
	subs  map[chan uint64]struct{}
}

func New(f Fetcher, endpoints config.EndpointsConfig, renderer *chart.Renderer, log *zap.Logger) *Dashboard {
	if log == nil {
		log = zap.NewNop()
	}
	return &Dashboard{
		fetcher:   f,
		endpoints: endpoints,
		state:     NewState(renderer),
		log:       log,
		now:       time.Now,
		subs:      make(map[chan uint64]struct{}),
	}
}

// Refresh runs one cycle. Every configured kind is fetched, normalized and
// rendered on its own goroutine, so one failing endpoint does not hold back
// the others. Results of a cycle that has been overtaken by a newer one are
// dropped. The returned error combines the failures of every kind.
func (d *Dashboard) Refresh(ctx context.Context) error {
	seq := d.started.Add(1)

	var (
		mu   sync.Mutex
		errs error
		wg   conc.WaitGroup
	)
	run := func(kind Kind, endpoint string, fn func(context.Context, uint64, string) error) {
		if endpoint == "" {
			return
		}
		wg.Go(func() {
			err := fn(ctx, seq, endpoint)
			d.state.mu.Lock()
			if seq >= d.started.Load() {
				if err != nil {
					d.state.errs[kind] = err.Error()
				} else {
					delete(d.state.errs, kind)
				}
			}
			d.state.mu.Unlock()
			if err != nil {
				d.log.Warn("refresh failed", zap.String("kind", string(kind)), zap.Uint64("cycle", seq), zap.Error(err))
				mu.Lock()
				errs = multierr.Append(errs, fmt.Errorf("%s: %w", kind, err))
				mu.Unlock()
			}
		})
	}

	run(KindSummary, d.endpoints.Summary, d.refreshSummary)
	run(KindTrades, d.endpoints.Trades, d.refreshTrades)
	run(KindHistory, d.endpoints.History, d.refreshHistory)
	run(KindChart, d.endpoints.Chart, d.refreshChart)

	if r := wg.WaitAndRecover(); r != nil {
		d.log.Error("refresh panicked", zap.Uint64("cycle", seq), zap.String("panic", r.String()))
		errs = multierr.Append(errs, r.AsError())
	}

	d.state.mu.Lock()
	if seq >= d.state.cycle {
		d.state.cycle = seq
		d.state.updated = d.now()
	}
	d.state.mu.Unlock()
	d.done.Store(true)
	d.notify(seq)
	return errs
}

// apply runs fn under the state lock unless a newer cycle has started.
func (d *Dashboard) apply(seq uint64, kind Kind, fn func(*State) error) error {
	d.state.mu.Lock()
	defer d.state.mu.Unlock()
	if latest := d.started.Load(); seq < latest {
		d.log.Debug("discarding stale result",
			zap.String("kind", string(kind)),
			zap.Uint64("cycle", seq),
			zap.Uint64("latest", latest))
		return nil
	}
	return fn(d.state)
}

func (d *Dashboard) gaps(kind Kind, seq uint64, g trades.Gaps) {
	if g > 0 {
		d.log.Debug("normalization gaps", zap.String("kind", string(kind)), zap.Uint64("cycle", seq), zap.Int("gaps", int(g)))
	}
}

func (d *Dashboard) refreshSummary(ctx context.Context, seq uint64, endpoint string) error {
	raw, err := d.fetcher.FetchObject(ctx, endpoint)
	if err != nil {
		return err
	}
	snap, g := trades.NormalizeSummary(raw)
	d.gaps(KindSummary, seq, g)
	return d.apply(seq, KindSummary, func(s *State) error {
		s.data.Summary = snap
		s.summary = table.Summary(snap)
		return nil
	})
}

func (d *Dashboard) refreshTrades(ctx context.Context, seq uint64, endpoint string) error {
	raw, err := d.fetcher.FetchArray(ctx, endpoint)
	if err != nil {
		return err
	}
	records, g := trades.NormalizeAll(raw)
	d.gaps(KindTrades, seq, g)
	open, closed := trades.Split(records)
	return d.apply(seq, KindTrades, func(s *State) error {
		s.data.Open = open
		table.Render(s.open, open)
		if d.endpoints.History == "" {
			s.data.Closed = closed
			table.Render(s.closed, closed)
		}
		return nil
	})
}

func (d *Dashboard) refreshHistory(ctx context.Context, seq uint64, endpoint string) error {
	raw, err := d.fetcher.FetchArray(ctx, endpoint)
	if err != nil {
		return err
	}
	records, g := trades.NormalizeAll(raw)
	d.gaps(KindHistory, seq, g)
	return d.apply(seq, KindHistory, func(s *State) error {
		s.data.Closed = records
		table.Render(s.closed, records)
		return nil
	})
}

func (d *Dashboard) refreshChart(ctx context.Context, seq uint64, endpoint string) error {
	raw, err := d.fetcher.FetchArray(ctx, endpoint)
	if err != nil {
		return err
	}
	points, g := trades.NormalizeEquity(raw)
	d.gaps(KindChart, seq, g)
	return d.apply(seq, KindChart, func(s *State) error {
		s.data.Equity = points
		return s.chart.Update(points)
	})
}

// Sort toggles the order of one column of one table.
func (d *Dashboard) Sort(tableID, field string) (table.Order, error) {
	d.state.mu.Lock()
	t, err := d.state.table(tableID)
	if err != nil {
		d.state.mu.Unlock()
		return "", err
	}
	order, err := d.state.sorts.SortColumn(t, field)
	d.state.mu.Unlock()
	if err != nil {
		return "", err
	}
	d.notify(d.started.Load())
	return order, nil
}

// SetRange re-windows the chart from the cached points.
func (d *Dashboard) SetRange(r chart.Range) error {
	d.state.mu.Lock()
	err := d.state.chart.Filter(r)
	d.state.mu.Unlock()
	if err != nil {
		return err
	}
	d.notify(d.started.Load())
	return nil
}

// Snapshot returns a copy of the current view.
func (d *Dashboard) Snapshot() View {
	d.state.mu.RLock()
	defer d.state.mu.RUnlock()
	return d.state.view()
}

// Data returns the canonical records behind the current view.
func (d *Dashboard) Data() Data {
	d.state.mu.RLock()
	defer d.state.mu.RUnlock()
	data := d.state.data
	data.Open = append([]trades.TradeRecord(nil), data.Open...)
	data.Closed = append([]trades.TradeRecord(nil), data.Closed...)
	data.Equity = append([]trades.EquityPoint(nil), data.Equity...)
	return data
}

// Ready reports whether at least one cycle has completed.
func (d *Dashboard) Ready() bool { return d.done.Load() }

// Subscribe returns a channel that receives the cycle number whenever the
// view changes. Slow subscribers miss intermediate notifications, never the
// latest. Call cancel to unsubscribe.
func (d *Dashboard) Subscribe() (<-chan uint64, func()) {
	ch := make(chan uint64, 1)
	d.subMu.Lock()
	d.subs[ch] = struct{}{}
	d.subMu.Unlock()
	return ch, func() {
		d.subMu.Lock()
		if _, ok := d.subs[ch]; ok {
			delete(d.subs, ch)
			close(ch)
		}
		d.subMu.Unlock()
	}
}

func (d *Dashboard) notify(seq uint64) {
	d.subMu.Lock()
	defer d.subMu.Unlock()
	for ch := range d.subs {
		select {
		case ch <- seq:
		default:
			// drop the pending value so the newest one gets through
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- seq:
			default:
			}
		}
	}
}
