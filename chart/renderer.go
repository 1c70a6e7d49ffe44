package chart

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/rustyeddy/tradeboard/trades"
)

// Renderer keeps the full point set from the last fetch and the active
// range. At most one chart handle is live at a time.
type Renderer struct {
	mu      sync.Mutex
	charter Charter
	now     func() time.Time
	log     *zap.Logger

	cache   []trades.EquityPoint
	visible []trades.EquityPoint
	active  Range
	handle  Handle
	live    bool
}

type Option func(*Renderer)

// WithClock replaces time.Now as the reference for range cutoffs.
func WithClock(now func() time.Time) Option {
	return func(r *Renderer) { r.now = now }
}

func WithLogger(log *zap.Logger) Option {
	return func(r *Renderer) { r.log = log }
}

func NewRenderer(c Charter, initial Range, opts ...Option) *Renderer {
	if initial == "" {
		initial = RangeAll
	}
	r := &Renderer{charter: c, now: time.Now, log: zap.NewNop(), active: initial}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Update replaces the cache with points and redraws using the active range.
func (r *Renderer) Update(points []trades.EquityPoint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cache = append([]trades.EquityPoint(nil), points...)
	return r.redraw()
}

// Filter switches the active range and redraws from the cache.
func (r *Renderer) Filter(rg Range) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.active = rg
	return r.redraw()
}

func (r *Renderer) redraw() error {
	if r.live {
		if err := r.charter.Destroy(r.handle); err != nil {
			r.log.Warn("destroy chart", zap.String("handle", string(r.handle)), zap.Error(err))
		}
		r.live = false
		r.handle = ""
	}

	r.visible = Filter(r.cache, r.active, r.now())
	labels, series := BuildSeries(r.visible)
	h, err := r.charter.RenderSeries(labels, series)
	if err != nil {
		return err
	}
	r.handle, r.live = h, true
	r.log.Debug("chart rendered",
		zap.String("range", string(r.active)),
		zap.Int("points", len(r.visible)),
		zap.Int("cached", len(r.cache)),
		zap.Int("series", len(series)))
	return nil
}

// Close destroys the live chart, if any.
func (r *Renderer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.live {
		return nil
	}
	r.live = false
	return r.charter.Destroy(r.handle)
}

func (r *Renderer) Range() Range {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active
}

// Handle returns the live chart handle.
func (r *Renderer) Handle() (Handle, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.handle, r.live
}

// Visible returns a copy of the points in the current window.
func (r *Renderer) Visible() []trades.EquityPoint {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]trades.EquityPoint(nil), r.visible...)
}

// Cached returns a copy of every point from the last Update.
func (r *Renderer) Cached() []trades.EquityPoint {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]trades.EquityPoint(nil), r.cache...)
}
