package chart

import (
	"bytes"
	"sync"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/rustyeddy/tradeboard/config"
	"github.com/rustyeddy/tradeboard/pkg/id"
)

// LabelLayout is the x axis label format.
const LabelLayout = "2006-01-02 15:04"

// Echarts draws line charts with go-echarts and keeps each rendered page
// until its handle is destroyed.
type Echarts struct {
	cfg config.ChartConfig

	mu    sync.Mutex
	pages map[Handle][]byte
}

func NewEcharts(cfg config.ChartConfig) *Echarts {
	return &Echarts{cfg: cfg, pages: make(map[Handle][]byte)}
}

func (e *Echarts) RenderSeries(labels []time.Time, series []Series) (Handle, error) {
	h := Handle(id.New())

	xs := make([]string, len(labels))
	for i, t := range labels {
		xs[i] = t.UTC().Format(LabelLayout)
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: e.cfg.Title,
			Width:     e.cfg.Width,
			Height:    e.cfg.Height,
			ChartID:   string(h),
		}),
		charts.WithTitleOpts(opts.Title{Title: e.cfg.Title, Left: "center"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "bottom"}),
		charts.WithXAxisOpts(opts.XAxis{Type: "category"}),
		charts.WithYAxisOpts(opts.YAxis{
			Name:      "USD",
			SplitLine: &opts.SplitLine{Show: opts.Bool(true)},
		}),
	)

	line.SetXAxis(xs)
	for _, s := range series {
		data := make([]opts.LineData, len(s.Values))
		for i, v := range s.Values {
			if !v.Valid {
				// echarts draws "-" as a gap
				data[i] = opts.LineData{Value: "-"}
				continue
			}
			data[i] = opts.LineData{Value: v.Decimal.InexactFloat64()}
		}
		line.AddSeries(s.Label, data)
	}
	line.SetSeriesOptions(
		charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}),
	)

	var buf bytes.Buffer
	if err := line.Render(&buf); err != nil {
		return "", err
	}

	e.mu.Lock()
	e.pages[h] = buf.Bytes()
	e.mu.Unlock()
	return h, nil
}

func (e *Echarts) Destroy(h Handle) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.pages[h]; !ok {
		return ErrUnknownHandle
	}
	delete(e.pages, h)
	return nil
}

// HTML returns the rendered page for h.
func (e *Echarts) HTML(h Handle) ([]byte, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	page, ok := e.pages[h]
	return page, ok
}

// Live reports how many charts have not been destroyed.
func (e *Echarts) Live() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.pages)
}
