// Package app wires the dashboard into an fx application for `tradeboard serve`.
package app

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"github.com/rustyeddy/tradeboard/api"
	"github.com/rustyeddy/tradeboard/chart"
	"github.com/rustyeddy/tradeboard/config"
	"github.com/rustyeddy/tradeboard/dashboard"
	"github.com/rustyeddy/tradeboard/logging"
	"github.com/rustyeddy/tradeboard/scheduler"
	"github.com/rustyeddy/tradeboard/server"
)

// Options returns every module of the serve application for cfg.
func Options(cfg *config.Config) fx.Option {
	return fx.Options(
		fx.Supply(cfg),
		fx.Provide(NewLogger),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: logging.Component(log, "fx")}
		}),
		ChartModule(),
		DashboardModule(),
		SchedulerModule(),
		ServerModule(),
	)
}

// New builds the serve application.
func New(cfg *config.Config) *fx.App {
	return fx.New(Options(cfg))
}

func NewLogger(cfg *config.Config) (*zap.Logger, error) {
	return logging.New(cfg.Log)
}

func ChartModule() fx.Option {
	return fx.Module("chart",
		fx.Provide(
			func(cfg *config.Config) *chart.Echarts {
				return chart.NewEcharts(cfg.Chart)
			},
			NewRenderer,
		),
	)
}

// NewRenderer starts the chart on the configured default range. The
// current chart is released when the application stops.
func NewRenderer(lc fx.Lifecycle, cfg *config.Config, charter *chart.Echarts, log *zap.Logger) (*chart.Renderer, error) {
	initial, err := chart.ParseRange(cfg.Chart.DefaultRange)
	if err != nil {
		return nil, err
	}
	r := chart.NewRenderer(charter, initial, chart.WithLogger(logging.Component(log, "chart")))
	lc.Append(fx.StopHook(r.Close))
	return r, nil
}

func DashboardModule() fx.Option {
	return fx.Module("dashboard",
		fx.Provide(
			func(cfg *config.Config) *api.Client {
				return api.NewClient(cfg.API.BaseURL, cfg.API.Timeout)
			},
			func(cfg *config.Config, client *api.Client, r *chart.Renderer, log *zap.Logger) *dashboard.Dashboard {
				return dashboard.New(client, cfg.API.Endpoints, r, logging.Component(log, "dashboard"))
			},
		),
	)
}

func SchedulerModule() fx.Option {
	return fx.Module("scheduler",
		fx.Provide(NewScheduler),
		fx.Invoke(RunScheduler),
	)
}

func NewScheduler(cfg *config.Config, d *dashboard.Dashboard, log *zap.Logger) (*scheduler.Scheduler, error) {
	return scheduler.FromConfig(cfg.Refresh, d.Refresh, scheduler.WithLogger(logging.Component(log, "scheduler")))
}

// RunScheduler runs the refresh loop for the lifetime of the application.
// Stopping cancels the loop and waits for in-flight cycles.
func RunScheduler(lc fx.Lifecycle, s *scheduler.Scheduler) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				defer close(done)
				_ = s.Run(ctx)
			}()
			return nil
		},
		OnStop: func(stop context.Context) error {
			cancel()
			select {
			case <-done:
				return nil
			case <-stop.Done():
				return stop.Err()
			}
		},
	})
}

func ServerModule() fx.Option {
	return fx.Module("server",
		fx.Provide(func(cfg *config.Config, d *dashboard.Dashboard, pages *chart.Echarts, log *zap.Logger) *server.Server {
			return server.New(cfg.Server, d, pages, logging.Component(log, "server"))
		}),
		fx.Invoke(func(lc fx.Lifecycle, s *server.Server) {
			lc.Append(fx.Hook{
				OnStart: func(context.Context) error { return s.Start() },
				OnStop:  s.Shutdown,
			})
		}),
	)
}
