// Package scheduler runs the refresh cycle on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/rustyeddy/tradeboard/config"
	"github.com/rustyeddy/tradeboard/pkg/id"
)

// Job is one refresh cycle.
type Job func(ctx context.Context) error

// Stats counts what the scheduler has done so far.
type Stats struct {
	Runs    uint64 `json:"runs"`
	Failed  uint64 `json:"failed"`
	Skipped uint64 `json:"skipped"`
}

type Scheduler struct {
	clock    Clock
	schedule cron.Schedule
	job      Job
	overlap  string
	log      *zap.Logger

	inflight atomic.Int64
	runs     atomic.Uint64
	failed   atomic.Uint64
	skipped  atomic.Uint64
	wg       sync.WaitGroup
}

type Option func(*Scheduler)

func WithClock(c Clock) Option {
	return func(s *Scheduler) { s.clock = c }
}

func WithLogger(log *zap.Logger) Option {
	return func(s *Scheduler) { s.log = log }
}

// WithOverlap sets what happens when a tick arrives while a cycle is still
// running: config.OverlapSkip drops the tick, config.OverlapAllow starts
// another cycle alongside it.
func WithOverlap(policy string) Option {
	return func(s *Scheduler) { s.overlap = policy }
}

func New(schedule cron.Schedule, job Job, opts ...Option) *Scheduler {
	s := &Scheduler{
		clock:    RealClock(),
		schedule: schedule,
		job:      job,
		overlap:  config.OverlapSkip,
		log:      zap.NewNop(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// FromConfig builds a scheduler from the refresh section.
func FromConfig(cfg config.RefreshConfig, job Job, opts ...Option) (*Scheduler, error) {
	schedule, err := cfg.CronSchedule()
	if err != nil {
		return nil, fmt.Errorf("refresh schedule: %w", err)
	}
	opts = append([]Option{WithOverlap(cfg.Overlap)}, opts...)
	return New(schedule, job, opts...), nil
}

// Run starts a cycle immediately and then one per schedule tick until ctx is
// done. It returns once every cycle it started has finished.
func (s *Scheduler) Run(ctx context.Context) error {
	s.log.Info("scheduler started", zap.String("overlap", s.overlap))
	defer s.log.Info("scheduler stopped")

	s.fire(ctx)
	for {
		now := s.clock.Now()
		next := s.schedule.Next(now)
		select {
		case <-ctx.Done():
			s.wg.Wait()
			return nil
		case <-s.clock.After(next.Sub(now)):
			s.fire(ctx)
		}
	}
}

func (s *Scheduler) fire(ctx context.Context) {
	if s.overlap == config.OverlapAllow {
		s.inflight.Add(1)
	} else if !s.inflight.CompareAndSwap(0, 1) {
		s.skipped.Add(1)
		s.log.Warn("previous cycle still running, skipping tick")
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer s.inflight.Add(-1)
		s.runCycle(ctx)
	}()
}

func (s *Scheduler) runCycle(ctx context.Context) {
	cycleID := id.New()
	log := s.log.With(zap.String("cycle", cycleID))
	start := s.clock.Now()
	s.runs.Add(1)

	defer func() {
		if r := recover(); r != nil {
			s.failed.Add(1)
			log.Error("cycle panicked", zap.Any("panic", r))
		}
	}()

	if err := s.job(ctx); err != nil {
		s.failed.Add(1)
		log.Warn("cycle failed", zap.Error(err), zap.Duration("took", s.clock.Now().Sub(start)))
		return
	}
	log.Debug("cycle done", zap.Duration("took", s.clock.Now().Sub(start)))
}

func (s *Scheduler) Stats() Stats {
	return Stats{
		Runs:    s.runs.Load(),
		Failed:  s.failed.Load(),
		Skipped: s.skipped.Load(),
	}
}

// Next reports when the tick after t is due.
func (s *Scheduler) Next(t time.Time) time.Time {
	return s.schedule.Next(t)
}
