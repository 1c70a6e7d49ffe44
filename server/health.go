package server

import (
	"sync/atomic"
	"time"
)

// Health tracks process liveness details reported on /healthz.
type Health struct {
	startedAt time.Time
	wsClients atomic.Int64
	pushes    atomic.Uint64
}

func NewHealth() *Health {
	return &Health{startedAt: time.Now()}
}

func (h *Health) Uptime() time.Duration { return time.Since(h.startedAt) }
func (h *Health) WSClients() int64      { return h.wsClients.Load() }
func (h *Health) Pushes() uint64        { return h.pushes.Load() }
