package syncer

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/cheatsync/internal/logging"
)

// Pinger is what the Monitor polls.
type Pinger interface {
	Ping(ctx context.Context) error
}

const pingTimeout = 3 * time.Second

// Monitor tracks whether the remote store is reachable and fires handlers on
// transitions only.
type Monitor struct {
	pinger   Pinger
	interval time.Duration
	log      logging.Logger

	mu       sync.Mutex
	online   bool
	handlers []func(ctx context.Context, online bool)
}

func NewMonitor(p Pinger, interval time.Duration, log logging.Logger) *Monitor {
	return &Monitor{pinger: p, interval: interval, log: log}
}

func (m *Monitor) Online() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.online
}

// OnChange registers fn for became-online (true) and became-offline (false)
// edges. Handlers run synchronously on the goroutine that observed the edge.
func (m *Monitor) OnChange(fn func(ctx context.Context, online bool)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers = append(m.handlers, fn)
}

// Set records the current state. Handlers fire only when it differs from the
// previous one.
func (m *Monitor) Set(ctx context.Context, online bool) {
	m.mu.Lock()
	if m.online == online {
		m.mu.Unlock()
		return
	}
	m.online = online
	handlers := append([]func(context.Context, bool){}, m.handlers...)
	m.mu.Unlock()

	if online {
		m.log.Info(ctx, "remote store reachable")
	} else {
		m.log.Info(ctx, "remote store unreachable, working offline")
	}

	for _, h := range handlers {
		h(ctx, online)
	}
}

// Check pings once and records the result.
func (m *Monitor) Check(ctx context.Context) bool {
	pctx, cancel := context.WithTimeout(ctx, pingTimeout)
	err := m.pinger.Ping(pctx)
	cancel()

	if err != nil {
		m.log.Debug(ctx, "ping failed", "error", err)
	}
	m.Set(ctx, err == nil)
	return err == nil
}

// Run pings every interval until ctx is done.
func (m *Monitor) Run(ctx context.Context) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.Check(ctx)
		case <-ctx.Done():
			return
		}
	}
}
