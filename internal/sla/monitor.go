package sla

import (
	"context"
	"sync"
	"time"
)

// Monitor periodically recomputes the clock for one deadline and pushes
// readings to a callback. It stops on its own once the deadline is
// breached; Stop is safe to call at any point and more than once, so an
// owning view can tie it to teardown without leaking the ticker.
type Monitor struct {
	deadline time.Time
	interval time.Duration
	now      func() time.Time

	mu      sync.Mutex
	cancel  context.CancelFunc
	stopped bool
}

// MonitorOption customizes a Monitor.
type MonitorOption func(*Monitor)

// WithInterval overrides the 1s recomputation cadence.
func WithInterval(d time.Duration) MonitorOption {
	return func(m *Monitor) {
		if d > 0 {
			m.interval = d
		}
	}
}

// WithNowFunc injects a clock source, used by tests to drive time.
func WithNowFunc(now func() time.Time) MonitorOption {
	return func(m *Monitor) {
		if now != nil {
			m.now = now
		}
	}
}

// NewMonitor builds a monitor for the given deadline.
func NewMonitor(deadline time.Time, opts ...MonitorOption) *Monitor {
	m := &Monitor{
		deadline: deadline,
		interval: time.Second,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Start begins ticking and invokes onTick with each reading, beginning
// with an immediate one. The monitor terminates when the context is
// cancelled, Stop is called, or the clock reaches Breached.
func (m *Monitor) Start(ctx context.Context, onTick func(Remaining)) {
	m.mu.Lock()
	if m.stopped || m.cancel != nil {
		m.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.mu.Unlock()

	go m.run(ctx, onTick)
}

func (m *Monitor) run(ctx context.Context, onTick func(Remaining)) {
	emit := func() bool {
		reading := Compute(m.deadline, m.now())
		onTick(reading)
		return reading.State == StateCounting
	}
	if !emit() {
		m.Stop()
		return
	}

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !emit() {
				m.Stop()
				return
			}
		}
	}
}

// Stop cancels the periodic recomputation. Idempotent.
func (m *Monitor) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopped = true
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
}
