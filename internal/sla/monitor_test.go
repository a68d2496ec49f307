package sla

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// virtualClock advances a fixed step on every read, so the monitor
// marches toward the deadline without real waiting.
type virtualClock struct {
	mu   sync.Mutex
	now  time.Time
	step time.Duration
}

func (c *virtualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	current := c.now
	c.now = c.now.Add(c.step)
	return current
}

func TestMonitorEmitsImmediatelyAndStopsOnBreach(t *testing.T) {
	deadline := t0.Add(3 * time.Minute)
	clock := &virtualClock{now: t0, step: time.Minute}

	readings := make(chan Remaining, 16)
	monitor := NewMonitor(deadline,
		WithInterval(time.Millisecond),
		WithNowFunc(clock.Now),
	)
	monitor.Start(context.Background(), func(r Remaining) { readings <- r })

	var collected []Remaining
	timeout := time.After(2 * time.Second)
	for {
		select {
		case r := <-readings:
			collected = append(collected, r)
			if r.State == StateBreached {
				goto done
			}
		case <-timeout:
			t.Fatal("monitor never reached Breached")
		}
	}
done:
	require.NotEmpty(t, collected)
	assert.Equal(t, StateCounting, collected[0].State, "first reading arrives without waiting for a tick")
	last := collected[len(collected)-1]
	assert.Equal(t, StateBreached, last.State)

	// After breach the monitor is self-stopped; no further readings.
	time.Sleep(20 * time.Millisecond)
	select {
	case r := <-readings:
		t.Fatalf("unexpected reading after breach: %+v", r)
	default:
	}
}

func TestMonitorStopIsIdempotent(t *testing.T) {
	monitor := NewMonitor(t0.Add(time.Hour),
		WithInterval(time.Millisecond),
		WithNowFunc(func() time.Time { return t0 }),
	)
	monitor.Start(context.Background(), func(Remaining) {})
	monitor.Stop()
	monitor.Stop()
}

func TestMonitorStartAfterStopIsNoOp(t *testing.T) {
	monitor := NewMonitor(t0.Add(time.Hour),
		WithInterval(time.Millisecond),
		WithNowFunc(func() time.Time { return t0 }),
	)
	monitor.Stop()

	ticked := make(chan struct{}, 1)
	monitor.Start(context.Background(), func(Remaining) {
		select {
		case ticked <- struct{}{}:
		default:
		}
	})
	select {
	case <-ticked:
		t.Fatal("stopped monitor must not start")
	case <-time.After(20 * time.Millisecond):
	}
}

func TestMonitorHonorsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var mu sync.Mutex
	count := 0
	monitor := NewMonitor(t0.Add(24*time.Hour),
		WithInterval(time.Millisecond),
		WithNowFunc(func() time.Time { return t0 }),
	)
	monitor.Start(ctx, func(Remaining) {
		mu.Lock()
		count++
		mu.Unlock()
	})

	time.Sleep(20 * time.Millisecond)
	cancel()
	time.Sleep(20 * time.Millisecond)

	mu.Lock()
	after := count
	mu.Unlock()
	time.Sleep(20 * time.Millisecond)
	mu.Lock()
	assert.Equal(t, after, count, "no readings after cancellation")
	mu.Unlock()
}
