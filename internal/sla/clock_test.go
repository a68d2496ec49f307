package sla

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var t0 = time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC)

func TestComputeCountingJustBeforeDeadline(t *testing.T) {
	deadline := t0.Add(2 * time.Hour)

	// One minute in: 1h 59m left, already urgent under the 2h threshold.
	reading := Compute(deadline, t0.Add(time.Minute))
	assert.Equal(t, StateCounting, reading.State)
	assert.Equal(t, 1, reading.HoursLeft)
	assert.Equal(t, 59, reading.MinutesLeft)
	assert.True(t, reading.Urgent)
}

func TestComputeBreachedAtAndPastDeadline(t *testing.T) {
	deadline := t0.Add(2 * time.Hour)

	atDeadline := Compute(deadline, deadline)
	assert.Equal(t, StateBreached, atDeadline.State)
	assert.True(t, atDeadline.Urgent)

	justPast := Compute(deadline, deadline.Add(time.Second))
	assert.Equal(t, StateBreached, justPast.State)
	assert.Zero(t, justPast.HoursLeft)
	assert.Zero(t, justPast.MinutesLeft)
}

func TestComputeNotUrgentFarOut(t *testing.T) {
	deadline := t0.Add(48 * time.Hour)
	reading := Compute(deadline, t0)
	assert.Equal(t, StateCounting, reading.State)
	assert.Equal(t, 48, reading.HoursLeft)
	assert.False(t, reading.Urgent)
}

func TestComputeIsPure(t *testing.T) {
	deadline := t0.Add(90 * time.Minute)
	now := t0.Add(10 * time.Minute)
	first := Compute(deadline, now)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, Compute(deadline, now))
	}
}

func TestComputeZeroDeadline(t *testing.T) {
	reading := Compute(time.Time{}, t0)
	assert.Equal(t, StateNoDeadline, reading.State)
	assert.False(t, reading.Urgent)
}

func TestParseDeadline(t *testing.T) {
	parsed, state := ParseDeadline("2026-03-01T11:00:00Z")
	assert.Equal(t, StateCounting, state)
	assert.Equal(t, t0.Add(2*time.Hour), parsed)

	_, state = ParseDeadline("")
	assert.Equal(t, StateNoDeadline, state)

	_, state = ParseDeadline("next tuesday")
	assert.Equal(t, StateInvalidDeadline, state)
}

func TestDeadlineDefaultsWindow(t *testing.T) {
	assert.Equal(t, t0.Add(DefaultWindow), Deadline(t0, 0))
	assert.Equal(t, t0.Add(4*time.Hour), Deadline(t0, 4*time.Hour))
}

func TestDisplay(t *testing.T) {
	assert.Equal(t, "No Deadline", Remaining{State: StateNoDeadline}.Display())
	assert.Equal(t, "Invalid Deadline", Remaining{State: StateInvalidDeadline}.Display())
	assert.Equal(t, "SLA Breached", Remaining{State: StateBreached}.Display())
	assert.Equal(t, "1h 59m remaining", Remaining{State: StateCounting, HoursLeft: 1, MinutesLeft: 59}.Display())
}
