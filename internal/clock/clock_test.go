package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func newClock(t *testing.T) *Clock {
	t.Helper()
	c, err := New(1)
	require.NoError(t, err)
	return c
}

func TestNew_Defaults(t *testing.T) {
	c := newClock(t)
	assert.True(t, c.Running())
	assert.Equal(t, 0.0, c.SimulatedTime())
	assert.Equal(t, 1.0, c.Speed())

	_, err := New(3)
	assert.ErrorIs(t, err, ErrInvalidSpeed)
}

func TestAdvance_FirstFrameOnlyRecords(t *testing.T) {
	c := newClock(t)
	assert.Equal(t, 0.0, c.Advance(t0))
	assert.Equal(t, 0.0, c.SimulatedTime())
}

func TestAdvance_ProportionalToDeltaAndSpeed(t *testing.T) {
	c := newClock(t)
	c.Advance(t0)

	d1 := c.Advance(t0.Add(16 * time.Millisecond))
	d2 := c.Advance(t0.Add(48 * time.Millisecond))
	assert.Greater(t, d1, 0.0)
	assert.InDelta(t, 2*d1, d2, 1e-15)
	assert.InDelta(t, d1+d2, c.SimulatedTime(), 1e-15)
}

func TestAdvance_DoublingSpeedDoublesStep(t *testing.T) {
	slow := newClock(t)
	fast := newClock(t)
	require.NoError(t, slow.SetSpeed(50))
	require.NoError(t, fast.SetSpeed(100))

	slow.Advance(t0)
	fast.Advance(t0)
	ds := slow.Advance(t0.Add(20 * time.Millisecond))
	df := fast.Advance(t0.Add(20 * time.Millisecond))
	assert.Equal(t, 2*ds, df)
}

func TestAdvance_PausedNeverMoves(t *testing.T) {
	c := newClock(t)
	c.Advance(t0)
	c.Advance(t0.Add(time.Second))
	before := c.SimulatedTime()

	assert.False(t, c.Toggle())
	for i := 1; i <= 10; i++ {
		c.Advance(t0.Add(time.Duration(i) * time.Hour))
	}
	assert.Equal(t, before, c.SimulatedTime())
}

func TestAdvance_ResumeSkipsPausedInterval(t *testing.T) {
	c := newClock(t)
	c.Advance(t0)
	c.Toggle()
	c.Advance(t0.Add(10 * time.Minute))
	c.Toggle()

	d := c.Advance(t0.Add(10*time.Minute + 16*time.Millisecond))
	assert.InDelta(t, Step(16*time.Millisecond, 1), d, 1e-15)
}

func TestReset(t *testing.T) {
	c := newClock(t)
	c.Advance(t0)
	c.Advance(t0.Add(time.Minute))
	require.Greater(t, c.SimulatedTime(), 0.0)

	c.Toggle() // paused
	c.Reset()
	assert.Equal(t, 0.0, c.SimulatedTime())
	assert.False(t, c.Running(), "reset keeps paused state")

	c.Advance(t0.Add(2 * time.Minute))
	c.Toggle()
	d := c.Advance(t0.Add(2*time.Minute + 10*time.Millisecond))
	assert.Equal(t, d, c.SimulatedTime(), "resumes from 0 without stale paused time")
}

func TestSetSpeed(t *testing.T) {
	c := newClock(t)
	for _, s := range Speeds {
		require.NoError(t, c.SetSpeed(s))
		assert.Equal(t, s, c.Speed())
	}

	err := c.SetSpeed(7)
	assert.ErrorIs(t, err, ErrInvalidSpeed)
	assert.Equal(t, 100.0, c.Speed(), "rejected speed leaves multiplier unchanged")
}

func TestSetSpeed_AppliesNextFrame(t *testing.T) {
	c := newClock(t)
	c.Advance(t0)
	c.Advance(t0.Add(10 * time.Millisecond))
	before := c.SimulatedTime()

	require.NoError(t, c.SetSpeed(10))
	assert.Equal(t, before, c.SimulatedTime(), "changing speed is not retroactive")

	d := c.Advance(t0.Add(20 * time.Millisecond))
	assert.InDelta(t, Step(10*time.Millisecond, 10), d, 1e-15)
}

func TestAdvance_BackwardsTimestamp(t *testing.T) {
	c := newClock(t)
	c.Advance(t0)
	assert.Equal(t, 0.0, c.Advance(t0.Add(-time.Second)))
	assert.Equal(t, 0.0, c.SimulatedTime())
}
