// Package clock runs the simulated timeline and the per-frame driver that advances it.
package clock

import (
	"errors"
	"fmt"
	"slices"
	"time"
)

// BaseRate converts wall milliseconds into simulated Earth years at speed 1.
const BaseRate = 0.00002

// Speeds are the multipliers offered by the control surface.
var Speeds = []float64{1, 10, 50, 100}

// ErrInvalidSpeed is returned for a multiplier outside Speeds.
var ErrInvalidSpeed = errors.New("invalid speed multiplier")

// Clock is a pausable, speed-scaled simulated timeline. It starts running at time 0.
// Not safe for concurrent use; the owning session serializes access.
type Clock struct {
	simulated float64
	speed     float64
	running   bool

	prev    time.Time
	hasPrev bool
}

// New returns a running clock at time 0.
func New(speed float64) (*Clock, error) {
	c := &Clock{speed: 1, running: true}
	if err := c.SetSpeed(speed); err != nil {
		return nil, err
	}
	return c, nil
}

// SimulatedTime returns the accumulated simulated time in Earth years.
func (c *Clock) SimulatedTime() float64 {
	return c.simulated
}

// Speed returns the active multiplier.
func (c *Clock) Speed() float64 {
	return c.speed
}

// Running reports whether frames advance the timeline.
func (c *Clock) Running() bool {
	return c.running
}

// Toggle flips between running and paused and returns the new state.
func (c *Clock) Toggle() bool {
	c.running = !c.running
	return c.running
}

// SetSpeed changes the multiplier. It applies from the next frame on.
func (c *Clock) SetSpeed(speed float64) error {
	if !slices.Contains(Speeds, speed) {
		return fmt.Errorf("%w: %v", ErrInvalidSpeed, speed)
	}
	c.speed = speed
	return nil
}

// Reset rewinds the timeline to 0 without touching running/paused.
func (c *Clock) Reset() {
	c.simulated = 0
}

// Advance is called once per frame with the frame timestamp. The previous timestamp
// is always recorded, so resuming after a pause never applies the paused interval.
// It returns the simulated time added by this frame.
func (c *Clock) Advance(now time.Time) float64 {
	if !c.hasPrev {
		c.prev = now
		c.hasPrev = true
		return 0
	}

	elapsed := now.Sub(c.prev)
	c.prev = now
	if !c.running || elapsed <= 0 {
		return 0
	}

	delta := Step(elapsed, c.speed)
	c.simulated += delta
	return delta
}

// Step converts a wall-clock interval into simulated time at the given speed.
func Step(elapsed time.Duration, speed float64) float64 {
	ms := float64(elapsed) / float64(time.Millisecond)
	return ms * BaseRate * speed
}
