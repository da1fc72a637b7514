// Package pointer tells drags (pan) apart from clicks (select) for mouse and touch input.
package pointer

import "math"

// ClickThreshold is the accumulated Manhattan distance in pixels below which a
// gesture still counts as a click.
const ClickThreshold = 5.0

// Kind is the input device.
type Kind string

const (
	Mouse Kind = "mouse"
	Touch Kind = "touch"
)

// Phase is the gesture step an input belongs to.
type Phase string

const (
	Down  Phase = "down"
	Move  Phase = "move"
	Up    Phase = "up"
	Leave Phase = "leave"
)

// State of the controller.
type State int

const (
	Idle State = iota
	Pressed
)

func (s State) String() string {
	if s == Pressed {
		return "pressed"
	}
	return "idle"
}

// Point is a surface position in pixels.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Input is one raw pointer event. Mouse events carry X/Y, touch events carry Touches.
type Input struct {
	Kind    Kind    `json:"kind"`
	Phase   Phase   `json:"phase"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Touches []Point `json:"touches,omitempty"`
}

// Extract returns the single coordinate that drives the state machine.
// Touch uses the first active touch; a touch-end carries none.
func Extract(in Input) (Point, bool) {
	if in.Kind == Touch {
		if len(in.Touches) == 0 {
			return Point{}, false
		}
		return in.Touches[0], true
	}
	return Point{X: in.X, Y: in.Y}, true
}

// IsClick reports whether a gesture that moved distance pixels is a click.
func IsClick(distance float64) bool {
	return distance < ClickThreshold
}

// Panner receives pan deltas in pixels.
type Panner interface {
	PanByPixels(dx, dy float64)
}

// Controller is the Idle/Pressed state machine.
type Controller struct {
	state    State
	last     Point
	distance float64
}

// State returns the current state.
func (c *Controller) State() State {
	return c.state
}

// Distance returns the drag distance accumulated since the last press.
func (c *Controller) Distance() float64 {
	return c.distance
}

// Dragging reports whether a press is in progress.
func (c *Controller) Dragging() bool {
	return c.state == Pressed
}

// Last is the most recent pointer position seen while pressed.
func (c *Controller) Last() Point {
	return c.last
}

// Handle advances the state machine. Moves while pressed pan through p.
// It returns true when the input ended a gesture.
func (c *Controller) Handle(in Input, p Panner) bool {
	switch in.Phase {
	case Down:
		pt, ok := Extract(in)
		if !ok {
			return false
		}
		c.state = Pressed
		c.last = pt
		c.distance = 0
	case Move:
		if c.state != Pressed {
			return false
		}
		pt, ok := Extract(in)
		if !ok {
			return false
		}
		dx, dy := pt.X-c.last.X, pt.Y-c.last.Y
		c.distance += math.Abs(dx) + math.Abs(dy)
		if p != nil {
			p.PanByPixels(dx, dy)
		}
		c.last = pt
	case Up, Leave:
		ended := c.state == Pressed
		c.state = Idle
		return ended
	}
	return false
}

// Click resolves a click at the end of a gesture. The hit target is consulted only
// when the gesture qualifies as a click; a body hit consumes the click so it is not
// also handled as a background click.
func (c *Controller) Click(hit func() (string, bool)) (bodyID string, consumed bool) {
	if !IsClick(c.distance) {
		return "", false
	}
	return hit()
}
