// Package streaming defines the JSON messages exchanged with a rendering surface
// over the WebSocket.
package streaming

import (
	"encoding/json"
	"fmt"

	"github.com/solaris-viz/solaris/pkg/core"
)

// Commands sent by the surface.
const (
	TypeTogglePlay = "toggle_play"
	TypeSetSpeed   = "set_speed"
	TypeZoom       = "zoom"
	TypeResetTime  = "reset_time"
	TypeSelect     = "select"
	TypeDeselect   = "deselect"
	TypePointer    = "pointer"
	TypeResize     = "resize"
)

// Messages pushed by the server.
const (
	TypeHello            = "hello"
	TypeFrame            = "frame"
	TypeDescriptionReady = "description_ready"
	TypeAck              = "ack"
	TypeError            = "error"
)

// Envelope wraps all messages sent over the WebSocket.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// NewEnvelope marshals payload into an envelope of the given type.
func NewEnvelope(typ string, payload any) (Envelope, error) {
	if payload == nil {
		return Envelope{Type: typ}, nil
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, fmt.Errorf("encode %s payload: %w", typ, err)
	}
	return Envelope{Type: typ, Payload: raw}, nil
}

// AckMessage is the server's acknowledgement of a command.
type AckMessage struct {
	For    string `json:"for"`
	Result any    `json:"result,omitempty"`
}

// ErrorMessage reports a rejected command. The connection stays open.
type ErrorMessage struct {
	For     string `json:"for,omitempty"`
	Message string `json:"message"`
}

// HelloPayload is sent once after the session is mounted.
type HelloPayload struct {
	Session   string    `json:"session"`
	Speeds    []float64 `json:"speeds"`
	FrameRate int       `json:"frameRate"`
}

// FramePayload carries one rendered frame and the control state it was drawn with.
type FramePayload struct {
	SVG   string `json:"svg"`
	State any    `json:"state"`
}

// DescriptionPayload carries fetched text for the selected body.
type DescriptionPayload struct {
	BodyID string `json:"bodyId"`
	Text   string `json:"text"`
}

// SetSpeedPayload selects a speed multiplier.
type SetSpeedPayload struct {
	Speed float64 `json:"speed"`
}

// ZoomPayload is a relative zoom change; the page buttons send ±0.2.
type ZoomPayload struct {
	Delta float64 `json:"delta"`
}

// SelectPayload names a body.
type SelectPayload struct {
	ID string `json:"id"`
}

// ResizePayload is the measured surface size in pixels.
type ResizePayload struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// PointerPayload is a raw mouse or touch event in surface pixels.
type PointerPayload struct {
	Kind    string      `json:"kind"`
	Phase   string      `json:"phase"`
	X       float64     `json:"x"`
	Y       float64     `json:"y"`
	Touches []core.Vec2 `json:"touches,omitempty"`
}
