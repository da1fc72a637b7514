// Package camera maps world coordinates onto the visible window under zoom and pan.
package camera

import (
	"math"

	"github.com/solaris-viz/solaris/pkg/core"
)

// Zoom limits.
const (
	MinZoom = 0.1
	MaxZoom = 10.0
)

// Size is a surface size in pixels.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (s Size) valid() bool {
	return s.Width > 0 && s.Height > 0
}

// Viewport owns zoom, pan and the measured surface size.
// It is not safe for concurrent use; the owning session serializes access.
type Viewport struct {
	zoom     float64
	pan      core.Vec2
	size     Size
	measured bool
	fallback Size
}

// New creates a viewport. fallback is used until the surface reports a real size.
func New(initialZoom float64, fallback Size) *Viewport {
	return &Viewport{
		zoom:     clamp(initialZoom),
		size:     fallback,
		fallback: fallback,
	}
}

func clamp(z float64) float64 {
	if math.IsNaN(z) {
		return MinZoom
	}
	return math.Max(MinZoom, math.Min(MaxZoom, z))
}

// Zoom returns the current zoom factor.
func (v *Viewport) Zoom() float64 {
	return v.zoom
}

// ZoomBy applies a relative zoom change, clamped to [MinZoom, MaxZoom].
func (v *Viewport) ZoomBy(delta float64) float64 {
	v.zoom = clamp(v.zoom + delta)
	return v.zoom
}

// Pan returns the pan offset in world units.
func (v *Viewport) Pan() core.Vec2 {
	return v.pan
}

// PanByPixels converts a pointer delta into a world-space pan so that dragging
// moves at a constant speed on screen regardless of zoom.
func (v *Viewport) PanByPixels(dx, dy float64) {
	v.pan.X += dx / v.zoom
	v.pan.Y += dy / v.zoom
}

// Size returns the surface size used for projection.
func (v *Viewport) Size() Size {
	return v.size
}

// Resize records a new surface measurement. Non-positive sizes (surface not
// mounted yet) keep the last known size, or the fallback when nothing was measured.
// Calling it repeatedly with the same size is harmless.
func (v *Viewport) Resize(width, height float64) Size {
	s := Size{Width: width, Height: height}
	switch {
	case s.valid():
		v.size = s
		v.measured = true
	case !v.measured && v.fallback.valid():
		v.size = v.fallback
	}
	return v.size
}

// ViewBox returns the visible world rectangle. With zero pan the origin sits in
// the middle of the surface.
func (v *Viewport) ViewBox() core.Rect {
	return core.Rect{
		X:      -v.size.Width/(2*v.zoom) - v.pan.X,
		Y:      -v.size.Height/(2*v.zoom) - v.pan.Y,
		Width:  v.size.Width / v.zoom,
		Height: v.size.Height / v.zoom,
	}
}

// ScreenToWorld maps a surface pixel to world coordinates.
func (v *Viewport) ScreenToWorld(x, y float64) core.Vec2 {
	vb := v.ViewBox()
	return core.Vec2{
		X: vb.X + x/v.zoom,
		Y: vb.Y + y/v.zoom,
	}
}
