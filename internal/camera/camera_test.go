package camera

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/solaris-viz/solaris/pkg/core"
)

func TestViewBox_CentredWithoutPan(t *testing.T) {
	v := New(1, Size{Width: 800, Height: 600})

	vb := v.ViewBox()
	assert.Equal(t, core.Rect{X: -400, Y: -300, Width: 800, Height: 600}, vb)

	v.ZoomBy(1) // zoom 2
	vb = v.ViewBox()
	assert.Equal(t, core.Rect{X: -200, Y: -150, Width: 400, Height: 300}, vb)
}

func TestViewBox_Pan(t *testing.T) {
	v := New(2, Size{Width: 800, Height: 600})
	v.PanByPixels(100, -40)

	assert.Equal(t, core.Vec2{X: 50, Y: -20}, v.Pan())
	vb := v.ViewBox()
	assert.Equal(t, -200.0-50, vb.X)
	assert.Equal(t, -150.0+20, vb.Y)
}

func TestZoomBy_Clamped(t *testing.T) {
	v := New(0.8, Size{Width: 100, Height: 100})

	for i := 0; i < 100; i++ {
		z := v.ZoomBy(0.2)
		assert.LessOrEqual(t, z, MaxZoom)
		assert.GreaterOrEqual(t, z, MinZoom)
	}
	assert.Equal(t, MaxZoom, v.Zoom())

	for i := 0; i < 100; i++ {
		z := v.ZoomBy(-0.2)
		assert.LessOrEqual(t, z, MaxZoom)
		assert.GreaterOrEqual(t, z, MinZoom)
	}
	assert.Equal(t, MinZoom, v.Zoom())
}

func TestNew_ClampsInitialZoom(t *testing.T) {
	assert.Equal(t, MaxZoom, New(50, Size{}).Zoom())
	assert.Equal(t, MinZoom, New(0, Size{}).Zoom())
}

func TestPanByPixels_ScalesWithZoom(t *testing.T) {
	for _, z := range []float64{0.1, 0.8, 1, 4, 10} {
		v := New(z, Size{Width: 100, Height: 100})
		v.PanByPixels(12, -7)
		assert.InDelta(t, 12/z, v.Pan().X, 1e-9)
		assert.InDelta(t, -7/z, v.Pan().Y, 1e-9)
	}
}

func TestResize_Fallbacks(t *testing.T) {
	fallback := Size{Width: 1280, Height: 800}
	v := New(1, fallback)

	// not mounted yet: keep fallback
	assert.Equal(t, fallback, v.Resize(0, 0))

	assert.Equal(t, Size{Width: 640, Height: 480}, v.Resize(640, 480))
	// idempotent
	assert.Equal(t, Size{Width: 640, Height: 480}, v.Resize(640, 480))

	// failed measurement keeps the last known size
	assert.Equal(t, Size{Width: 640, Height: 480}, v.Resize(-1, 300))
}

func TestScreenToWorld(t *testing.T) {
	v := New(2, Size{Width: 800, Height: 600})

	centre := v.ScreenToWorld(400, 300)
	assert.InDelta(t, 0, centre.X, 1e-9)
	assert.InDelta(t, 0, centre.Y, 1e-9)

	v.PanByPixels(200, 0)
	p := v.ScreenToWorld(400, 300)
	assert.InDelta(t, -100, p.X, 1e-9)
}
