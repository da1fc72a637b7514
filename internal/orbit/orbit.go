// Package orbit computes positions on uniform circular orbits.
package orbit

import (
	"math"

	"github.com/solaris-viz/solaris/pkg/core"
)

// FlattenRatio squashes the vertical axis of rings and tilted moon orbits
// to fake an oblique viewing angle.
const FlattenRatio = 0.4

// Position returns the offset from the parent's centre after t Earth years.
// A zero period is the fixed-at-origin sentinel.
func Position(orbitRadius, period, t float64) core.Vec2 {
	if period == 0 {
		return core.Vec2{}
	}
	angle := (t / period) * 2 * math.Pi
	return core.Vec2{
		X: math.Cos(angle) * orbitRadius,
		Y: math.Sin(angle) * orbitRadius,
	}
}

// MoonOffset is Position with the vertical axis flattened when the parent is tilted,
// keeping moon orbits coplanar with a tilted ring system.
func MoonOffset(orbitRadius, period, t float64, parentTilted bool) core.Vec2 {
	p := Position(orbitRadius, period, t)
	p.Y *= YScale(parentTilted)
	return p
}

// YScale is the vertical scale applied to a moon orbit.
func YScale(parentTilted bool) float64 {
	if parentTilted {
		return FlattenRatio
	}
	return 1.0
}

// Rotate turns v by degrees (clockwise on screen, matching SVG rotate()).
func Rotate(v core.Vec2, degrees float64) core.Vec2 {
	if degrees == 0 {
		return v
	}
	rad := degrees * math.Pi / 180
	sin, cos := math.Sincos(rad)
	return core.Vec2{
		X: v.X*cos - v.Y*sin,
		Y: v.X*sin + v.Y*cos,
	}
}
