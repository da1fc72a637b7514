package scene

import (
	"github.com/solaris-viz/solaris/internal/orbit"
	"github.com/solaris-viz/solaris/pkg/core"
)

// StarGlowScale is the corona radius as a multiple of the star radius.
const StarGlowScale = 4.0

// HitTest returns the topmost body under a world point. Placements are walked in
// reverse draw order so moons win over their parent and later planets over earlier ones.
func HitTest(placements []Placement, world core.Vec2) (string, bool) {
	for i := len(placements) - 1; i >= 0; i-- {
		if hits(placements[i], world) {
			return placements[i].Body.ID, true
		}
	}
	return "", false
}

func hits(p Placement, world core.Vec2) bool {
	d := world.Sub(p.World)
	b := p.Body

	radius := b.VisualRadius
	if b.Kind == core.KindStar {
		radius *= StarGlowScale
	}
	if d.Len() <= radius {
		return true
	}

	if b.Rings == nil {
		return false
	}
	// Ring annulus lives in the tilt group; undo the tilt first.
	local := orbit.Rotate(d, -p.Tilt)
	return inEllipse(local, b.Rings.OuterRadius) && !inEllipse(local, b.Rings.InnerRadius)
}

func inEllipse(v core.Vec2, r float64) bool {
	if r <= 0 {
		return false
	}
	ry := r * orbit.FlattenRatio
	return (v.X*v.X)/(r*r)+(v.Y*v.Y)/(ry*ry) <= 1
}
