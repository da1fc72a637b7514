package scene

import (
	"github.com/solaris-viz/solaris/internal/catalog"
	"github.com/solaris-viz/solaris/internal/orbit"
	"github.com/solaris-viz/solaris/pkg/core"
)

// Placement is a body resolved for one simulated instant.
type Placement struct {
	Body     core.CelestialBody
	ParentID string

	// World is the body's centre in world units.
	World core.Vec2
	// Local is a moon's offset inside its parent's tilt group, before rotation.
	Local core.Vec2
	// Tilt is the rotation of the group the body's disc is drawn in.
	Tilt float64
	// YScale is the flattening applied to a moon's orbit.
	YScale float64
}

// Layout places every body at time t. The result is in draw order: each top-level
// body is followed by its moons.
func Layout(cat *catalog.Catalog, t float64) []Placement {
	out := make([]Placement, 0, cat.Len())
	for _, b := range cat.Bodies() {
		pos := orbit.Position(b.OrbitRadius, b.Period, t)
		out = append(out, Placement{
			Body:   b,
			World:  pos,
			Tilt:   b.AxialTiltDegrees,
			YScale: 1,
		})

		tilted := b.Tilted()
		for _, m := range b.Moons {
			local := orbit.MoonOffset(m.OrbitRadius, m.Period, t, tilted)
			out = append(out, Placement{
				Body:     m,
				ParentID: b.ID,
				World:    pos.Add(orbit.Rotate(local, b.AxialTiltDegrees)),
				Local:    local,
				Tilt:     b.AxialTiltDegrees,
				YScale:   orbit.YScale(tilted),
			})
		}
	}
	return out
}

// Find returns the placement of a body.
func Find(placements []Placement, id string) (Placement, bool) {
	for _, p := range placements {
		if p.Body.ID == id {
			return p, true
		}
	}
	return Placement{}, false
}
