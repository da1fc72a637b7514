// pkg/core/body.go
package core

// Kind classifies a catalog entry by its level in the body tree.
type Kind string

const (
	KindStar   Kind = "star"
	KindPlanet Kind = "planet"
	KindMoon   Kind = "moon"
)

// RingGeometry describes a flat ring system drawn around a body.
type RingGeometry struct {
	InnerRadius float64 `json:"innerRadius" yaml:"innerRadius"`
	OuterRadius float64 `json:"outerRadius" yaml:"outerRadius"`
	Color       string  `json:"color" yaml:"color"`
	Opacity     float64 `json:"opacity" yaml:"opacity"`
}

// CelestialBody is an immutable catalog record.
// Distances and radii are display units, not real-world scale.
// Period is in Earth years; 0 pins the body at its parent's origin (the star).
type CelestialBody struct {
	ID               string          `json:"id" yaml:"id"`
	Name             string          `json:"name" yaml:"name"`
	Kind             Kind            `json:"type" yaml:"type"`
	Color            string          `json:"color" yaml:"color"`
	VisualRadius     float64         `json:"radius" yaml:"radius"`
	OrbitRadius      float64         `json:"orbitRadius" yaml:"orbitRadius"`
	Period           float64         `json:"period" yaml:"period"`
	AxialTiltDegrees float64         `json:"axialTilt,omitempty" yaml:"axialTilt,omitempty"`
	TextureURL       string          `json:"textureUrl,omitempty" yaml:"textureUrl,omitempty"`
	Rings            *RingGeometry   `json:"rings,omitempty" yaml:"rings,omitempty"`
	Moons            []CelestialBody `json:"moons,omitempty" yaml:"moons,omitempty"`

	// Descriptive payload, passed through untouched.
	Description    string `json:"description" yaml:"description"`
	Mass           string `json:"mass" yaml:"mass"`
	RealRadius     string `json:"realRadius" yaml:"realRadius"`
	RotationPeriod string `json:"rotationPeriod" yaml:"rotationPeriod"`
}

// HasRings reports whether ring geometry is present.
func (b CelestialBody) HasRings() bool {
	return b.Rings != nil
}

// HasTexture reports whether the body should be drawn from an image.
func (b CelestialBody) HasTexture() bool {
	return b.TextureURL != ""
}

// Tilted reports whether the body carries a nonzero axial tilt.
func (b CelestialBody) Tilted() bool {
	return b.AxialTiltDegrees != 0
}

// Clone returns a deep copy; the ring geometry and moons are not shared with b.
func (b CelestialBody) Clone() CelestialBody {
	if b.Rings != nil {
		r := *b.Rings
		b.Rings = &r
	}
	if b.Moons != nil {
		moons := make([]CelestialBody, len(b.Moons))
		for i, m := range b.Moons {
			moons[i] = m.Clone()
		}
		b.Moons = moons
	}
	return b
}
