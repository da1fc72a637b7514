package scene

import "math/rand/v2"

// Star is one background star in world units.
type Star struct {
	X       float64
	Y       float64
	Size    float64
	Opacity float64
}

// Starfield extent and defaults.
const (
	DefaultStarCount = 300
	starfieldHalf    = 2000.0
)

// NewStarfield scatters count stars. It is generated once per session and reused
// for every frame. A zero seed picks a random one.
func NewStarfield(count int, seed uint64) []Star {
	if seed == 0 {
		seed = rand.Uint64()
	}
	rng := rand.New(rand.NewPCG(seed, seed>>1|1))

	stars := make([]Star, count)
	for i := range stars {
		stars[i] = Star{
			X:       rng.Float64()*2*starfieldHalf - starfieldHalf,
			Y:       rng.Float64()*2*starfieldHalf - starfieldHalf,
			Size:    rng.Float64()*1.5 + 0.5,
			Opacity: rng.Float64()*0.8 + 0.2,
		}
	}
	return stars
}
