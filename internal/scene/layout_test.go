package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solaris-viz/solaris/internal/catalog"
	"github.com/solaris-viz/solaris/internal/orbit"
	"github.com/solaris-viz/solaris/pkg/core"
)

func TestLayout_DrawOrder(t *testing.T) {
	placements := Layout(catalog.Default(), 0)
	require.Len(t, placements, 15)

	ids := make([]string, 0, len(placements))
	for _, p := range placements {
		ids = append(ids, p.Body.ID)
	}
	assert.Equal(t, []string{
		"sun", "mercury", "venus", "earth", "moon", "mars",
		"jupiter", "io", "europa", "ganymede", "callisto",
		"saturn", "titan", "uranus", "neptune",
	}, ids)
}

func TestLayout_PlanetQuarterOrbit(t *testing.T) {
	p, ok := Find(Layout(catalog.Default(), 0.25), "earth")
	require.True(t, ok)

	assert.InDelta(t, 0, p.World.X, 1e-9)
	assert.InDelta(t, 140, p.World.Y, 1e-9)
	assert.Equal(t, 23.0, p.Tilt)
}

func TestLayout_StarStaysAtOrigin(t *testing.T) {
	p, ok := Find(Layout(catalog.Default(), 12.5), "sun")
	require.True(t, ok)
	assert.Equal(t, core.Vec2{}, p.World)
}

func TestLayout_MoonFlattenedUnderTiltedParent(t *testing.T) {
	// Quarter of Titan's period puts it at the bottom of its orbit.
	titan, ok := Find(Layout(catalog.Default(), 0.011), "titan")
	require.True(t, ok)

	assert.Equal(t, "saturn", titan.ParentID)
	assert.Equal(t, orbit.FlattenRatio, titan.YScale)
	assert.InDelta(t, 0, titan.Local.X, 1e-9)
	assert.InDelta(t, 60*orbit.FlattenRatio, titan.Local.Y, 1e-9)
}

func TestLayout_MoonRoundUnderUprightParent(t *testing.T) {
	io, ok := Find(Layout(catalog.Default(), 0.0012), "io")
	require.True(t, ok)

	assert.Equal(t, 1.0, io.YScale)
	assert.InDelta(t, 0, io.Local.X, 1e-9)
	assert.InDelta(t, 34, io.Local.Y, 1e-9)
}

func TestLayout_MoonWorldFollowsParentTilt(t *testing.T) {
	placements := Layout(catalog.Default(), 0.3)
	earth, _ := Find(placements, "earth")
	moon, ok := Find(placements, "moon")
	require.True(t, ok)

	want := earth.World.Add(orbit.Rotate(moon.Local, 23))
	assert.InDelta(t, want.X, moon.World.X, 1e-9)
	assert.InDelta(t, want.Y, moon.World.Y, 1e-9)
}

func TestHitTest(t *testing.T) {
	placements := Layout(catalog.Default(), 0)
	moon, _ := Find(placements, "moon")

	tests := []struct {
		name  string
		point core.Vec2
		want  string
	}{
		{"planet disc", core.Vec2{X: 140, Y: 0}, "earth"},
		{"moon above parent", moon.World, "moon"},
		{"star glow", core.Vec2{X: 0, Y: 150}, "sun"},
		{"ring annulus", core.Vec2{X: 390, Y: 0}.Add(orbit.Rotate(core.Vec2{X: 35}, 27)), "saturn"},
		{"empty space", core.Vec2{X: 0, Y: 300}, ""},
		{"ring hole outside disc", core.Vec2{X: 390, Y: 0}.Add(orbit.Rotate(core.Vec2{X: 25}, 27)), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, ok := HitTest(placements, tt.point)
			assert.Equal(t, tt.want != "", ok)
			assert.Equal(t, tt.want, id)
		})
	}
}

func TestNewStarfield(t *testing.T) {
	stars := NewStarfield(DefaultStarCount, 42)
	require.Len(t, stars, 300)

	for _, s := range stars {
		assert.GreaterOrEqual(t, s.X, -2000.0)
		assert.Less(t, s.X, 2000.0)
		assert.GreaterOrEqual(t, s.Y, -2000.0)
		assert.Less(t, s.Y, 2000.0)
		assert.GreaterOrEqual(t, s.Size, 0.5)
		assert.Less(t, s.Size, 2.0)
		assert.GreaterOrEqual(t, s.Opacity, 0.2)
		assert.Less(t, s.Opacity, 1.0)
	}

	assert.Equal(t, stars, NewStarfield(DefaultStarCount, 42), "same seed, same sky")
	assert.Len(t, NewStarfield(10, 0), 10)
}
