package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solaris-viz/solaris/pkg/core"
)

func star() core.CelestialBody {
	return core.CelestialBody{ID: "sun", Kind: core.KindStar, VisualRadius: 40, Color: "#fbbf24"}
}

func planet(id string, moons ...core.CelestialBody) core.CelestialBody {
	return core.CelestialBody{ID: id, Kind: core.KindPlanet, VisualRadius: 10, OrbitRadius: 140, Period: 1, Moons: moons}
}

func moon(id string) core.CelestialBody {
	return core.CelestialBody{ID: id, Kind: core.KindMoon, VisualRadius: 3, OrbitRadius: 18, Period: 0.074}
}

func TestDefault_Valid(t *testing.T) {
	c := Default()

	assert.Equal(t, "sun", c.Star().ID)
	assert.Len(t, c.Bodies(), 9)
	assert.Equal(t, 15, c.Len())

	saturn, ok := c.Lookup("saturn")
	require.True(t, ok)
	require.NotNil(t, saturn.Rings)
	assert.Equal(t, 26.0, saturn.Rings.InnerRadius)
	assert.Equal(t, 42.0, saturn.Rings.OuterRadius)
	assert.Equal(t, 27.0, saturn.AxialTiltDegrees)

	earth, _ := c.Lookup("earth")
	assert.Equal(t, 23.0, earth.AxialTiltDegrees)
	mars, _ := c.Lookup("mars")
	assert.False(t, mars.Tilted())
}

func TestLookup_Moon(t *testing.T) {
	c := Default()

	titan, ok := c.Lookup("titan")
	require.True(t, ok)
	assert.Equal(t, core.KindMoon, titan.Kind)

	parent, ok := c.Parent("titan")
	require.True(t, ok)
	assert.Equal(t, "saturn", parent.ID)

	_, ok = c.Parent("saturn")
	assert.False(t, ok, "planets have no parent entry")

	_, ok = c.Lookup("pluto")
	assert.False(t, ok)
}

func TestNew_Errors(t *testing.T) {
	nested := moon("deep")
	withMoon := moon("m1")
	withMoon.Moons = []core.CelestialBody{nested}

	badStar := star()
	badStar.Period = 1

	badPeriod := planet("p")
	badPeriod.Period = 0

	badRing := planet("ringed")
	badRing.Rings = &core.RingGeometry{InnerRadius: 42, OuterRadius: 26, Color: "#c2a176", Opacity: 0.8}

	badColor := planet("colored")
	badColor.Color = "not-a-color"

	tests := []struct {
		name   string
		bodies []core.CelestialBody
		want   error
	}{
		{"empty", nil, ErrEmpty},
		{"no star", []core.CelestialBody{planet("earth")}, ErrMissingStar},
		{"duplicate top level", []core.CelestialBody{star(), planet("earth"), planet("earth")}, ErrDuplicateID},
		{"duplicate across levels", []core.CelestialBody{star(), planet("earth", moon("io")), planet("jupiter", moon("io"))}, ErrDuplicateID},
		{"moon id clashes with planet", []core.CelestialBody{star(), planet("earth", moon("mars")), planet("mars")}, ErrDuplicateID},
		{"too deep", []core.CelestialBody{star(), planet("earth", withMoon)}, ErrTooDeep},
		{"moon at top level", []core.CelestialBody{star(), moon("moon")}, ErrInvalidKind},
		{"planet as moon", []core.CelestialBody{star(), planet("earth", planet("x"))}, ErrInvalidKind},
		{"star with orbit", []core.CelestialBody{badStar}, ErrInvalidOrbit},
		{"zero period planet", []core.CelestialBody{star(), badPeriod}, ErrInvalidOrbit},
		{"inverted ring", []core.CelestialBody{star(), badRing}, ErrInvalidRings},
		{"bad color", []core.CelestialBody{star(), badColor}, ErrInvalidColor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.bodies)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestLoadFile_YAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mini.yaml")
	doc := `
bodies:
  - id: sun
    type: star
    radius: 40
    color: "#fbbf24"
  - id: saturn
    type: planet
    radius: 24
    orbitRadius: 390
    period: 29.45
    axialTilt: 27
    rings:
      innerRadius: 26
      outerRadius: 42
      color: "#c2a176"
      opacity: 0.8
    moons:
      - id: titan
        type: moon
        radius: 3.5
        orbitRadius: 60
        period: 0.044
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))

	c, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 3, c.Len())

	saturn, ok := c.Lookup("saturn")
	require.True(t, ok)
	assert.Equal(t, 27.0, saturn.AxialTiltDegrees)
	require.NotNil(t, saturn.Rings)
	assert.Equal(t, 0.8, saturn.Rings.Opacity)
}

func TestLoadFile_JSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mini.json")
	doc := `{"bodies":[{"id":"sun","type":"star","radius":40},{"id":"earth","type":"planet","radius":10,"orbitRadius":140,"period":1}]}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))

	c, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "sun", c.Star().ID)
}

func TestLoadFile_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadFile(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)

	txt := filepath.Join(dir, "catalog.txt")
	require.NoError(t, os.WriteFile(txt, []byte("x"), 0644))
	_, err = LoadFile(txt)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported catalog format")

	invalid := filepath.Join(dir, "invalid.json")
	require.NoError(t, os.WriteFile(invalid, []byte(`{"bodies":[]}`), 0644))
	_, err = LoadFile(invalid)
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestCatalog_CallersCannotMutate(t *testing.T) {
	c := Default()

	bodies := c.Bodies()
	require.Equal(t, "earth", bodies[3].ID)
	bodies[3].Name = "changed"
	bodies[3].Moons[0].Name = "changed"
	saturn, _ := c.Lookup("saturn")
	saturn.Rings.Color = "#000000"
	saturn.Moons[0].Name = "changed"

	assert.Equal(t, "Earth", c.Bodies()[3].Name)
	earth, _ := c.Lookup("earth")
	assert.Equal(t, "Earth", earth.Name)
	assert.Equal(t, "Moon", earth.Moons[0].Name)
	saturn, _ = c.Lookup("saturn")
	assert.Equal(t, "#c2a176", saturn.Rings.Color)
	assert.Equal(t, "Titan", saturn.Moons[0].Name)
	assert.Equal(t, "Earth", Default().Bodies()[3].Name, "built-in data is not shared")

	input := []core.CelestialBody{star(), planet("p", moon("m"))}
	own, err := New(input)
	require.NoError(t, err)
	input[1].Moons[0].ID = "renamed"
	_, ok := own.Lookup("m")
	assert.True(t, ok)
	assert.Equal(t, "m", own.Bodies()[1].Moons[0].ID)
}
