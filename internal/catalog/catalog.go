// Package catalog holds the immutable tree of celestial bodies (star → planets → moons)
// and the id index used to resolve selections and click targets.
package catalog

import (
	"errors"
	"fmt"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/solaris-viz/solaris/pkg/core"
)

var (
	ErrEmpty        = errors.New("catalog is empty")
	ErrDuplicateID  = errors.New("duplicate body id")
	ErrTooDeep      = errors.New("moons cannot have moons")
	ErrInvalidKind  = errors.New("invalid body kind")
	ErrInvalidOrbit = errors.New("invalid orbit parameters")
	ErrInvalidRings = errors.New("invalid ring geometry")
	ErrInvalidColor = errors.New("invalid color")
	ErrMissingStar  = errors.New("catalog has no star")
)

// Catalog is a validated body tree with a flat id index.
// It is never mutated after New returns and is safe to share between sessions.
type Catalog struct {
	bodies  []core.CelestialBody
	index   map[string]core.CelestialBody
	parents map[string]string
	starID  string
}

// New validates bodies and builds the index. The catalog keeps its own copy;
// later changes to bodies do not reach it.
func New(bodies []core.CelestialBody) (*Catalog, error) {
	if len(bodies) == 0 {
		return nil, ErrEmpty
	}
	bodies = cloneAll(bodies)

	c := &Catalog{
		bodies:  bodies,
		index:   make(map[string]core.CelestialBody),
		parents: make(map[string]string),
	}

	for _, b := range bodies {
		if err := c.add(b, ""); err != nil {
			return nil, err
		}
		if b.Kind == core.KindStar {
			if c.starID != "" {
				return nil, fmt.Errorf("%w: more than one star (%s, %s)", ErrInvalidKind, c.starID, b.ID)
			}
			c.starID = b.ID
		}
	}
	if c.starID == "" {
		return nil, ErrMissingStar
	}

	return c, nil
}

func (c *Catalog) add(b core.CelestialBody, parentID string) error {
	if b.ID == "" {
		return fmt.Errorf("%w: empty id under %q", ErrInvalidKind, parentID)
	}
	if _, ok := c.index[b.ID]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateID, b.ID)
	}
	if err := validateBody(b, parentID != ""); err != nil {
		return fmt.Errorf("body %s: %w", b.ID, err)
	}

	c.index[b.ID] = b
	if parentID != "" {
		c.parents[b.ID] = parentID
	}

	for _, m := range b.Moons {
		if parentID != "" {
			return fmt.Errorf("body %s: %w", b.ID, ErrTooDeep)
		}
		if err := c.add(m, b.ID); err != nil {
			return err
		}
	}
	return nil
}

func validateBody(b core.CelestialBody, nested bool) error {
	switch {
	case nested && b.Kind != core.KindMoon:
		return fmt.Errorf("%w: %q below top level", ErrInvalidKind, b.Kind)
	case !nested && b.Kind != core.KindStar && b.Kind != core.KindPlanet:
		return fmt.Errorf("%w: %q at top level", ErrInvalidKind, b.Kind)
	}

	if b.VisualRadius < 0 || b.OrbitRadius < 0 {
		return fmt.Errorf("%w: negative radius", ErrInvalidOrbit)
	}
	if b.Kind == core.KindStar {
		if b.OrbitRadius != 0 || b.Period != 0 {
			return fmt.Errorf("%w: star must sit at the origin with period 0", ErrInvalidOrbit)
		}
		if len(b.Moons) > 0 {
			return fmt.Errorf("%w: star cannot carry moons", ErrInvalidKind)
		}
	} else if b.Period <= 0 {
		return fmt.Errorf("%w: period must be positive", ErrInvalidOrbit)
	}

	if b.Color != "" {
		if _, err := colorful.Hex(b.Color); err != nil {
			return fmt.Errorf("%w: %q", ErrInvalidColor, b.Color)
		}
	}

	if r := b.Rings; r != nil {
		if r.InnerRadius < 0 || r.InnerRadius >= r.OuterRadius {
			return fmt.Errorf("%w: inner %.2f outer %.2f", ErrInvalidRings, r.InnerRadius, r.OuterRadius)
		}
		if r.Opacity < 0 || r.Opacity > 1 {
			return fmt.Errorf("%w: opacity %.2f", ErrInvalidRings, r.Opacity)
		}
		if _, err := colorful.Hex(r.Color); err != nil {
			return fmt.Errorf("%w: ring color %q", ErrInvalidColor, r.Color)
		}
	}
	return nil
}

// Bodies returns a copy of the top-level bodies in catalog order.
func (c *Catalog) Bodies() []core.CelestialBody {
	return cloneAll(c.bodies)
}

func cloneAll(bodies []core.CelestialBody) []core.CelestialBody {
	out := make([]core.CelestialBody, len(bodies))
	for i, b := range bodies {
		out[i] = b.Clone()
	}
	return out
}

// Lookup resolves an id anywhere in the tree.
func (c *Catalog) Lookup(id string) (core.CelestialBody, bool) {
	b, ok := c.index[id]
	if !ok {
		return core.CelestialBody{}, false
	}
	return b.Clone(), true
}

// Parent returns the body a moon orbits.
func (c *Catalog) Parent(id string) (core.CelestialBody, bool) {
	pid, ok := c.parents[id]
	if !ok {
		return core.CelestialBody{}, false
	}
	return c.Lookup(pid)
}

// Star returns the central body.
func (c *Catalog) Star() core.CelestialBody {
	return c.index[c.starID].Clone()
}

// Len counts every body in the tree, moons included.
func (c *Catalog) Len() int {
	return len(c.index)
}
