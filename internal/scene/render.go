package scene

import (
	"fmt"
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/solaris-viz/solaris/internal/catalog"
	"github.com/solaris-viz/solaris/internal/orbit"
	"github.com/solaris-viz/solaris/pkg/core"
)

// Frame is everything that varies between two renders of the same catalog.
type Frame struct {
	Time       float64
	ViewBox    core.Rect
	Zoom       float64
	SelectedID string
}

const (
	svgNS        = "http://www.w3.org/2000/svg"
	defaultColor = "#94a3b8"

	orbitStroke     = "rgba(255,255,255,0.1)"
	moonOrbitStroke = "rgba(255,255,255,0.15)"
)

// Renderer draws frames of one catalog over a fixed starfield.
type Renderer struct {
	catalog *catalog.Catalog
	stars   []Star
}

// NewRenderer returns a renderer. stars is reused for every frame.
func NewRenderer(cat *catalog.Catalog, stars []Star) *Renderer {
	return &Renderer{catalog: cat, stars: stars}
}

// Render builds the scene graph for one frame. Draw order: shared defs, starfield,
// orbit guides, bodies.
func (r *Renderer) Render(f Frame) *Node {
	zoom := f.Zoom
	if zoom <= 0 {
		zoom = 1
	}
	vb := f.ViewBox

	root := El("svg",
		A("xmlns", svgNS),
		A("width", "100%"),
		A("height", "100%"),
		A("viewBox", fmt.Sprintf("%s %s %s %s", num(vb.X), num(vb.Y), num(vb.Width), num(vb.Height))),
		A("style", "background:#000"),
	)
	root.Add(sharedDefs())

	stars := El("g", A("class", "starfield"))
	for _, s := range r.stars {
		stars.Add(El("circle",
			A("cx", s.X),
			A("cy", s.Y),
			A("r", s.Size/zoom),
			A("fill", "white"),
			A("opacity", s.Opacity),
		))
	}
	root.Add(stars)

	guides := El("g", A("class", "orbits"))
	for _, b := range r.catalog.Bodies() {
		if b.Kind == core.KindStar {
			continue
		}
		dash := "4 4"
		if b.ID == f.SelectedID {
			dash = "0"
		}
		guides.Add(El("circle",
			A("cx", 0.0),
			A("cy", 0.0),
			A("r", b.OrbitRadius),
			A("fill", "none"),
			A("stroke", orbitStroke),
			A("stroke-width", 1/zoom),
			A("stroke-dasharray", dash),
		))
	}
	root.Add(guides)

	bodies := El("g", A("class", "bodies"))
	placements := Layout(r.catalog, f.Time)
	for i := 0; i < len(placements); {
		p := placements[i]
		j := i + 1
		for j < len(placements) && placements[j].ParentID == p.Body.ID {
			j++
		}
		bodies.Add(drawBody(p, placements[i+1:j], zoom, f.SelectedID))
		i = j
	}
	root.Add(bodies)

	return root
}

func drawBody(p Placement, moons []Placement, zoom float64, selected string) *Node {
	b := p.Body
	g := El("g",
		A("class", "body body-"+string(b.Kind)),
		A("transform", fmt.Sprintf("translate(%s, %s)", num(p.World.X), num(p.World.Y))),
	)
	g.BodyID = b.ID

	defs := El("defs").Add(clipPath(b))
	if b.HasRings() {
		defs.Add(ringGradient(b))
	}
	g.Add(defs)

	if b.ID == selected {
		g.Add(selectionRing(b.VisualRadius, zoom))
	}
	if b.Kind == core.KindStar {
		g.Add(starGlows(b.VisualRadius)...)
	}

	tilt := El("g", A("transform", fmt.Sprintf("rotate(%s)", num(p.Tilt))))
	tilt.Add(disc(b))
	if b.HasRings() {
		tilt.Add(ringPath(b))
	}
	tilt.Add(El("circle",
		A("r", b.VisualRadius),
		A("fill", "url(#sphere-shadow)"),
		A("pointer-events", "none"),
	))
	for _, m := range moons {
		tilt.Add(drawMoon(m, zoom, selected))
	}
	g.Add(tilt)

	g.Add(label(b, zoom))
	return g
}

func drawMoon(p Placement, zoom float64, selected string) *Node {
	m := p.Body
	g := El("g",
		A("class", "body body-moon"),
		A("transform", fmt.Sprintf("translate(%s, %s)", num(p.Local.X), num(p.Local.Y))),
	)
	g.BodyID = m.ID

	// The orbit path is drawn relative to the moon so it stays centred on the parent.
	g.Add(El("ellipse",
		A("cx", -p.Local.X),
		A("cy", -p.Local.Y),
		A("rx", m.OrbitRadius),
		A("ry", m.OrbitRadius*p.YScale),
		A("fill", "none"),
		A("stroke", moonOrbitStroke),
		A("stroke-width", 0.5/zoom),
	))
	g.Add(El("defs").Add(clipPath(m)))
	if m.ID == selected {
		g.Add(selectionRing(m.VisualRadius, zoom))
	}
	g.Add(disc(m))
	return g
}

func selectionRing(radius, zoom float64) *Node {
	ring := El("circle",
		A("class", "selection-ring"),
		A("r", radius+8/zoom),
		A("fill", "none"),
		A("stroke", "white"),
		A("stroke-width", 2/zoom),
		A("stroke-opacity", 0.6),
	)
	return ring.Add(animate("stroke-opacity", "0.6;0.2;0.6", "2s"))
}

func starGlows(radius float64) []*Node {
	corona := El("circle",
		A("r", radius*StarGlowScale),
		A("fill", "url(#sun-corona)"),
		A("style", "mix-blend-mode:screen"),
	).Add(
		animate("opacity", "0.1;0.3;0.1", "6s"),
		animate("r", scaled(radius, 3.8, 4.2), "8s"),
	)
	glow := El("circle",
		A("r", radius*1.6),
		A("fill", "url(#sun-core)"),
		A("style", "mix-blend-mode:screen"),
	).Add(
		animate("opacity", "0.6;0.8;0.6", "3s"),
		animate("r", scaled(radius, 1.5, 1.7), "3s"),
	)
	return []*Node{corona, glow}
}

func scaled(radius, lo, hi float64) string {
	return fmt.Sprintf("%s;%s;%s", num(radius*lo), num(radius*hi), num(radius*lo))
}

func animate(attr, values, dur string) *Node {
	return El("animate",
		A("attributeName", attr),
		A("values", values),
		A("dur", dur),
		A("repeatCount", "indefinite"),
	)
}

func clipPath(b core.CelestialBody) *Node {
	return El("clipPath", A("id", "clip-"+b.ID)).Add(
		El("circle", A("cx", 0.0), A("cy", 0.0), A("r", b.VisualRadius)),
	)
}

func disc(b core.CelestialBody) *Node {
	r := b.VisualRadius
	if b.HasTexture() {
		return El("image",
			A("href", b.TextureURL),
			A("x", -r),
			A("y", -r),
			A("width", r*2),
			A("height", r*2),
			A("clip-path", "url(#clip-"+b.ID+")"),
			A("preserveAspectRatio", "xMidYMid slice"),
		)
	}
	return El("circle", A("r", r), A("fill", paint(b.Color)))
}

func ringGradient(b core.CelestialBody) *Node {
	rings := b.Rings
	color := paint(rings.Color)
	inner := rings.InnerRadius / rings.OuterRadius
	return El("radialGradient",
		A("id", "ring-gradient-"+b.ID),
		A("cx", 0.0),
		A("cy", 0.0),
		A("r", rings.OuterRadius),
		A("gradientUnits", "userSpaceOnUse"),
		A("gradientTransform", fmt.Sprintf("scale(1, %s)", num(orbit.FlattenRatio))),
	).Add(
		stop(inner, color, rings.Opacity),
		stop(1, color, 0),
	)
}

// ringPath traces the outer then the inner flattened ellipse; evenodd punches the hole.
func ringPath(b core.CelestialBody) *Node {
	rings := b.Rings
	d := ellipseArcs(rings.OuterRadius) + " " + ellipseArcs(rings.InnerRadius)
	return El("path",
		A("d", d),
		A("fill", "url(#ring-gradient-"+b.ID+")"),
		A("fill-rule", "evenodd"),
	)
}

func ellipseArcs(r float64) string {
	ry := num(r * orbit.FlattenRatio)
	rx := num(r)
	return fmt.Sprintf("M %s 0 A %s %s 0 1 0 %s 0 A %s %s 0 1 0 %s 0",
		rx, rx, ry, num(-r), rx, ry, rx)
}

func label(b core.CelestialBody, zoom float64) *Node {
	offset := 12.0
	if b.HasRings() {
		offset = 25
	}
	name := b.Name
	if name == "" {
		name = b.ID
	}
	t := El("text",
		A("x", 0.0),
		A("y", b.VisualRadius+offset/zoom+5),
		A("text-anchor", "middle"),
		A("fill", "white"),
		A("font-size", math.Max(10, 14/zoom)),
		A("font-family", "sans-serif"),
		A("opacity", 0.9),
		A("pointer-events", "none"),
		A("style", "user-select:none;text-shadow:0 1px 2px rgba(0,0,0,0.8)"),
	)
	t.Text = name
	return t
}

func sharedDefs() *Node {
	return El("defs").Add(
		El("radialGradient", A("id", "sphere-shadow"), A("cx", "30%"), A("cy", "30%"), A("r", "70%")).Add(
			stopAt("0%", "white", 0.1),
			stopAt("80%", "black", 0.2),
			stopAt("100%", "black", 0.6),
		),
		El("radialGradient", A("id", "sun-core")).Add(
			stopAt("0%", "#fff7ed", 0.95),
			stopAt("60%", "#fcd34d", 0.5),
			stopAt("100%", "#f59e0b", 0),
		),
		El("radialGradient", A("id", "sun-corona")).Add(
			stopAt("0%", "#f59e0b", 0.4),
			stopAt("40%", "#ea580c", 0.2),
			stopAt("100%", "transparent", 0),
		),
	)
}

func stop(offset float64, color string, opacity float64) *Node {
	return stopAt(num(offset), color, opacity)
}

func stopAt(offset, color string, opacity float64) *Node {
	return El("stop",
		A("offset", offset),
		A("stop-color", color),
		A("stop-opacity", opacity),
	)
}

// paint normalizes a catalog color to lowercase #rrggbb.
func paint(hex string) string {
	c, err := colorful.Hex(hex)
	if err != nil {
		return defaultColor
	}
	return c.Hex()
}
