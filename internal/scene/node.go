// Package scene builds the per-frame scene graph (starfield, orbit guides, bodies,
// rings, moons, labels) and serializes it as SVG.
package scene

import (
	"math"
	"strconv"
)

// Attr is one ordered attribute.
type Attr struct {
	Name  string
	Value string
}

// Node is a scene-graph element. Groups carry local transforms; children are owned,
// there are no parent pointers.
type Node struct {
	Tag      string
	Attrs    []Attr
	Children []*Node
	Text     string

	// BodyID marks the node as the click target of a body.
	BodyID string
}

// El creates a node.
func El(tag string, attrs ...Attr) *Node {
	return &Node{Tag: tag, Attrs: attrs}
}

// A builds an attribute from a string or number.
func A(name string, v any) Attr {
	switch x := v.(type) {
	case string:
		return Attr{Name: name, Value: x}
	case float64:
		return Attr{Name: name, Value: num(x)}
	case int:
		return Attr{Name: name, Value: strconv.Itoa(x)}
	default:
		panic("scene: unsupported attribute type")
	}
}

// Add appends children and returns n.
func (n *Node) Add(children ...*Node) *Node {
	for _, c := range children {
		if c != nil {
			n.Children = append(n.Children, c)
		}
	}
	return n
}

// Attr looks up an attribute value.
func (n *Node) Attr(name string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// Walk visits n and its descendants depth-first. Returning false skips children.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// FindBody returns the click-target group of a body.
func (n *Node) FindBody(id string) *Node {
	var found *Node
	n.Walk(func(c *Node) bool {
		if found != nil {
			return false
		}
		if c.BodyID == id {
			found = c
			return false
		}
		return true
	})
	return found
}

// FindAll returns every node with the given tag.
func (n *Node) FindAll(tag string) []*Node {
	var out []*Node
	n.Walk(func(c *Node) bool {
		if c.Tag == tag {
			out = append(out, c)
		}
		return true
	})
	return out
}

// num formats a coordinate with at most four decimals.
func num(v float64) string {
	r := math.Round(v*1e4) / 1e4
	if r == 0 {
		return "0"
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}
