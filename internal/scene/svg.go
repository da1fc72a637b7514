package scene

import (
	"bufio"
	"encoding/xml"
	"io"
)

// EncodeSVG writes the scene graph as SVG markup. Output is deterministic for a given graph.
func EncodeSVG(w io.Writer, root *Node) error {
	bw := bufio.NewWriter(w)
	if err := encode(bw, root); err != nil {
		return err
	}
	return bw.Flush()
}

func encode(w *bufio.Writer, n *Node) error {
	w.WriteByte('<')
	w.WriteString(n.Tag)
	for _, a := range n.Attrs {
		if err := writeAttr(w, a.Name, a.Value); err != nil {
			return err
		}
	}
	if n.BodyID != "" {
		if err := writeAttr(w, "data-body", n.BodyID); err != nil {
			return err
		}
	}

	if len(n.Children) == 0 && n.Text == "" {
		_, err := w.WriteString("/>")
		return err
	}
	w.WriteByte('>')

	if n.Text != "" {
		if err := xml.EscapeText(w, []byte(n.Text)); err != nil {
			return err
		}
	}
	for _, c := range n.Children {
		if err := encode(w, c); err != nil {
			return err
		}
	}

	w.WriteString("</")
	w.WriteString(n.Tag)
	_, err := w.WriteString(">")
	return err
}

func writeAttr(w *bufio.Writer, name, value string) error {
	w.WriteByte(' ')
	w.WriteString(name)
	w.WriteString(`="`)
	if err := xml.EscapeText(w, []byte(value)); err != nil {
		return err
	}
	_, err := w.WriteString(`"`)
	return err
}
