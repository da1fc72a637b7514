package scene

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeSVG(t *testing.T) {
	text := El("text", A("x", 1.5))
	text.Text = "A & B"
	group := El("g", A("title", `x<y "q"`))
	group.BodyID = "b1"

	root := El("svg").Add(group.Add(text), El("g"))

	var buf bytes.Buffer
	require.NoError(t, EncodeSVG(&buf, root))
	assert.Equal(t,
		`<svg><g title="x&lt;y &#34;q&#34;" data-body="b1"><text x="1.5">A &amp; B</text></g><g/></svg>`,
		buf.String())
}

func TestNum(t *testing.T) {
	assert.Equal(t, "0", num(-0.00001))
	assert.Equal(t, "1.2346", num(1.23456))
	assert.Equal(t, "2", num(2))
	assert.Equal(t, "-42", num(-42))
}

func TestNode_AddSkipsNil(t *testing.T) {
	n := El("g").Add(nil, El("circle"))
	assert.Len(t, n.Children, 1)
	assert.Nil(t, n.FindBody("missing"))
}
