package streaming

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEnvelope(t *testing.T) {
	env, err := NewEnvelope(TypeDescriptionReady, DescriptionPayload{BodyID: "earth", Text: "blue"})
	require.NoError(t, err)

	raw, err := json.Marshal(env)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"description_ready","payload":{"bodyId":"earth","text":"blue"}}`, string(raw))

	empty, err := NewEnvelope(TypeDeselect, nil)
	require.NoError(t, err)
	raw, _ = json.Marshal(empty)
	assert.JSONEq(t, `{"type":"deselect"}`, string(raw))

	_, err = NewEnvelope(TypeFrame, func() {})
	assert.Error(t, err)
}

func TestPointerPayload_Decode(t *testing.T) {
	var p PointerPayload
	require.NoError(t, json.Unmarshal([]byte(`{"kind":"touch","phase":"move","touches":[{"x":3,"y":4}]}`), &p))

	assert.Equal(t, "touch", p.Kind)
	require.Len(t, p.Touches, 1)
	assert.Equal(t, 4.0, p.Touches[0].Y)
}
