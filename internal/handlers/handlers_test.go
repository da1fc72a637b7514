package handlers

import (
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solaris-viz/solaris/internal/camera"
	"github.com/solaris-viz/solaris/internal/catalog"
	"github.com/solaris-viz/solaris/internal/clock"
	"github.com/solaris-viz/solaris/internal/dispatcher"
	"github.com/solaris-viz/solaris/internal/session"
	"github.com/solaris-viz/solaris/pkg/streaming"
)

func setup(t *testing.T) (*dispatcher.Dispatcher, *session.Explorer) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	reg := session.NewRegistry(catalog.Default(), nil, session.DefaultOptions(), logger)
	t.Cleanup(reg.Close)

	d, err := dispatcher.New(logger)
	require.NoError(t, err)
	t.Cleanup(d.Close)

	Register(d, reg, logger)

	ex, err := reg.Create()
	require.NoError(t, err)
	return d, ex
}

func send(d *dispatcher.Dispatcher, ex *session.Explorer, cmd, payload string) (any, error) {
	e := dispatcher.Event{Command: cmd, Session: ex.ID()}
	if payload != "" {
		e.Payload = json.RawMessage(payload)
	}
	return d.Dispatch(e)
}

func TestRegisterHandlers_AllCommands(t *testing.T) {
	d, _ := setup(t)
	assert.Equal(t, []string{
		"deselect", "pointer", "reset_time", "resize", "select", "set_speed", "toggle_play", "zoom",
	}, d.Commands())
}

func TestTogglePlayAndSpeed(t *testing.T) {
	d, ex := setup(t)

	res, err := send(d, ex, streaming.TypeTogglePlay, "")
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"running": false}, res)

	_, err = send(d, ex, streaming.TypeSetSpeed, `{"speed":50}`)
	require.NoError(t, err)
	assert.Equal(t, 50.0, ex.State().Speed)

	_, err = send(d, ex, streaming.TypeSetSpeed, `{"speed":2}`)
	assert.ErrorIs(t, err, clock.ErrInvalidSpeed)
}

func TestZoomAndReset(t *testing.T) {
	d, ex := setup(t)

	res, err := send(d, ex, streaming.TypeZoom, `{"delta":-0.2}`)
	require.NoError(t, err)
	assert.InDelta(t, 0.6, res.(map[string]float64)["zoom"], 1e-12)

	now := time.Now()
	ex.Frame(now)
	ex.Frame(now.Add(time.Second))
	require.Greater(t, ex.State().Time, 0.0)

	_, err = send(d, ex, streaming.TypeResetTime, "")
	require.NoError(t, err)
	assert.Equal(t, 0.0, ex.State().Time)
}

func TestSelectAndDeselect(t *testing.T) {
	d, ex := setup(t)

	_, err := send(d, ex, streaming.TypeSelect, `{"id":"saturn"}`)
	require.NoError(t, err)
	assert.Equal(t, "saturn", ex.State().SelectedID)

	_, err = send(d, ex, streaming.TypeSelect, `{"id":"pluto"}`)
	assert.ErrorIs(t, err, session.ErrUnknownBody)

	_, err = send(d, ex, streaming.TypeDeselect, "")
	require.NoError(t, err)
	assert.Empty(t, ex.State().SelectedID)
}

func TestPointerClick(t *testing.T) {
	d, ex := setup(t)
	ex.Resize(1000, 800)

	_, err := send(d, ex, streaming.TypePointer, `{"kind":"mouse","phase":"down","x":500,"y":400}`)
	require.NoError(t, err)
	res, err := send(d, ex, streaming.TypePointer, `{"kind":"mouse","phase":"up"}`)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"selected": "sun"}, res)

	_, err = send(d, ex, streaming.TypePointer, `{"kind":"pen","phase":"down"}`)
	assert.Error(t, err)
	_, err = send(d, ex, streaming.TypePointer, `{"kind":"touch","phase":"hover"}`)
	assert.Error(t, err)
}

func TestResizeQueued(t *testing.T) {
	d, ex := setup(t)

	res, err := send(d, ex, streaming.TypeResize, `{"width":640,"height":480}`)
	require.NoError(t, err)
	assert.Equal(t, "queued", res)

	assert.Eventually(t, func() bool {
		return ex.State().Width == 640
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, camera.Size{Width: 640, Height: 480}, camera.Size{Width: ex.State().Width, Height: ex.State().Height})
}

func TestUnknownSession(t *testing.T) {
	d, _ := setup(t)

	_, err := d.Dispatch(dispatcher.Event{Command: streaming.TypeZoom, Session: "nope"})
	assert.ErrorIs(t, err, ErrUnknownSession)
}

func TestBadPayload(t *testing.T) {
	d, ex := setup(t)

	_, err := send(d, ex, streaming.TypeZoom, `{"delta":"lots"}`)
	assert.Error(t, err)
}
