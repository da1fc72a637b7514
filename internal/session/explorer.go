// Package session composes the engine into one explorer per rendering surface.
// All mutable state of an explorer is guarded by a single mutex; the frame loop,
// input handlers and description callbacks take turns on it.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/solaris-viz/solaris/internal/camera"
	"github.com/solaris-viz/solaris/internal/catalog"
	"github.com/solaris-viz/solaris/internal/clock"
	"github.com/solaris-viz/solaris/internal/describe"
	"github.com/solaris-viz/solaris/internal/pointer"
	"github.com/solaris-viz/solaris/internal/queue"
	"github.com/solaris-viz/solaris/internal/scene"
	"github.com/solaris-viz/solaris/internal/selection"
	"github.com/solaris-viz/solaris/pkg/core"
)

// ErrUnknownBody is returned when selecting an id the catalog does not know.
var ErrUnknownBody = errors.New("unknown body")

// NoticeDescriptionReady is pushed when a description arrives for the current selection.
const NoticeDescriptionReady = "description_ready"

// Notice is an event the transport forwards to the surface outside the frame stream.
type Notice struct {
	Type   string `json:"type"`
	BodyID string `json:"bodyId"`
	Text   string `json:"text"`
}

// Options configure a new explorer.
type Options struct {
	InitialZoom  float64
	InitialSpeed float64
	Fallback     camera.Size
	StarCount    int
	StarSeed     uint64
	NoticeLimit  int
}

// DefaultOptions matches the initial state of the page: zoom 0.8, speed 1, running.
func DefaultOptions() Options {
	return Options{
		InitialZoom:  0.8,
		InitialSpeed: 1,
		Fallback:     camera.Size{Width: 1280, Height: 800},
		StarCount:    scene.DefaultStarCount,
		NoticeLimit:  16,
	}
}

// Validate reports options every explorer would reject at mount time.
func (o Options) Validate() error {
	if _, err := clock.New(o.InitialSpeed); err != nil {
		return fmt.Errorf("initial speed: %w", err)
	}
	return nil
}

// Explorer is one mounted solar-system view.
type Explorer struct {
	id     string
	logger *slog.Logger

	catalog  *catalog.Catalog
	renderer *scene.Renderer
	describe *describe.Service
	notices  *queue.Queue[Notice]

	mu        sync.Mutex
	clock     *clock.Clock
	viewport  *camera.Viewport
	pointer   pointer.Controller
	selection selection.State
	insight   string
	loading   bool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	frames  atomic.Uint64
	fetches atomic.Uint64
	stale   atomic.Uint64
}

// New mounts an explorer. desc may be nil, in which case descriptions fall back
// to the not-configured message.
func New(id string, cat *catalog.Catalog, desc *describe.Service, opts Options, logger *slog.Logger) (*Explorer, error) {
	if cat == nil {
		return nil, errors.New("session: catalog is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if desc == nil {
		desc = describe.NewService(nil, nil, logger)
	}

	clk, err := clock.New(opts.InitialSpeed)
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", id, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Explorer{
		id:       id,
		logger:   logger.With("session", id),
		catalog:  cat,
		renderer: scene.NewRenderer(cat, scene.NewStarfield(opts.StarCount, opts.StarSeed)),
		describe: desc,
		notices:  queue.New[Notice](opts.NoticeLimit),
		clock:    clk,
		viewport: camera.New(opts.InitialZoom, opts.Fallback),
		ctx:      ctx,
		cancel:   cancel,
	}, nil
}

// ID returns the session id.
func (e *Explorer) ID() string {
	return e.id
}

// TogglePlay flips between running and paused and returns the new running state.
func (e *Explorer) TogglePlay() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.clock.Toggle()
}

// SetSpeed selects one of clock.Speeds. It takes effect on the next frame.
func (e *Explorer) SetSpeed(speed float64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.clock.SetSpeed(speed)
}

// Zoom changes the zoom by delta and returns the clamped result.
func (e *Explorer) Zoom(delta float64) float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.viewport.ZoomBy(delta)
}

// ResetTime sets simulated time back to 0.
func (e *Explorer) ResetTime() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.clock.Reset()
}

// Resize records the surface size in pixels. Safe to call redundantly.
func (e *Explorer) Resize(width, height float64) camera.Size {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.viewport.Resize(width, height)
}

// Pointer feeds one input into the drag/click machine. A release that qualifies as
// a click on a body selects it; the selected id is returned.
func (e *Explorer) Pointer(in pointer.Input) (string, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.pointer.Handle(in, e.viewport) || in.Phase != pointer.Up {
		return "", false
	}

	at := e.pointer.Last()
	id, hit := e.pointer.Click(func() (string, bool) {
		world := e.viewport.ScreenToWorld(at.X, at.Y)
		return scene.HitTest(scene.Layout(e.catalog, e.clock.SimulatedTime()), world)
	})
	if !hit {
		return "", false
	}

	body, _ := e.catalog.Lookup(id)
	e.selectLocked(body)
	return id, true
}

// Select makes id the selected body and starts fetching its description.
func (e *Explorer) Select(id string) error {
	body, ok := e.catalog.Lookup(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownBody, id)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.selectLocked(body)
	return nil
}

func (e *Explorer) selectLocked(body core.CelestialBody) {
	if e.selection.Is(body.ID) {
		return
	}

	gen := e.selection.Select(body.ID)
	e.insight = ""
	e.loading = true
	e.fetches.Add(1)

	e.wg.Add(1)
	go e.fetch(body, gen)
}

// fetch runs outside the lock. Its result is applied only while gen is still current.
func (e *Explorer) fetch(body core.CelestialBody, gen uint64) {
	defer e.wg.Done()

	text := e.describe.FetchDescription(e.ctx, body)

	e.mu.Lock()
	current := e.selection.IsCurrent(gen)
	if current {
		e.insight = text
		e.loading = false
	}
	e.mu.Unlock()

	if !current {
		e.stale.Add(1)
		e.logger.Debug("dropped stale description", "body", body.ID, "generation", gen)
		return
	}
	e.notices.Push(Notice{Type: NoticeDescriptionReady, BodyID: body.ID, Text: text})
}

// Deselect clears the selection. Pending descriptions become stale.
func (e *Explorer) Deselect() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.selection.Clear()
	e.insight = ""
	e.loading = false
}

// Frame advances the clock to now and renders.
func (e *Explorer) Frame(now time.Time) *scene.Node {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.clock.Advance(now)
	e.frames.Add(1)
	return e.renderLocked()
}

// Render draws the current state without advancing time.
func (e *Explorer) Render() *scene.Node {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.renderLocked()
}

// RenderSVG writes the current frame as SVG.
func (e *Explorer) RenderSVG(w io.Writer) error {
	return scene.EncodeSVG(w, e.Render())
}

func (e *Explorer) renderLocked() *scene.Node {
	selected, _ := e.selection.Selected()
	return e.renderer.Render(scene.Frame{
		Time:       e.clock.SimulatedTime(),
		ViewBox:    e.viewport.ViewBox(),
		Zoom:       e.viewport.Zoom(),
		SelectedID: selected,
	})
}

// Notices drains pending notices.
func (e *Explorer) Notices() []Notice {
	return e.notices.Drain()
}

// NoticeReady fires when notices are waiting.
func (e *Explorer) NoticeReady() <-chan struct{} {
	return e.notices.Ready()
}

// Close cancels in-flight description fetches and waits for them.
func (e *Explorer) Close() {
	e.cancel()
	e.wg.Wait()
}

// Panel is the info-panel view model of the selected body.
type Panel struct {
	Body        core.CelestialBody `json:"body"`
	Parent      string             `json:"parent,omitempty"`
	PeriodLabel string             `json:"periodLabel"`
	MoonCount   int                `json:"moonCount"`
	Loading     bool               `json:"loading"`
	Insight     string             `json:"insight"`
}

// PeriodLabel renders an orbital period for display.
func PeriodLabel(period float64) string {
	if period == 0 {
		return "N/A"
	}
	return strconv.FormatFloat(period, 'f', -1, 64) + " Earth years"
}

// Panel returns the view model of the selected body.
func (e *Explorer) Panel() (Panel, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.panelLocked()
}

func (e *Explorer) panelLocked() (Panel, bool) {
	id, ok := e.selection.Selected()
	if !ok {
		return Panel{}, false
	}
	body, _ := e.catalog.Lookup(id)

	p := Panel{
		Body:        body,
		PeriodLabel: PeriodLabel(body.Period),
		MoonCount:   len(body.Moons),
		Loading:     e.loading,
		Insight:     e.insight,
	}
	if parent, ok := e.catalog.Parent(id); ok {
		p.Parent = parent.Name
	}
	return p, true
}

// State is a snapshot of everything the controls display.
type State struct {
	ID         string    `json:"id"`
	Time       float64   `json:"time"`
	Speed      float64   `json:"speed"`
	Running    bool      `json:"running"`
	Zoom       float64   `json:"zoom"`
	Pan        core.Vec2 `json:"pan"`
	ViewBox    core.Rect `json:"viewBox"`
	Width      float64   `json:"width"`
	Height     float64   `json:"height"`
	Dragging   bool      `json:"dragging"`
	SelectedID string    `json:"selectedId,omitempty"`
	Panel      *Panel    `json:"panel,omitempty"`
	Speeds     []float64 `json:"speeds"`
}

// State returns a snapshot.
func (e *Explorer) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()

	size := e.viewport.Size()
	s := State{
		ID:       e.id,
		Time:     e.clock.SimulatedTime(),
		Speed:    e.clock.Speed(),
		Running:  e.clock.Running(),
		Zoom:     e.viewport.Zoom(),
		Pan:      e.viewport.Pan(),
		ViewBox:  e.viewport.ViewBox(),
		Width:    size.Width,
		Height:   size.Height,
		Dragging: e.pointer.Dragging(),
		Speeds:   clock.Speeds,
	}
	if p, ok := e.panelLocked(); ok {
		s.SelectedID = p.Body.ID
		s.Panel = &p
	}
	return s
}

// Stats are the counters the monitor reports.
type Stats struct {
	Frames        uint64
	Fetches       uint64
	StaleFetches  uint64
	DroppedNotice uint64
}

func (s Stats) add(o Stats) Stats {
	return Stats{
		Frames:        s.Frames + o.Frames,
		Fetches:       s.Fetches + o.Fetches,
		StaleFetches:  s.StaleFetches + o.StaleFetches,
		DroppedNotice: s.DroppedNotice + o.DroppedNotice,
	}
}

// sub assumes o was taken earlier from the same monotonic counters.
func (s Stats) sub(o Stats) Stats {
	return Stats{
		Frames:        s.Frames - o.Frames,
		Fetches:       s.Fetches - o.Fetches,
		StaleFetches:  s.StaleFetches - o.StaleFetches,
		DroppedNotice: s.DroppedNotice - o.DroppedNotice,
	}
}

// Stats returns counters since the explorer was mounted.
func (e *Explorer) Stats() Stats {
	return Stats{
		Frames:        e.frames.Load(),
		Fetches:       e.fetches.Load(),
		StaleFetches:  e.stale.Load(),
		DroppedNotice: e.notices.Dropped(),
	}
}
