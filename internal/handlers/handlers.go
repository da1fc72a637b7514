// Package handlers binds the control commands of a rendering surface to its session.
package handlers

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/solaris-viz/solaris/internal/dispatcher"
	"github.com/solaris-viz/solaris/internal/pointer"
	"github.com/solaris-viz/solaris/internal/session"
	"github.com/solaris-viz/solaris/pkg/core"
	"github.com/solaris-viz/solaris/pkg/streaming"
)

// ErrUnknownSession is returned for commands addressed to a session that is not mounted.
var ErrUnknownSession = errors.New("unknown session")

// Dependencies holds all dependencies needed by handlers
type Dependencies struct {
	Sessions *session.Registry
	Logger   *slog.Logger
}

// Service provides the command handlers.
type Service struct {
	deps Dependencies
}

// NewService creates a new handler service
func NewService(deps Dependencies) *Service {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	return &Service{deps: deps}
}

// Register binds every control command of reg's sessions on d.
func Register(d *dispatcher.Dispatcher, reg *session.Registry, logger *slog.Logger) *Service {
	s := NewService(Dependencies{Sessions: reg, Logger: logger})
	s.RegisterHandlers(d)
	return s
}

// RegisterHandlers registers all command handlers with the dispatcher.
func (s *Service) RegisterHandlers(d *dispatcher.Dispatcher) {
	// Clock and camera controls - sync, the next frame must see them
	d.Register(streaming.TypeTogglePlay, s.handleTogglePlay, dispatcher.Logged())
	d.Register(streaming.TypeSetSpeed, s.handleSetSpeed, dispatcher.Logged())
	d.Register(streaming.TypeZoom, s.handleZoom, dispatcher.Logged())
	d.Register(streaming.TypeResetTime, s.handleResetTime, dispatcher.Logged())

	// Selection - sync
	d.Register(streaming.TypeSelect, s.handleSelect, dispatcher.Logged())
	d.Register(streaming.TypeDeselect, s.handleDeselect, dispatcher.Logged())

	// High-volume pointer input - sync and unlogged, order matters within a gesture
	d.Register(streaming.TypePointer, s.handlePointer)

	// Resize is idempotent - buffered
	d.Register(streaming.TypeResize, s.handleResize, dispatcher.Buffered(256), dispatcher.Logged())
}

func (s *Service) session(e dispatcher.Event) (*session.Explorer, error) {
	ex, ok := s.deps.Sessions.Get(e.Session)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSession, e.Session)
	}
	return ex, nil
}

func (s *Service) handleTogglePlay(e dispatcher.Event) (any, error) {
	ex, err := s.session(e)
	if err != nil {
		return nil, err
	}
	return map[string]bool{"running": ex.TogglePlay()}, nil
}

func (s *Service) handleSetSpeed(e dispatcher.Event) (any, error) {
	ex, err := s.session(e)
	if err != nil {
		return nil, err
	}
	var p streaming.SetSpeedPayload
	if err := e.Decode(&p); err != nil {
		return nil, err
	}
	if err := ex.SetSpeed(p.Speed); err != nil {
		return nil, err
	}
	return map[string]float64{"speed": p.Speed}, nil
}

func (s *Service) handleZoom(e dispatcher.Event) (any, error) {
	ex, err := s.session(e)
	if err != nil {
		return nil, err
	}
	var p streaming.ZoomPayload
	if err := e.Decode(&p); err != nil {
		return nil, err
	}
	return map[string]float64{"zoom": ex.Zoom(p.Delta)}, nil
}

func (s *Service) handleResetTime(e dispatcher.Event) (any, error) {
	ex, err := s.session(e)
	if err != nil {
		return nil, err
	}
	ex.ResetTime()
	return nil, nil
}

func (s *Service) handleSelect(e dispatcher.Event) (any, error) {
	ex, err := s.session(e)
	if err != nil {
		return nil, err
	}
	var p streaming.SelectPayload
	if err := e.Decode(&p); err != nil {
		return nil, err
	}
	if err := ex.Select(p.ID); err != nil {
		return nil, err
	}
	return map[string]string{"selected": p.ID}, nil
}

func (s *Service) handleDeselect(e dispatcher.Event) (any, error) {
	ex, err := s.session(e)
	if err != nil {
		return nil, err
	}
	ex.Deselect()
	return nil, nil
}

func (s *Service) handlePointer(e dispatcher.Event) (any, error) {
	ex, err := s.session(e)
	if err != nil {
		return nil, err
	}
	var p streaming.PointerPayload
	if err := e.Decode(&p); err != nil {
		return nil, err
	}

	in, err := toInput(p)
	if err != nil {
		return nil, err
	}
	if id, ok := ex.Pointer(in); ok {
		s.deps.Logger.Debug("body clicked", "session", e.Session, "body", id)
		return map[string]string{"selected": id}, nil
	}
	return nil, nil
}

func (s *Service) handleResize(e dispatcher.Event) (any, error) {
	ex, err := s.session(e)
	if err != nil {
		return nil, err
	}
	var p streaming.ResizePayload
	if err := e.Decode(&p); err != nil {
		return nil, err
	}
	return ex.Resize(p.Width, p.Height), nil
}

func toInput(p streaming.PointerPayload) (pointer.Input, error) {
	in := pointer.Input{
		Kind:  pointer.Kind(p.Kind),
		Phase: pointer.Phase(p.Phase),
		X:     p.X,
		Y:     p.Y,
	}

	switch in.Kind {
	case pointer.Mouse, pointer.Touch:
	default:
		return pointer.Input{}, fmt.Errorf("pointer: unsupported kind %q", p.Kind)
	}
	switch in.Phase {
	case pointer.Down, pointer.Move, pointer.Up, pointer.Leave:
	default:
		return pointer.Input{}, fmt.Errorf("pointer: unsupported phase %q", p.Phase)
	}

	for _, t := range p.Touches {
		in.Touches = append(in.Touches, touchPoint(t))
	}
	return in, nil
}

func touchPoint(v core.Vec2) pointer.Point {
	return pointer.Point{X: v.X, Y: v.Y}
}
