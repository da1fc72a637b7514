// Package monitor periodically samples session statistics, logs them and forwards
// them to the telemetry sink.
package monitor

import (
	"context"
	"log/slog"
	"sync"
	"time"

	influxdb2_write "github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/solaris-viz/solaris/internal/influx"
	"github.com/solaris-viz/solaris/internal/session"
)

const measurement = "solaris_sessions"

// Source is the part of the session registry the monitor reads.
type Source interface {
	Len() int
	Stats() session.Stats
}

// Sink receives one point per sample. *influx.Manager implements it.
type Sink interface {
	WritePoint(ctx context.Context, point *influxdb2_write.Point) error
}

// Dependencies holds all dependencies for the monitor service
type Dependencies struct {
	Source   Source
	Sink     Sink
	Logger   *slog.Logger
	Interval time.Duration
}

// Snapshot is one sample. Rates are per second since the previous sample.
type Snapshot struct {
	Time          time.Time
	Sessions      int
	Frames        uint64
	Fetches       uint64
	StaleFetches  uint64
	DroppedNotice uint64
	FrameRate     float64
}

// Service manages the sampling loop
type Service struct {
	deps Dependencies

	mu        sync.RWMutex
	isRunning bool
	cancel    context.CancelFunc
	done      chan struct{}
	last      Snapshot
}

// NewService creates a new monitor service
func NewService(deps Dependencies) *Service {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Interval <= 0 {
		deps.Interval = 30 * time.Second
	}
	deps.Logger = deps.Logger.With("component", "monitor")
	return &Service{deps: deps}
}

// IsRunning returns whether the sampling loop is running
func (s *Service) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// Last returns the most recent sample.
func (s *Service) Last() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.last
}

// Sample takes one snapshot, logs it and writes it to the sink.
func (s *Service) Sample(ctx context.Context, now time.Time) Snapshot {
	stats := s.deps.Source.Stats()
	snap := Snapshot{
		Time:          now,
		Sessions:      s.deps.Source.Len(),
		Frames:        stats.Frames,
		Fetches:       stats.Fetches,
		StaleFetches:  stats.StaleFetches,
		DroppedNotice: stats.DroppedNotice,
	}

	s.mu.Lock()
	prev := s.last
	if !prev.Time.IsZero() && now.After(prev.Time) && snap.Frames >= prev.Frames {
		snap.FrameRate = float64(snap.Frames-prev.Frames) / now.Sub(prev.Time).Seconds()
	}
	s.last = snap
	s.mu.Unlock()

	s.deps.Logger.Debug("session stats",
		"sessions", snap.Sessions,
		"frames", snap.Frames,
		"fetches", snap.Fetches,
		"staleFetches", snap.StaleFetches,
		"droppedNotices", snap.DroppedNotice,
		"frameRate", snap.FrameRate,
	)

	if s.deps.Sink != nil {
		if err := s.deps.Sink.WritePoint(ctx, Point(snap)); err != nil {
			s.deps.Logger.Error("Error writing stats point", "error", err)
		}
	}
	return snap
}

// Point converts a snapshot to an Influx point.
func Point(snap Snapshot) *influxdb2_write.Point {
	return influx.NewPoint(measurement, nil, map[string]any{
		"sessions":        snap.Sessions,
		"frames":          snap.Frames,
		"fetches":         snap.Fetches,
		"stale_fetches":   snap.StaleFetches,
		"dropped_notices": snap.DroppedNotice,
		"frame_rate":      snap.FrameRate,
	}, snap.Time)
}

// Start starts the sampling goroutine
func (s *Service) Start(ctx context.Context) {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return
	}
	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})
	s.isRunning = true
	done := s.done
	s.mu.Unlock()

	go func() {
		defer func() {
			s.mu.Lock()
			s.isRunning = false
			s.mu.Unlock()
			close(done)
		}()

		s.deps.Logger.Debug("Starting monitor", "interval", s.deps.Interval)
		ticker := time.NewTicker(s.deps.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				s.Sample(ctx, now)
			}
		}
	}()
}

// Stop stops the sampling loop and waits for it to exit
func (s *Service) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}
