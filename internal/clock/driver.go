package clock

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/solaris-viz/solaris/internal/clock"

// DefaultFrameRate is used when no rate is configured.
const DefaultFrameRate = 30

// ErrAlreadyRunning is returned by Start on an active driver.
var ErrAlreadyRunning = errors.New("frame driver already running")

// FrameFunc renders one frame for the given timestamp.
type FrameFunc func(now time.Time) error

// Option configures a Driver.
type Option func(*Driver)

// WithFrameRate sets frames per second.
func WithFrameRate(fps int) Option {
	return func(d *Driver) {
		if fps > 0 {
			d.interval = time.Second / time.Duration(fps)
		}
	}
}

// WithLogger sets the logger used for frame failures.
func WithLogger(l *slog.Logger) Option {
	return func(d *Driver) {
		if l != nil {
			d.logger = l
		}
	}
}

// Driver is the handle on a session's frame loop. One goroutine calls the frame
// function on every tick; Stop cancels it.
type Driver struct {
	frame    FrameFunc
	interval time.Duration
	logger   *slog.Logger

	frames   metric.Int64Counter
	failures metric.Int64Counter

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewDriver creates a stopped driver.
// Uses the global OTel meter for metrics (no-op if not configured).
func NewDriver(frame FrameFunc, opts ...Option) (*Driver, error) {
	d := &Driver{
		frame:    frame,
		interval: time.Second / DefaultFrameRate,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}

	m := otel.Meter(instrumentationName)

	var err error
	d.frames, err = m.Int64Counter(
		"clock.frames",
		metric.WithDescription("Total frames driven"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating frames counter: %w", err)
	}

	d.failures, err = m.Int64Counter(
		"clock.frame.failures",
		metric.WithDescription("Frames that returned an error or panicked"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating failures counter: %w", err)
	}

	return d, nil
}

// Interval returns the tick interval.
func (d *Driver) Interval() time.Duration {
	return d.interval
}

// Start launches the frame loop. It ends when ctx is done or Stop is called.
func (d *Driver) Start(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.cancel != nil {
		return ErrAlreadyRunning
	}

	ctx, cancel := context.WithCancel(ctx)
	d.cancel = cancel
	d.done = make(chan struct{})

	go d.run(ctx, d.done)
	return nil
}

func (d *Driver) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			// Step logs failures; the loop keeps going regardless.
			_ = d.Step(now)
		}
	}
}

// Stop cancels the loop and waits for it to exit. Safe to call more than once.
func (d *Driver) Stop() {
	d.mu.Lock()
	cancel, done := d.cancel, d.done
	d.cancel = nil
	d.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Running reports whether the loop is active.
func (d *Driver) Running() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cancel != nil
}

// Done is closed when the most recently started loop has exited.
func (d *Driver) Done() <-chan struct{} {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.done == nil {
		closed := make(chan struct{})
		close(closed)
		return closed
	}
	return d.done
}

// Step runs a single frame synchronously. Panics inside the frame are recovered
// and reported as errors.
func (d *Driver) Step(now time.Time) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("frame panicked: %v", r)
		}
		d.frames.Add(context.Background(), 1)
		if err != nil {
			d.failures.Add(context.Background(), 1)
			d.logger.Error("frame failed", "error", err)
		}
	}()

	return d.frame(now)
}
