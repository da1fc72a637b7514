package web

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	ws "github.com/gorilla/websocket"

	"github.com/solaris-viz/solaris/internal/clock"
	"github.com/solaris-viz/solaris/internal/dispatcher"
	"github.com/solaris-viz/solaris/internal/logging"
	"github.com/solaris-viz/solaris/internal/scene"
	"github.com/solaris-viz/solaris/internal/session"
	"github.com/solaris-viz/solaris/pkg/streaming"
)

var errMalformed = errors.New("malformed message")

// handleWS mounts a session for the lifetime of the connection.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// the upgrader has already replied
		s.logger.Debug("WebSocket upgrade failed", "error", err)
		return
	}

	ex, err := s.deps.Sessions.Create()
	if err != nil {
		s.logger.Error("session create failed", "error", err)
		_ = conn.WriteControl(ws.CloseMessage,
			ws.FormatCloseMessage(ws.CloseInternalServerErr, "session unavailable"),
			time.Now().Add(time.Second))
		_ = conn.Close()
		return
	}
	id := ex.ID()
	// records logged with ctx carry the session id through the context handler
	ctx, cancel := context.WithCancel(logging.WithSession(context.Background(), id))
	defer cancel()
	logger := s.logger
	connLogger := s.logger.With("session", id)

	c := newConnection(conn, s.deps.SendBuffer, connLogger)
	s.track(c)
	s.metrics.connOpened()

	driver, err := clock.NewDriver(s.frameFunc(ex, c),
		clock.WithFrameRate(s.frameRate()),
		clock.WithLogger(connLogger),
	)

	defer func() {
		if driver != nil {
			driver.Stop()
		}
		c.close()
		s.untrack(c)
		s.metrics.connClosed()
		s.deps.Sessions.Remove(id)
	}()

	if err != nil {
		logger.ErrorContext(ctx, "frame driver create failed", "error", err)
		return
	}

	if err := c.sendEnvelope(streaming.TypeHello, streaming.HelloPayload{
		Session:   id,
		Speeds:    clock.Speeds,
		FrameRate: s.frameRate(),
	}); err != nil {
		return
	}

	if err := driver.Start(ctx); err != nil {
		logger.ErrorContext(ctx, "frame driver start failed", "error", err)
		return
	}
	go s.forwardNotices(ex, c)

	logger.InfoContext(ctx, "session connected", "remote", r.RemoteAddr)
	s.readLoop(ctx, ex, c, logger)
	logger.InfoContext(ctx, "session disconnected")
}

func (s *Server) frameRate() int {
	if s.deps.FrameRate <= 0 {
		return clock.DefaultFrameRate
	}
	return s.deps.FrameRate
}

// frameFunc advances ex one step per tick and queues the frame. Frames that do
// not fit the send buffer are dropped; the clock still advances.
func (s *Server) frameFunc(ex *session.Explorer, c *connection) clock.FrameFunc {
	var buf bytes.Buffer
	return func(now time.Time) error {
		root := ex.Frame(now)

		buf.Reset()
		if err := scene.EncodeSVG(&buf, root); err != nil {
			return err
		}
		data, err := marshalEnvelope(streaming.TypeFrame, streaming.FramePayload{
			SVG:   buf.String(),
			State: ex.State(),
		})
		if err != nil {
			return err
		}
		s.metrics.frame(c.trySend(data))
		return nil
	}
}

// forwardNotices pushes description_ready notices until the connection closes.
func (s *Server) forwardNotices(ex *session.Explorer, c *connection) {
	for {
		select {
		case <-c.closed():
			return
		case <-ex.NoticeReady():
			for _, n := range ex.Notices() {
				if err := c.sendEnvelope(streaming.TypeDescriptionReady, streaming.DescriptionPayload{
					BodyID: n.BodyID,
					Text:   n.Text,
				}); err != nil {
					return
				}
			}
		}
	}
}

// readLoop dispatches every inbound command for ex and replies with ack or error.
func (s *Server) readLoop(ctx context.Context, ex *session.Explorer, c *connection, logger *slog.Logger) {
	for {
		env, err := c.readEnvelope()
		if err != nil {
			if errors.Is(err, errMalformed) {
				_ = c.sendEnvelope(streaming.TypeError, streaming.ErrorMessage{Message: err.Error()})
				continue
			}
			if ws.IsUnexpectedCloseError(err, ws.CloseGoingAway, ws.CloseNormalClosure, ws.CloseNoStatusReceived) {
				logger.WarnContext(ctx, "WebSocket read error", "error", err)
			}
			return
		}

		result, err := s.deps.Dispatcher.Dispatch(dispatcher.Event{
			Command: env.Type,
			Session: ex.ID(),
			Payload: env.Payload,
		})

		label := env.Type
		if !s.deps.Dispatcher.HasHandler(label) {
			label = "unknown"
		}
		s.metrics.command(label, err)

		if err != nil {
			_ = c.sendEnvelope(streaming.TypeError, streaming.ErrorMessage{For: env.Type, Message: err.Error()})
			continue
		}
		// pointer moves are too frequent to acknowledge; only clicks are
		if env.Type == streaming.TypePointer && result == nil {
			continue
		}
		_ = c.sendEnvelope(streaming.TypeAck, streaming.AckMessage{For: env.Type, Result: result})
	}
}

func (s *Server) track(c *connection) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conns[c] = struct{}{}
}

func (s *Server) untrack(c *connection) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.conns, c)
}

// Connections returns the number of open WebSockets.
func (s *Server) Connections() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.conns)
}

// Close disconnects every WebSocket. Each connection's handler then stops its
// frame loop and unmounts its session.
func (s *Server) Close() {
	s.mu.Lock()
	conns := make([]*connection, 0, len(s.conns))
	for c := range s.conns {
		conns = append(conns, c)
	}
	s.mu.Unlock()

	for _, c := range conns {
		c.close()
	}
}
