package web

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	ws "github.com/gorilla/websocket"

	"github.com/solaris-viz/solaris/pkg/streaming"
)

const (
	defaultSendBuffer = 8
	writeWait         = 10 * time.Second
	pongWait          = 60 * time.Second
	pingPeriod        = pongWait * 9 / 10
	maxMessageSize    = 64 << 10
)

// connection owns one upgraded WebSocket. All writes go through a single
// write goroutine; readers call readEnvelope from the serving goroutine.
type connection struct {
	conn   *ws.Conn
	sendCh chan []byte
	done   chan struct{} // closed on shutdown
	once   sync.Once

	logger *slog.Logger
}

func newConnection(conn *ws.Conn, buffer int, logger *slog.Logger) *connection {
	if buffer <= 0 {
		buffer = defaultSendBuffer
	}
	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	c := &connection{
		conn:   conn,
		sendCh: make(chan []byte, buffer),
		done:   make(chan struct{}),
		logger: logger,
	}
	go c.writeLoop()
	return c
}

// writeLoop drains sendCh and pings the peer. It returns on error or shutdown.
func (c *connection) writeLoop() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case data := <-c.sendCh:
			if err := c.write(ws.TextMessage, data); err != nil {
				c.logger.Debug("WebSocket write error", "error", err)
				c.close()
				return
			}
		case <-ticker.C:
			if err := c.write(ws.PingMessage, nil); err != nil {
				c.logger.Debug("WebSocket ping error", "error", err)
				c.close()
				return
			}
		}
	}
}

func (c *connection) write(kind int, data []byte) error {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.conn.WriteMessage(kind, data)
}

// trySend queues data without blocking. It reports false when the buffer is full
// or the connection is closed.
func (c *connection) trySend(data []byte) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.sendCh <- data:
		return true
	default:
		return false
	}
}

// send queues data, waiting for room until the connection closes.
func (c *connection) send(data []byte) bool {
	select {
	case c.sendCh <- data:
		return true
	case <-c.done:
		return false
	}
}

// sendEnvelope marshals payload into an Envelope and queues it.
func (c *connection) sendEnvelope(msgType string, payload any) error {
	data, err := marshalEnvelope(msgType, payload)
	if err != nil {
		return err
	}
	if !c.send(data) {
		return fmt.Errorf("connection closed before %s was sent", msgType)
	}
	return nil
}

// readEnvelope blocks for the next message.
func (c *connection) readEnvelope() (streaming.Envelope, error) {
	var env streaming.Envelope
	_, msg, err := c.conn.ReadMessage()
	if err != nil {
		return env, err
	}
	if err := json.Unmarshal(msg, &env); err != nil {
		return env, fmt.Errorf("%w: %v", errMalformed, err)
	}
	if env.Type == "" {
		return env, fmt.Errorf("%w: missing type", errMalformed)
	}
	return env, nil
}

// closed is closed when the connection shuts down.
func (c *connection) closed() <-chan struct{} {
	return c.done
}

// close sends a close frame and releases the socket. Safe to call more than once.
func (c *connection) close() {
	c.once.Do(func() {
		close(c.done)
		_ = c.conn.WriteControl(
			ws.CloseMessage,
			ws.FormatCloseMessage(ws.CloseNormalClosure, ""),
			time.Now().Add(time.Second),
		)
		_ = c.conn.Close()
	})
}

// marshalEnvelope builds a JSON-encoded Envelope from a message type and payload.
func marshalEnvelope(msgType string, payload any) ([]byte, error) {
	env, err := streaming.NewEnvelope(msgType, payload)
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("marshal %s envelope: %w", msgType, err)
	}
	return data, nil
}
