package gateway

import (
	"encoding/json"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// heartbeatInterval is how often clients must send heartbeats.
	heartbeatInterval = 41250 * time.Millisecond

	// pongWait is how long to wait for a heartbeat before disconnecting.
	pongWait = 60 * time.Second

	// writeWait is the deadline for outbound writes.
	writeWait = 10 * time.Second

	// maxMessageSize limits inbound payload size.
	maxMessageSize = 4096

	// sendBufferSize is the outbound channel capacity per connection.
	sendBufferSize = 256
)

// Connection represents a single client WebSocket connection.
type Connection struct {
	UserID    int64
	SessionID string

	ws      *websocket.Conn
	manager *Manager
	send    chan []byte
	seq     atomic.Int64

	closeOnce sync.Once
	closed    chan struct{}
}

func newConnection(ws *websocket.Conn, manager *Manager) *Connection {
	return &Connection{
		ws:      ws,
		manager: manager,
		send:    make(chan []byte, sendBufferSize),
		closed:  make(chan struct{}),
	}
}

// NextSequence returns the next sequence number for a dispatch event.
func (c *Connection) NextSequence() int64 {
	return c.seq.Add(1)
}

// SendPayload queues a payload for delivery. Payloads are dropped if the
// send buffer is full, a slow client falls back to resume.
func (c *Connection) SendPayload(payload GatewayPayload) {
	data, err := json.Marshal(payload)
	if err != nil {
		slog.Error("failed to marshal gateway payload", "error", err)
		return
	}

	select {
	case c.send <- data:
	case <-c.closed:
	default:
		slog.Warn("send buffer full, dropping payload", "userID", c.UserID, "op", payload.Op)
	}
}

// SendEvent queues a dispatch event with the next sequence number.
func (c *Connection) SendEvent(event string, data any) {
	raw, err := json.Marshal(data)
	if err != nil {
		slog.Error("failed to marshal event data", "event", event, "error", err)
		return
	}

	seq := c.NextSequence()
	c.SendPayload(GatewayPayload{
		Op:       OpDispatch,
		Data:     raw,
		Sequence: &seq,
		Event:    &event,
	})
}

// Close terminates the connection. Safe to call multiple times.
func (c *Connection) Close() {
	c.closeOnce.Do(func() {
		close(c.closed)
		c.ws.Close()
	})
}

// readPump reads inbound messages until the connection drops.
func (c *Connection) readPump() {
	defer func() {
		c.manager.unregister(c)
		c.Close()
	}()

	c.ws.SetReadLimit(maxMessageSize)
	c.ws.SetReadDeadline(time.Now().Add(pongWait))

	for {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.Debug("websocket read error", "userID", c.UserID, "error", err)
			}
			return
		}

		var payload GatewayPayload
		if err := json.Unmarshal(data, &payload); err != nil {
			slog.Warn("invalid gateway payload", "userID", c.UserID, "error", err)
			continue
		}

		c.handleMessage(payload)
	}
}

// writePump writes queued messages to the WebSocket.
func (c *Connection) writePump() {
	defer c.Close()

	for {
		select {
		case data, ok := <-c.send:
			if !ok {
				return
			}
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-c.closed:
			return
		}
	}
}

func (c *Connection) handleMessage(payload GatewayPayload) {
	switch payload.Op {
	case OpHeartbeat:
		c.ws.SetReadDeadline(time.Now().Add(pongWait))
		c.SendPayload(GatewayPayload{Op: OpHeartbeatAck})
	case OpIdentify:
		c.manager.handleIdentify(c, payload.Data)
	case OpResume:
		c.manager.handleResume(c, payload.Data)
	case OpPresenceUpdate:
		if c.UserID != 0 {
			c.manager.handlePresenceUpdate(c, payload.Data)
		}
	default:
		slog.Debug("unknown gateway op", "op", payload.Op, "userID", c.UserID)
	}
}
