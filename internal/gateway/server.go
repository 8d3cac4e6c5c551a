package gateway

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Origin is enforced by the reverse proxy in deployment.
		return true
	},
}

// HandleWebSocket upgrades an HTTP request to a gateway connection.
// Authentication happens via the IDENTIFY payload, not the upgrade request.
func (m *Manager) HandleWebSocket(c echo.Context) error {
	ws, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		slog.Warn("websocket upgrade failed", "error", err)
		return nil
	}

	conn := newConnection(ws, m)

	conn.SendPayload(GatewayPayload{
		Op:   OpHello,
		Data: mustMarshal(HelloData{HeartbeatInterval: int(heartbeatInterval.Milliseconds())}),
	})

	go conn.writePump()
	go conn.readPump()

	return nil
}
