package debug

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"chosenoffset.com/raycaster/internal/logger"
)

// WebSocket settings
const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// client streams snapshots to one WebSocket connection.
type client struct {
	server *Server
	conn   *websocket.Conn
	closed chan struct{}
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.WithError(err).Error("Upgrade error")
		return
	}
	logger.Log.WithField("remote", r.RemoteAddr).Info("Debug stream connected")

	c := &client{server: s, conn: conn, closed: make(chan struct{})}
	go c.writePump()
	go c.readPump()
}

// readPump discards incoming messages and notices when the peer goes away.
func (c *client) readPump() {
	defer close(c.closed)

	c.conn.SetReadLimit(maxMessageSize)
	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		logger.Log.WithError(err).Warn("failed to set read deadline")
	}
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Log.WithError(err).Warn("Debug stream read failed")
			}
			return
		}
	}
}

// writePump pushes a snapshot every interval, plus pings.
func (c *client) writePump() {
	push := time.NewTicker(c.server.Interval)
	ping := time.NewTicker(pingPeriod)
	defer func() {
		push.Stop()
		ping.Stop()
		if err := c.conn.Close(); err != nil {
			logger.Log.WithError(err).Debug("failed to close debug stream")
		}
		logger.Log.Info("Debug stream closed")
	}()

	if !c.send() {
		return
	}
	for {
		select {
		case <-push.C:
			if !c.send() {
				return
			}

		case <-ping.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				logger.Log.WithError(err).Warn("failed to set ping write deadline")
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				logger.Log.WithError(err).Debug("ping failed")
				return
			}

		case <-c.closed:
			return

		case <-c.server.done:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down")
			if err := c.conn.WriteMessage(websocket.CloseMessage, msg); err != nil {
				logger.Log.WithError(err).Debug("write close message failed")
			}
			return
		}
	}
}

func (c *client) send() bool {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		logger.Log.WithError(err).Warn("failed to set write deadline")
	}
	if err := c.conn.WriteJSON(c.server.State.Snapshot()); err != nil {
		logger.Log.WithError(err).Debug("write json message failed")
		return false
	}
	return true
}
