package gateway

import (
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	// writeWait bounds a single websocket write.
	writeWait = 10 * time.Second
	// pongWait is how long we wait for a pong before dropping the peer.
	pongWait = 60 * time.Second
	// pingPeriod must be shorter than pongWait.
	pingPeriod = (pongWait * 9) / 10
	// maxFrameSize bounds inbound client frames.
	maxFrameSize = 4096
)

// Conn wraps one gorilla websocket connection with a buffered outbound
// channel and a single writer goroutine. It implements Sink.
type Conn struct {
	ws     *websocket.Conn
	send   chan []byte
	logger *zap.Logger

	mu     sync.Mutex
	closed bool
}

// NewConn wraps an upgraded websocket connection.
//
// Precondition: ws must be a freshly upgraded connection; buffer must be >= 1.
func NewConn(ws *websocket.Conn, buffer int, logger *zap.Logger) *Conn {
	if buffer < 1 {
		buffer = 1
	}
	return &Conn{
		ws:     ws,
		send:   make(chan []byte, buffer),
		logger: logger,
	}
}

// Push queues an encoded event for delivery. It never blocks: when the
// buffer is full the connection is closed instead of stalling a broadcast.
//
// Postcondition: Returns a non-nil error when the connection is closed or full.
func (c *Conn) Push(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return fmt.Errorf("connection is closed")
	}
	select {
	case c.send <- data:
		return nil
	default:
		c.closed = true
		close(c.send)
		return fmt.Errorf("connection event buffer full")
	}
}

func (c *Conn) closeSend() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

// ReadPump reads client frames and feeds them to the session until the
// connection drops, then runs disconnect cleanup. It blocks; run it on the
// connection's handler goroutine.
func (c *Conn) ReadPump(session *Session) {
	defer func() {
		session.HandleDisconnect()
		c.closeSend()
		_ = c.ws.Close()
	}()

	c.ws.SetReadLimit(maxFrameSize)
	_ = c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Debug("websocket read failed", zap.Error(err))
			}
			return
		}
		session.HandleFrame(data)
	}
}

// WritePump drains the outbound channel to the websocket and keeps the
// connection alive with periodic pings. Run it on its own goroutine.
func (c *Conn) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.ws.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			if !ok {
				_ = c.ws.WriteControl(websocket.CloseMessage, []byte{}, time.Now().Add(writeWait))
				return
			}
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
