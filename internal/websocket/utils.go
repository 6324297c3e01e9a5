package websocket

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait = 10 * time.Second
	readWait  = 5 * time.Minute
)

// Conn wraps a socket for one attempt stream. gorilla allows a single
// concurrent writer, so every write goes through mu.
type Conn struct {
	mu sync.Mutex
	ws *websocket.Conn
}

// NewConn wraps an upgraded socket.
func NewConn(c *websocket.Conn) *Conn {
	return &Conn{ws: c}
}

// Write sends v as JSON.
func (c *Conn) Write(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
	return c.ws.WriteJSON(v)
}

// WriteError sends an error event.
func (c *Conn) WriteError(msg string) error {
	return c.Write(ErrorResponse{Event: EventError, Error: msg})
}

// Read decodes the next client request. A quiet client is dropped after
// readWait.
func (c *Conn) Read() (RequestPayload, error) {
	var msg RequestPayload
	_ = c.ws.SetReadDeadline(time.Now().Add(readWait))
	err := c.ws.ReadJSON(&msg)
	return msg, err
}

// CloseNormal sends a normal-closure frame with reason and closes the socket.
func (c *Conn) CloseNormal(reason string) {
	c.mu.Lock()
	_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
	_ = c.ws.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, reason))
	c.mu.Unlock()
	_ = c.ws.Close()
}

// Close closes the socket without a close frame.
func (c *Conn) Close() error {
	return c.ws.Close()
}
