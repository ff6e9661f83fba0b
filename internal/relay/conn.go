package relay

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Conn is one live client session. A connection can hold room memberships
// across several channels at once; the registries only need a way to push
// frames to it.
type Conn interface {
	Send(env Envelope) error
	RemoteAddr() string
	Close() error
}

type wsConn struct {
	rawConn *websocket.Conn
	mu      sync.Mutex
}

func newWSConn(raw *websocket.Conn) *wsConn { return &wsConn{rawConn: raw} }

func (c *wsConn) Send(env Envelope) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	_ = c.rawConn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.rawConn.WriteJSON(env)
}

func (c *wsConn) ping() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	_ = c.rawConn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.rawConn.WriteMessage(websocket.PingMessage, nil)
}

func (c *wsConn) RemoteAddr() string { return c.rawConn.RemoteAddr().String() }

func (c *wsConn) Close() error { return c.rawConn.Close() }
