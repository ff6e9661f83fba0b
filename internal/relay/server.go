package relay

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait    = 10 * time.Second
	pongWait     = 60 * time.Second
	pingPeriod   = (pongWait * 9) / 10 // must be < pongWait
	maxFrameSize = 4096

	dispatchTimeout = 2 * time.Second
)

var (
	ErrNotAuthorized  = errors.New("service key mismatch")
	ErrUnknownChannel = errors.New("unknown_channel")
)

// Server owns the channel set and fans inbound events out to the matching
// channel handler. One instance serves every websocket client; a connection
// can hold rooms in all channels at once and loses them all on disconnect.
type Server struct {
	gate     *Gate
	channels map[string]*Channel
	status   *StatusChannel
	router   *Router
	upgrader websocket.Upgrader
}

func NewServer(serviceKey string, specs []Spec) *Server {
	gate := NewGate(serviceKey)
	srv := &Server{
		gate:     gate,
		channels: make(map[string]*Channel, len(specs)),
		status:   NewStatusChannel(gate),
		router:   NewRouter(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The gate, not the origin, is the trust boundary here: pages
			// from any origin may connect and listen for triggers.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
	for _, spec := range specs {
		ch := NewChannel(spec, gate)
		srv.channels[spec.Name] = ch
		ch.register(srv.router)
	}
	srv.status.register(srv.router)
	return srv
}

// ---------------------------------------------------------------------------
//  Public: Gin entry-point
// ---------------------------------------------------------------------------

func (s *Server) Handle(ginCtx *gin.Context) {
	rawConn, err := s.upgrader.Upgrade(ginCtx.Writer, ginCtx.Request, nil)
	if err != nil {
		zap.L().Warn("relay.upgrade", zap.Error(err))
		return
	}
	rawConn.SetReadLimit(maxFrameSize)

	// ─────────────────── Client connected ────────────────────
	conn := newWSConn(rawConn)
	s.status.Attach(conn)
	zap.L().Info("relay.connect", zap.String("remote", conn.RemoteAddr()))

	go s.reader(conn)
	go s.pinger(conn)
}

// Publish triggers the same fan-out a socket update event would, for the
// backend path that talks HTTP instead of holding a socket open.
func (s *Server) Publish(channel, event, room, secret string, message json.RawMessage) error {
	ch, ok := s.channels[channel]
	if !ok {
		return ErrUnknownChannel
	}
	u, ok := ch.updateSpec(event)
	if !ok {
		return ErrUnknownEvent
	}
	if !s.gate.Authorized(secret) {
		return ErrNotAuthorized
	}
	ch.broadcast(u, room, message)
	return nil
}

// ---------------------------------------------------------------------------
//  Private helpers
// ---------------------------------------------------------------------------

// reader pumps inbound envelopes into the router until the peer goes away,
// then clears the connection's memberships everywhere before returning.
func (s *Server) reader(conn *wsConn) {
	defer s.disconnect(conn)

	_ = conn.rawConn.SetReadDeadline(time.Now().Add(pongWait))
	conn.rawConn.SetPongHandler(func(string) error {
		return conn.rawConn.SetReadDeadline(time.Now().Add(pongWait))
	})

	cc := &ConnContext{Conn: conn, Server: s}
	for {
		_, data, err := conn.rawConn.ReadMessage()
		if err != nil {
			return // peer closed, errored, or timed out
		}

		var env Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			zap.L().Debug("relay.bad_frame", zap.Error(err))
			continue
		}

		ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
		err = s.router.dispatch(ctx, cc, env)
		cancel()

		// Bad events are dropped, never answered: fail closed, fail silent.
		if err != nil {
			zap.L().Debug("relay.drop",
				zap.String("channel", env.Channel),
				zap.String("event", env.Event),
				zap.Error(err),
			)
		}
	}
}

// disconnect tears down every membership the connection holds, across all
// channels. It completes before the reader returns, so no broadcast
// processed afterwards can still reach the peer.
func (s *Server) disconnect(conn Conn) {
	for _, ch := range s.channels {
		ch.registry.LeaveAll(conn)
	}
	s.status.Detach(conn)
	_ = conn.Close()
	zap.L().Info("relay.disconnect", zap.String("remote", conn.RemoteAddr()))
}

func (s *Server) pinger(conn *wsConn) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for range ticker.C {
		if err := conn.ping(); err != nil {
			return // reader notices the dead conn via its deadline
		}
	}
}
