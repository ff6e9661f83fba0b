package relay

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
)

var ErrUnknownEvent = errors.New("unknown_event")

// internal (untyped) handler signature.
type rawHandler func(ctx context.Context, c *ConnContext, body json.RawMessage) error

// ConnContext carries the per-connection state handlers need.
type ConnContext struct {
	Conn   Conn
	Server *Server
}

// Router keeps a map["channel/event"]handler. Channels register the same
// event names without colliding because the channel name is part of the key.
type Router struct {
	mu       sync.RWMutex
	handlers map[string]rawHandler
}

func NewRouter() *Router { return &Router{handlers: make(map[string]rawHandler)} }

func routeKey(channel, event string) string { return channel + "/" + event }

// Register binds a channel's event to a strongly-typed handler.
func Register[Req any](
	r *Router,
	channel, event string,
	h func(ctx context.Context, c *ConnContext, req Req) error,
) {
	if channel == "" || event == "" {
		panic("relay router: empty route")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.handlers[routeKey(channel, event)] = func(ctx context.Context, c *ConnContext, body json.RawMessage) error {
		var req Req
		if len(body) > 0 {
			if err := json.Unmarshal(body, &req); err != nil {
				return err
			}
		}
		return h(ctx, c, req)
	}
}

// dispatch is called by the server's reader loop.
func (r *Router) dispatch(ctx context.Context, c *ConnContext, env Envelope) error {
	r.mu.RLock()
	h, ok := r.handlers[routeKey(env.Channel, env.Event)]
	r.mu.RUnlock()
	if !ok {
		return ErrUnknownEvent
	}
	return h(ctx, c, env.Body)
}
