package relay

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"
)

// UpdateSpec describes one update event a channel recognizes. When
// ForwardPayload is set the request's message is sent to the room unmodified;
// otherwise members receive a bare trigger and re-fetch through the backend.
type UpdateSpec struct {
	Event          string
	ForwardPayload bool
}

// Spec is the static vocabulary of one channel: its name, the event a client
// sends to join a room, and the update events that fan out to that room.
type Spec struct {
	Name      string
	JoinEvent string
	Updates   []UpdateSpec
}

// Channel is one isolated namespace: its own rooms, its own vocabulary, the
// shared gate in front of both. Channels hold no state beyond membership.
type Channel struct {
	spec     Spec
	gate     *Gate
	registry *Registry
}

func NewChannel(spec Spec, gate *Gate) *Channel {
	return &Channel{spec: spec, gate: gate, registry: NewRegistry()}
}

func (c *Channel) Name() string { return c.spec.Name }

// register wires the channel's vocabulary into the router.
func (c *Channel) register(r *Router) {
	Register(r, c.spec.Name, c.spec.JoinEvent, c.handleJoin)
	for _, u := range c.spec.Updates {
		Register(r, c.spec.Name, u.Event,
			func(_ context.Context, cc *ConnContext, req UpdateRequest) error {
				c.handleUpdate(u, cc, req)
				return nil
			},
		)
	}
}

func (c *Channel) handleJoin(_ context.Context, cc *ConnContext, req JoinRequest) error {
	// Unauthorized or incomplete joins are dropped, not answered.
	if req.Room == "" || !c.gate.Authorized(req.Secret) {
		return nil
	}
	zap.L().Info("relay.join",
		zap.String("channel", c.spec.Name),
		zap.String("room", req.Room),
	)
	c.registry.Join(req.Room, cc.Conn)
	return nil
}

func (c *Channel) handleUpdate(u UpdateSpec, _ *ConnContext, req UpdateRequest) {
	if req.Room == "" || !c.gate.Authorized(req.Secret) {
		return
	}
	c.broadcast(u, req.Room, req.Message)
}

// broadcast fans an already-authorized update out to the room. The trigger's
// own connection is not excluded: the same user's other tabs and devices all
// need to refresh.
func (c *Channel) broadcast(u UpdateSpec, room string, message json.RawMessage) {
	zap.L().Info("relay.update",
		zap.String("channel", c.spec.Name),
		zap.String("event", u.Event),
		zap.String("room", room),
	)
	env := Envelope{Channel: c.spec.Name, Event: u.Event}
	if u.ForwardPayload {
		env.Body = message
	}
	c.registry.Broadcast(room, env)
}

// updateSpec looks an update event up by name, for the HTTP publish path.
func (c *Channel) updateSpec(event string) (UpdateSpec, bool) {
	for _, u := range c.spec.Updates {
		if u.Event == event {
			return u, true
		}
	}
	return UpdateSpec{}, false
}

// DefaultSpecs is the statically configured channel set of the private
// message relay. Room keys are thread ids on the thread channel and user ids
// everywhere else.
func DefaultSpecs() []Spec {
	return []Spec{
		{
			Name:      "thread",
			JoinEvent: "thread",
			Updates:   []UpdateSpec{{Event: "new private message"}},
		},
		{
			Name:      "inbox",
			JoinEvent: "user",
			Updates:   []UpdateSpec{{Event: "update pm inbox"}},
		},
		{
			Name:      "notifications",
			JoinEvent: "user",
			Updates:   []UpdateSpec{{Event: "update pm unread thread count"}},
		},
		{
			Name:      "browser-notification",
			JoinEvent: "user",
			Updates:   []UpdateSpec{{Event: "notify browser new message", ForwardPayload: true}},
		},
	}
}
