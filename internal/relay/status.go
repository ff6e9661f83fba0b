package relay

import (
	"context"
	"encoding/json"
	"sync"

	"go.uber.org/zap"
)

const (
	StatusChannelName = "status"
	CheckSecretEvent  = "check secret"

	statusConfigured    = "The service key is configured correctly."
	statusMisconfigured = "The service key does NOT match the key configured on the relay."
)

// StatusChannel lets an operator verify end to end that the service key in
// the web backend matches the one the relay was started with. It has no
// rooms: every live connection listens, and the verdict goes to all of them
// so any open console sees the probe result.
type StatusChannel struct {
	gate      *Gate
	mu        sync.RWMutex
	listeners map[Conn]struct{}
}

func NewStatusChannel(gate *Gate) *StatusChannel {
	return &StatusChannel{gate: gate, listeners: make(map[Conn]struct{})}
}

func (s *StatusChannel) Attach(c Conn) {
	s.mu.Lock()
	s.listeners[c] = struct{}{}
	s.mu.Unlock()
}

func (s *StatusChannel) Detach(c Conn) {
	s.mu.Lock()
	delete(s.listeners, c)
	s.mu.Unlock()
}

func (s *StatusChannel) register(r *Router) {
	Register(r, StatusChannelName, CheckSecretEvent, s.handleCheck)
}

func (s *StatusChannel) handleCheck(_ context.Context, _ *ConnContext, req CheckSecretRequest) error {
	status := statusMisconfigured
	if s.gate.Authorized(req.Secret) {
		status = statusConfigured
	}
	zap.L().Info("relay.check_secret", zap.String("status", status))

	body, err := json.Marshal(StatusBody{Status: status})
	if err != nil {
		return err
	}
	env := Envelope{Channel: StatusChannelName, Event: CheckSecretEvent, Body: body}

	s.mu.RLock()
	conns := make([]Conn, 0, len(s.listeners))
	for c := range s.listeners {
		conns = append(conns, c)
	}
	s.mu.RUnlock()

	for _, c := range conns {
		_ = c.Send(env)
	}
	return nil
}
