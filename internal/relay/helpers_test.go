package relay

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

const testKey = "hI0g2Yf9Rs8Dm5"

// fakeConn records every envelope pushed to it.
type fakeConn struct {
	mu     sync.Mutex
	sent   []Envelope
	broken bool
	closed bool
}

func (f *fakeConn) Send(env Envelope) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.broken {
		return errors.New("write failed")
	}
	f.sent = append(f.sent, env)
	return nil
}

func (f *fakeConn) RemoteAddr() string { return "fake" }

func (f *fakeConn) Close() error {
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()
	return nil
}

func (f *fakeConn) events() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.sent))
	for _, env := range f.sent {
		out = append(out, env.Event)
	}
	return out
}

func (f *fakeConn) last() (Envelope, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.sent) == 0 {
		return Envelope{}, false
	}
	return f.sent[len(f.sent)-1], true
}

func mustBody(t *testing.T, v any) json.RawMessage {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	return raw
}

// dispatch pushes one event through the server's router the way the reader
// loop would.
func dispatch(t *testing.T, srv *Server, c Conn, channel, event string, body any) error {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	cc := &ConnContext{Conn: c, Server: srv}
	return srv.router.dispatch(context.Background(), cc, Envelope{
		Channel: channel,
		Event:   event,
		Body:    raw,
	})
}
