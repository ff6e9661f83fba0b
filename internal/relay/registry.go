package relay

import "sync"

// Registry keeps the member set per room for one channel. Rooms are created
// lazily on first join and reclaimed when the last member leaves, so the map
// is bounded by live memberships rather than by every key ever seen.
type Registry struct {
	mu    sync.RWMutex
	rooms map[string]map[Conn]struct{}
}

func NewRegistry() *Registry {
	return &Registry{rooms: make(map[string]map[Conn]struct{})}
}

// Join adds c to room. Joining twice is the same as joining once.
func (r *Registry) Join(room string, c Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()

	members, ok := r.rooms[room]
	if !ok {
		members = make(map[Conn]struct{})
		r.rooms[room] = members
	}
	members[c] = struct{}{}
}

// Leave removes c from room. Unknown rooms and non-members are no-ops.
func (r *Registry) Leave(room string, c Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.drop(room, c)
}

// LeaveAll removes c from every room; called when c disconnects. Once it
// returns, no subsequent Broadcast can reach c.
func (r *Registry) LeaveAll(c Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for room := range r.rooms {
		r.drop(room, c)
	}
}

// drop must be called with mu held.
func (r *Registry) drop(room string, c Conn) {
	members, ok := r.rooms[room]
	if !ok {
		return
	}
	delete(members, c)
	if len(members) == 0 {
		delete(r.rooms, room)
	}
}

// Broadcast delivers env to every current member of room, including the
// connection that triggered it. Unknown or empty rooms are a no-op.
func (r *Registry) Broadcast(room string, env Envelope) {
	// Take a quick snapshot of the current members
	r.mu.RLock()
	members := r.rooms[room]
	conns := make([]Conn, 0, len(members))
	for c := range members {
		conns = append(conns, c)
	}
	r.mu.RUnlock()

	// Do the I/O outside the lock
	var failed []Conn
	for _, c := range conns {
		if err := c.Send(env); err != nil {
			failed = append(failed, c)
		}
	}
	for _, c := range failed {
		r.Leave(room, c)
		_ = c.Close()
	}
}
