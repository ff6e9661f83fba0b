package relay

import "encoding/json"

// Envelope wraps every WS frame, in both directions. Channel selects the
// namespace, Event the operation inside it.
type Envelope struct {
	Channel string          `json:"channel"`        // e.g. "thread"
	Event   string          `json:"event"`          // e.g. "new private message"
	Body    json.RawMessage `json:"body,omitempty"` // operation arguments
}

// ──────────────────────────── Request bodies ─────────────────────────────────

// JoinRequest is the body of a channel's join event.
type JoinRequest struct {
	Room   string `json:"room"`
	Secret string `json:"secret"`
}

// UpdateRequest is the body of a channel's update events. Message is only
// forwarded on channels whose spec says so.
type UpdateRequest struct {
	Room    string          `json:"room"`
	Secret  string          `json:"secret"`
	Message json.RawMessage `json:"message,omitempty"`
}

// CheckSecretRequest is the body of the status channel's probe event.
type CheckSecretRequest struct {
	Secret string `json:"secret"`
}

// StatusBody carries the probe verdict back to status listeners.
type StatusBody struct {
	Status string `json:"status"`
}
