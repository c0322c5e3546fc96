// Package event defines the wire shapes flowing through the bridge: the
// semi-structured raw messages read off the internal bus and the canonical
// events published to external consumers.
package event

// RawEvent is a single message as decoded from the internal bus. The shape
// depends on which subsystem produced it: core meeting messages carry an
// envelope and a core block, recording processing messages carry a top-level
// header and payload, and already-normalized events carry a data block.
// Bodies are not uniform across message types, so they stay as maps.
type RawEvent struct {
	Envelope *Envelope       `json:"envelope,omitempty"`
	Header   *RawHeader      `json:"header,omitempty"`
	Core     *Core           `json:"core,omitempty"`
	Payload  map[string]any  `json:"payload,omitempty"`
	Data     *CanonicalEvent `json:"data,omitempty"`
}

// Envelope is the routing block on core meeting messages.
type Envelope struct {
	Name    string  `json:"name"`
	Routing Routing `json:"routing"`
}

// Routing identifies the meeting (and optionally the user) a message belongs to.
type Routing struct {
	MeetingID string `json:"meetingId"`
	UserID    string `json:"userId,omitempty"`
}

// RawHeader is the top-level header carried by recording processing messages.
type RawHeader struct {
	Name        string `json:"name,omitempty"`
	CurrentTime int64  `json:"current_time,omitempty"`
	Version     string `json:"version,omitempty"`
}

// Core is the message body block on core meeting messages.
type Core struct {
	Header CoreHeader     `json:"header"`
	Body   map[string]any `json:"body"`
}

// CoreHeader carries per-message identifiers inside the core block.
type CoreHeader struct {
	Name      string `json:"name,omitempty"`
	MeetingID string `json:"meetingId,omitempty"`
	UserID    string `json:"userId,omitempty"`
}

// TypeName extracts the message type discriminator. Internal producers place
// it in different locations; the first non-empty of header name, envelope
// name, and data id wins.
func (r *RawEvent) TypeName() string {
	if r == nil {
		return ""
	}
	if r.Header != nil && r.Header.Name != "" {
		return r.Header.Name
	}
	if r.Envelope != nil && r.Envelope.Name != "" {
		return r.Envelope.Name
	}
	if r.Data != nil && r.Data.ID != "" {
		return r.Data.ID
	}
	return ""
}

// IsEmpty reports whether the event carries nothing processable.
func (r *RawEvent) IsEmpty() bool {
	if r == nil {
		return true
	}
	return r.Envelope == nil && r.Header == nil && r.Core == nil &&
		len(r.Payload) == 0 && r.Data == nil
}
