package delivery

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/openmeet-systems/webhook-bridge/internal/event"
	"github.com/openmeet-systems/webhook-bridge/internal/mapping"
	"github.com/openmeet-systems/webhook-bridge/internal/metrics"
	"github.com/openmeet-systems/webhook-bridge/internal/resolver"
)

// QuarantineWriter records events the pipeline failed on so operators can
// inspect and replay them.
type QuarantineWriter interface {
	Write(ctx context.Context, raw *event.RawEvent, cause error) error
}

// QuarantinedEvent is the envelope stored on the quarantine stream.
type QuarantinedEvent struct {
	Timestamp time.Time       `json:"timestamp"`
	Raw       *event.RawEvent `json:"raw"`
	Error     string          `json:"error"`
	Reason    string          `json:"reason"`
}

// JetStreamQuarantine writes failed events to a NATS JetStream stream.
// Safe for use across multiple bridge instances.
type JetStreamQuarantine struct {
	js      jetstream.JetStream
	stream  jetstream.Stream
	written atomic.Uint64
}

// NewJetStreamQuarantine creates or updates the quarantine stream on an
// existing NATS connection.
func NewJetStreamQuarantine(ctx context.Context, conn *nats.Conn) (*JetStreamQuarantine, error) {
	if conn == nil {
		return nil, fmt.Errorf("nats connection is nil")
	}

	js, err := jetstream.New(conn)
	if err != nil {
		return nil, fmt.Errorf("create jetstream context: %w", err)
	}

	stream, err := js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:     StreamQuarantine,
		Subjects: []string{SubjectQuarantine + ".>"},
		MaxAge:   7 * 24 * time.Hour,
		MaxBytes: 1024 * 1024 * 1024, // 1GB
		Storage:  jetstream.FileStorage,
	})
	if err != nil {
		return nil, fmt.Errorf("create quarantine stream: %w", err)
	}

	return &JetStreamQuarantine{js: js, stream: stream}, nil
}

// Write records a failed event on the quarantine stream.
func (q *JetStreamQuarantine) Write(ctx context.Context, raw *event.RawEvent, cause error) error {
	if q == nil {
		return nil
	}

	reason := quarantineReason(cause)
	entry := QuarantinedEvent{
		Timestamp: time.Now().UTC(),
		Raw:       raw,
		Error:     cause.Error(),
		Reason:    reason,
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal quarantine entry: %w", err)
	}

	if _, err := q.js.Publish(ctx, QuarantineSubject(reason), data); err != nil {
		return fmt.Errorf("publish quarantine entry: %w", err)
	}

	q.written.Add(1)
	metrics.QuarantinedEvents.WithLabelValues(reason).Inc()
	return nil
}

// Written returns the number of entries written since startup.
func (q *JetStreamQuarantine) Written() uint64 {
	return q.written.Load()
}

// quarantineReason classifies the failure for the subject and metrics.
func quarantineReason(cause error) string {
	switch {
	case errors.Is(cause, mapping.ErrMalformedEvent):
		return "malformed"
	case errors.Is(cause, resolver.ErrUnavailable):
		return "resolver"
	default:
		return "unknown"
	}
}
