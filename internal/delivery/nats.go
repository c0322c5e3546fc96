// Package delivery publishes canonical events to downstream consumers and
// quarantines events the pipeline could not map.
package delivery

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/openmeet-systems/webhook-bridge/internal/event"
)

// Publisher hands finished canonical events to the delivery layer. Retry and
// backpressure policy live behind this interface, not in the pipeline.
type Publisher interface {
	Publish(ctx context.Context, evt *event.CanonicalEvent) error
	Close() error
}

// NATSConfig holds NATS publisher configuration.
type NATSConfig struct {
	URL           string
	Name          string
	MaxReconnects int
	ReconnectWait time.Duration
	Timeout       time.Duration
}

// DefaultNATSConfig returns a config with sensible defaults.
func DefaultNATSConfig(url string) NATSConfig {
	if url == "" {
		url = nats.DefaultURL
	}
	return NATSConfig{
		URL:           url,
		Name:          "webhook-bridge",
		MaxReconnects: -1, // Infinite reconnects
		ReconnectWait: 2 * time.Second,
		Timeout:       5 * time.Second,
	}
}

// NATSPublisher publishes canonical events to per-event-id subjects.
type NATSPublisher struct {
	conn *nats.Conn
}

// NewNATSPublisher connects to NATS with the given configuration.
func NewNATSPublisher(cfg NATSConfig) (*NATSPublisher, error) {
	opts := []nats.Option{
		nats.Name(cfg.Name),
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.Timeout(cfg.Timeout),
	}

	conn, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	return &NATSPublisher{conn: conn}, nil
}

// Conn exposes the underlying connection so the quarantine queue can share it.
func (p *NATSPublisher) Conn() *nats.Conn {
	return p.conn
}

// Publish serializes the event and publishes it to its subject.
func (p *NATSPublisher) Publish(ctx context.Context, evt *event.CanonicalEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if evt == nil {
		return fmt.Errorf("nil event")
	}

	data, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal canonical event: %w", err)
	}
	if err := p.conn.Publish(EventSubject(evt.ID), data); err != nil {
		return fmt.Errorf("publish %s: %w", evt.ID, err)
	}
	return nil
}

// Close drains and closes the connection.
func (p *NATSPublisher) Close() error {
	if p.conn != nil {
		return p.conn.Drain()
	}
	return nil
}
