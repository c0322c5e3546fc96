// Package ingest reads raw events off the internal Redis bus and hands them
// to a collector. It does no mapping itself: decode, skip empties, forward.
package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/openmeet-systems/webhook-bridge/internal/event"
	"github.com/openmeet-systems/webhook-bridge/internal/logging"
	"github.com/openmeet-systems/webhook-bridge/internal/metrics"
)

// Collector receives each decoded raw event. It must not block indefinitely;
// the source delivers events one at a time from a single goroutine.
type Collector func(ctx context.Context, raw *event.RawEvent)

// Config holds the Redis source configuration.
type Config struct {
	URL      string
	Channels []string
}

// Validate checks the fields the source cannot run without.
func (c Config) Validate() error {
	if c.URL == "" {
		return fmt.Errorf("redis url not set")
	}
	if len(c.Channels) == 0 {
		return fmt.Errorf("inbound channels not set")
	}
	return nil
}

// RedisSource subscribes to the configured bus channels and forwards decoded
// events to the collector. go-redis handles reconnection and resubscription.
type RedisSource struct {
	client    *redis.Client
	channels  []string
	collector Collector
	logger    *slog.Logger
	pubsub    *redis.PubSub
	done      chan struct{}
}

// NewRedisSource connects to Redis and verifies the connection. Start must be
// called to begin consuming.
func NewRedisSource(cfg Config, collector Collector, logger *slog.Logger) (*RedisSource, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if collector == nil {
		return nil, fmt.Errorf("collector not set")
	}
	if logger == nil {
		logger = slog.Default()
	}

	opt, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}
	client := redis.NewClient(opt)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	return &RedisSource{
		client:    client,
		channels:  cfg.Channels,
		collector: collector,
		logger:    logger,
		done:      make(chan struct{}),
	}, nil
}

// Start subscribes to the inbound channels and consumes until ctx is
// cancelled or Close is called.
func (s *RedisSource) Start(ctx context.Context) error {
	s.pubsub = s.client.Subscribe(ctx, s.channels...)

	// Wait for the subscription to be confirmed before consuming.
	if _, err := s.pubsub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe to channels: %w", err)
	}
	for _, channel := range s.channels {
		s.logger.Info("subscribed to channel", logging.Channel(channel))
	}

	go s.consume(ctx)
	return nil
}

func (s *RedisSource) consume(ctx context.Context) {
	defer close(s.done)
	ch := s.pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			s.handle(ctx, msg)
		}
	}
}

func (s *RedisSource) handle(ctx context.Context, msg *redis.Message) {
	metrics.EventsReceived.WithLabelValues(msg.Channel).Inc()

	eventID := uuid.NewString()
	var raw event.RawEvent
	if err := json.Unmarshal([]byte(msg.Payload), &raw); err != nil {
		metrics.DecodeErrors.Inc()
		s.logger.Error("failed to decode bus payload",
			logging.Channel(msg.Channel), logging.EventID(eventID), logging.Error(err))
		return
	}
	if raw.IsEmpty() {
		return
	}

	s.logger.Debug("received raw event",
		logging.Channel(msg.Channel), logging.EventID(eventID), slog.String("type", raw.TypeName()))
	s.collector(ctx, &raw)
}

// Close unsubscribes and releases the Redis connection.
func (s *RedisSource) Close() error {
	if s.pubsub != nil {
		if err := s.pubsub.Close(); err != nil {
			return err
		}
		<-s.done
	}
	return s.client.Close()
}
