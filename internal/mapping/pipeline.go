// Package mapping implements the event classification and transformation
// pipeline: raw internal messages in, canonical external events out.
package mapping

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/openmeet-systems/webhook-bridge/internal/event"
	"github.com/openmeet-systems/webhook-bridge/internal/metrics"
	"github.com/openmeet-systems/webhook-bridge/internal/resolver"
)

// builderFunc produces the attributes payload for a classified raw event.
// A nil, nil return means the event is deliberately filtered (no output).
type builderFunc func(ctx context.Context, raw *event.RawEvent, id string) (map[string]any, error)

// Pipeline classifies raw events and projects them into canonical events.
// It holds no mutable state and is safe for concurrent use provided the
// resolvers are.
type Pipeline struct {
	meetings resolver.MeetingResolver
	users    resolver.UserResolver
	logger   *slog.Logger
	now      func() time.Time
	builders map[Category]builderFunc
}

// NewPipeline creates a pipeline using the given ID resolvers. A nil logger
// falls back to slog.Default.
func NewPipeline(meetings resolver.MeetingResolver, users resolver.UserResolver, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	p := &Pipeline{
		meetings: meetings,
		users:    users,
		logger:   logger,
		now:      time.Now,
	}
	p.builders = map[Category]builderFunc{
		CategoryMeeting:      p.buildMeeting,
		CategoryUser:         p.buildUser,
		CategoryChat:         p.buildChat,
		CategoryRap:          p.buildRap,
		CategoryCompositeRap: p.buildCompositeRap,
		CategoryPad:          p.buildPad,
		CategoryPoll:         p.buildPoll,
	}
	return p
}

// Process maps one raw event to at most one canonical event.
//
// Expected no-output outcomes (empty input, unrecognized type, filtered
// private chat) return nil, nil. Malformed events and resolver faults return
// an error so the caller can quarantine or retry; nothing is retried here.
func (p *Pipeline) Process(ctx context.Context, raw *event.RawEvent) (*event.CanonicalEvent, error) {
	if raw.IsEmpty() {
		p.logger.Warn("invalid input event")
		return nil, nil
	}

	category := Classify(raw)
	switch category {
	case CategoryUnrecognized:
		metrics.UnrecognizedEvents.WithLabelValues(raw.TypeName()).Inc()
		p.logger.Debug("dropping unrecognized event", "type", raw.TypeName())
		return nil, nil
	case CategoryAlreadyCanonical:
		// Already-normalized events pass through untouched so replays of
		// canonical events are idempotent.
		metrics.EventsMapped.WithLabelValues(category.String(), metrics.OutcomePassthrough).Inc()
		return raw.Data, nil
	}

	id, ok := CanonicalName(raw)
	if !ok {
		// Classified but absent from the name table: the two tables drifted.
		metrics.EventsMapped.WithLabelValues(category.String(), metrics.OutcomeFailed).Inc()
		return nil, fmt.Errorf("%w: %s: no canonical name", ErrMalformedEvent, raw.TypeName())
	}

	attrs, err := p.builders[category](ctx, raw, id)
	if err != nil {
		metrics.EventsMapped.WithLabelValues(category.String(), metrics.OutcomeFailed).Inc()
		return nil, err
	}
	if attrs == nil {
		metrics.EventsMapped.WithLabelValues(category.String(), metrics.OutcomeFiltered).Inc()
		p.logger.Debug("event filtered", "type", raw.TypeName(), "category", category.String())
		return nil, nil
	}

	ts := p.now().UnixMilli()
	if category == CategoryCompositeRap {
		// Recording processing steps happened in the past; their own
		// timestamp is authoritative, not the mapping time.
		ts = raw.Header.CurrentTime
	}

	out := &event.CanonicalEvent{
		Type:       event.TypeEvent,
		ID:         id,
		Attributes: attrs,
		Event:      event.Stamp{TS: ts},
	}
	metrics.EventsMapped.WithLabelValues(category.String(), metrics.OutcomeMapped).Inc()
	p.logger.Info("output event mapped", "id", out.ID, "category", category.String())
	return out, nil
}
