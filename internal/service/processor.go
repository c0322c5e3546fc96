// Package service wires the mapping pipeline to its collaborators: the
// delivery publisher, the quarantine queue, and the ID mapping tables.
package service

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/openmeet-systems/webhook-bridge/internal/delivery"
	"github.com/openmeet-systems/webhook-bridge/internal/event"
	"github.com/openmeet-systems/webhook-bridge/internal/logging"
	"github.com/openmeet-systems/webhook-bridge/internal/mapping"
	"github.com/openmeet-systems/webhook-bridge/internal/metrics"
)

// MappingRecorder maintains the durable internal-to-external ID tables the
// resolvers read from. Implemented by resolver.RedisStore.
type MappingRecorder interface {
	RecordMeeting(ctx context.Context, internalID, externalID string) error
	RecordUser(ctx context.Context, internalID, externalID string) error
	RemoveMeeting(ctx context.Context, internalID string) error
	RemoveUser(ctx context.Context, internalID string) error
}

// Processor runs raw events through the pipeline and captures basic
// telemetry. Publisher, quarantine, and recorder are optional; a nil
// collaborator disables that concern.
type Processor struct {
	pipeline   *mapping.Pipeline
	publisher  delivery.Publisher
	quarantine delivery.QuarantineWriter
	recorder   MappingRecorder
	logger     *slog.Logger

	startedAt time.Time
	processed atomic.Uint64
	dropped   atomic.Uint64
	failed    atomic.Uint64
}

// NewProcessor creates a Processor around the pipeline.
func NewProcessor(p *mapping.Pipeline, publisher delivery.Publisher, quarantine delivery.QuarantineWriter, recorder MappingRecorder, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		pipeline:   p,
		publisher:  publisher,
		quarantine: quarantine,
		recorder:   recorder,
		logger:     logger,
		startedAt:  time.Now().UTC(),
	}
}

// Process maps one raw event, updating counters. It returns exactly what the
// pipeline returns; delivery is the caller's business (see Handle).
func (p *Processor) Process(ctx context.Context, raw *event.RawEvent) (*event.CanonicalEvent, error) {
	start := time.Now()
	evt, err := p.pipeline.Process(ctx, raw)
	metrics.MappingDuration.Observe(time.Since(start).Seconds())

	switch {
	case err != nil:
		p.failed.Add(1)
		return nil, err
	case evt == nil:
		p.dropped.Add(1)
		return nil, nil
	default:
		p.processed.Add(1)
		return evt, nil
	}
}

// Handle is the ingestion collector entry point: map the event, quarantine
// failures, keep the ID tables current, and publish the result. Errors are
// logged, never propagated back to the bus reader.
func (p *Processor) Handle(ctx context.Context, raw *event.RawEvent) {
	evt, err := p.Process(ctx, raw)
	if err != nil {
		p.logger.Error("event mapping failed", logging.Error(err))
		if p.quarantine != nil {
			if qerr := p.quarantine.Write(ctx, raw, err); qerr != nil {
				p.logger.Error("quarantine write failed", logging.Error(qerr))
			}
		}
		return
	}
	if evt == nil {
		return
	}

	p.recordMappings(ctx, evt)

	if p.publisher != nil {
		if err := p.publisher.Publish(ctx, evt); err != nil {
			metrics.PublishErrors.Inc()
			p.logger.Error("publish failed", logging.EventID(evt.ID), logging.Error(err))
		}
	}
}

// recordMappings keeps the ID tables in step with the meeting and user
// lifecycle events flowing through the bridge.
func (p *Processor) recordMappings(ctx context.Context, evt *event.CanonicalEvent) {
	if p.recorder == nil {
		return
	}

	var err error
	switch evt.ID {
	case event.MeetingCreated:
		internalID, externalID := attributeIDs(evt.Attributes, "meeting", "internal-meeting-id", "external-meeting-id")
		if internalID != "" {
			err = p.recorder.RecordMeeting(ctx, internalID, externalID)
		}
	case event.MeetingEnded:
		internalID, _ := attributeIDs(evt.Attributes, "meeting", "internal-meeting-id", "external-meeting-id")
		if internalID != "" {
			err = p.recorder.RemoveMeeting(ctx, internalID)
		}
	case event.UserJoined:
		internalID, externalID := attributeIDs(evt.Attributes, "user", "internal-user-id", "external-user-id")
		if internalID != "" {
			err = p.recorder.RecordUser(ctx, internalID, externalID)
		}
	case event.UserLeft:
		internalID, _ := attributeIDs(evt.Attributes, "user", "internal-user-id", "external-user-id")
		if internalID != "" {
			err = p.recorder.RemoveUser(ctx, internalID)
		}
	default:
		return
	}

	if err != nil {
		p.logger.Error("mapping table update failed", logging.EventID(evt.ID), logging.Error(err))
	}
}

func attributeIDs(attrs map[string]any, block, internalKey, externalKey string) (string, string) {
	sub, _ := attrs[block].(map[string]any)
	if sub == nil {
		return "", ""
	}
	internalID, _ := sub[internalKey].(string)
	externalID, _ := sub[externalKey].(string)
	return internalID, externalID
}

// Stats is a snapshot of processor counters.
type Stats struct {
	UptimeSeconds int64  `json:"uptime_seconds"`
	Processed     uint64 `json:"processed"`
	Dropped       uint64 `json:"dropped"`
	Failed        uint64 `json:"failed"`
}

// Health returns live status for health checks.
func (p *Processor) Health() Stats {
	return Stats{
		UptimeSeconds: int64(time.Since(p.startedAt).Seconds()),
		Processed:     p.processed.Load(),
		Dropped:       p.dropped.Load(),
		Failed:        p.failed.Load(),
	}
}
