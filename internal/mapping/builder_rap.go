package mapping

import (
	"context"
	"fmt"

	"github.com/openmeet-systems/webhook-bridge/internal/event"
)

// buildRap projects recording lifecycle system messages. These carry only the
// record id, which doubles as the internal meeting id.
func (p *Pipeline) buildRap(ctx context.Context, raw *event.RawEvent, id string) (map[string]any, error) {
	typeName := raw.TypeName()
	if raw.Core == nil || raw.Core.Body == nil {
		return nil, malformed(typeName, "core.body")
	}

	recordID := strField(raw.Core.Body, "recordId")
	meeting, err := p.meetingBlock(ctx, recordID)
	if err != nil {
		return nil, err
	}

	return map[string]any{"meeting": meeting}, nil
}

// buildCompositeRap projects recording processing step events. The external
// meeting id is taken from the payload when the processing pipeline already
// resolved it, falling back to the resolver otherwise.
func (p *Pipeline) buildCompositeRap(ctx context.Context, raw *event.RawEvent, id string) (map[string]any, error) {
	typeName := raw.TypeName()
	// The orchestrator stamps these events from header.current_time, so the
	// header block is required even when the discriminator arrived elsewhere.
	if raw.Header == nil {
		return nil, malformed(typeName, "header.current_time")
	}
	if raw.Payload == nil {
		return nil, malformed(typeName, "payload")
	}
	payload := raw.Payload

	meetingID := strField(payload, "meeting_id")
	externalID := strField(payload, "external_meeting_id")
	if externalID == "" {
		var err error
		externalID, err = p.meetings.ExternalMeetingID(ctx, meetingID)
		if err != nil {
			return nil, fmt.Errorf("resolve external meeting id %q: %w", meetingID, err)
		}
	}

	attrs := map[string]any{
		"meeting": map[string]any{
			"internal-meeting-id": meetingID,
			"external-meeting-id": externalID,
		},
	}

	switch id {
	case event.RapPublished, event.RapUnpublished, event.RapDeleted:
		attrs["record-id"] = meetingID
		attrs["format"] = payload["format"]
	default:
		attrs["record-id"] = payload["record_id"]
		attrs["success"] = payload["success"]
		attrs["step-time"] = payload["step_time"]
	}

	if workflow, ok := payload["workflow"]; ok {
		attrs["workflow"] = workflow
	}

	if id == event.RapPublishEnded {
		metadata := mapField(payload, "metadata")
		if metadata == nil {
			return nil, malformed(typeName, "payload.metadata")
		}
		playback := mapField(payload, "playback")
		if playback == nil {
			return nil, malformed(typeName, "payload.playback")
		}
		attrs["recording"] = map[string]any{
			"name":        metadata["meetingName"],
			"is-breakout": metadata["isBreakout"],
			"start-time":  payload["startTime"],
			"end-time":    payload["endTime"],
			"size":        playback["size"],
			"raw-size":    payload["rawSize"],
			"metadata":    metadata,
			"playback":    playback,
			"download":    payload["download"],
		}
	}

	return attrs, nil
}
