package mapping

import (
	"context"

	"github.com/openmeet-systems/webhook-bridge/internal/event"
)

// buildPad projects shared notes content updates.
func (p *Pipeline) buildPad(ctx context.Context, raw *event.RawEvent, id string) (map[string]any, error) {
	typeName := raw.TypeName()
	if raw.Core == nil || raw.Core.Body == nil {
		return nil, malformed(typeName, "core.body")
	}
	body := raw.Core.Body

	meeting, err := p.meetingBlock(ctx, raw.Core.Header.MeetingID)
	if err != nil {
		return nil, err
	}

	return map[string]any{
		"meeting": meeting,
		"pad": map[string]any{
			"id":              body["padId"],
			"external-pad-id": body["externalId"],
			"rev":             body["rev"],
			"start":           body["start"],
			"end":             body["end"],
			"text":            body["text"],
		},
	}, nil
}
