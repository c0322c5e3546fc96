package mapping

import (
	"context"

	"github.com/openmeet-systems/webhook-bridge/internal/event"
)

// buildPoll projects poll lifecycle events: meeting and user blocks plus a
// poll block whose shape depends on the canonical id. Starting a poll carries
// the question and the offered answers; responding carries the chosen answer
// ids alongside the poll id.
func (p *Pipeline) buildPoll(ctx context.Context, raw *event.RawEvent, id string) (map[string]any, error) {
	typeName := raw.TypeName()
	if raw.Core == nil || raw.Core.Body == nil {
		return nil, malformed(typeName, "core.body")
	}
	if raw.Envelope == nil {
		return nil, malformed(typeName, "envelope.routing")
	}
	body := raw.Core.Body
	userID := raw.Core.Header.UserID

	meeting, err := p.meetingBlock(ctx, raw.Envelope.Routing.MeetingID)
	if err != nil {
		return nil, err
	}
	externalUserID, err := p.externalUserID(ctx, userID, body)
	if err != nil {
		return nil, err
	}

	var poll map[string]any
	switch id {
	case event.PollStarted:
		inner := mapField(body, "poll")
		if inner == nil {
			return nil, malformed(typeName, "core.body.poll")
		}
		poll = map[string]any{
			"question": body["question"],
			"answers":  inner["answers"],
		}
	case event.PollResponded:
		poll = map[string]any{
			"id":        body["pollId"],
			"answerIds": body["answerIds"],
		}
	default:
		poll = map[string]any{
			"id": body["pollId"],
		}
	}

	return map[string]any{
		"meeting": meeting,
		"user": map[string]any{
			"internal-user-id": userID,
			"external-user-id": externalUserID,
		},
		"poll": poll,
	}, nil
}
