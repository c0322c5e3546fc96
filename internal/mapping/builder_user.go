package mapping

import (
	"context"
	"fmt"

	"github.com/openmeet-systems/webhook-bridge/internal/event"
)

// buildUser projects user-category events: the base meeting block plus a user
// block. The external user id resolution chain is resolver, then the extId
// field on the body, then empty string.
func (p *Pipeline) buildUser(ctx context.Context, raw *event.RawEvent, id string) (map[string]any, error) {
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

	user := map[string]any{
		"internal-user-id": userID,
		"external-user-id": externalUserID,
		"name":             body["name"],
		"role":             body["role"],
		"presenter":        body["presenter"],
		"stream":           body["stream"],
	}

	// Voice toggles expose the listen-only state: joining voice mirrors the
	// flag, leaving voice forces both off.
	switch id {
	case event.UserAudioVoiceEnabled:
		listenOnly, _ := boolField(body, "listenOnly")
		user["listening-only"] = listenOnly
		user["sharing-mic"] = !listenOnly
	case event.UserAudioVoiceDisabled:
		user["listening-only"] = false
		user["sharing-mic"] = false
	}

	return map[string]any{
		"meeting": meeting,
		"user":    user,
	}, nil
}

// meetingBlock builds the base meeting sub-object every attributes payload
// carries, resolving the external id.
func (p *Pipeline) meetingBlock(ctx context.Context, internalID string) (map[string]any, error) {
	externalID, err := p.meetings.ExternalMeetingID(ctx, internalID)
	if err != nil {
		return nil, fmt.Errorf("resolve external meeting id %q: %w", internalID, err)
	}
	return map[string]any{
		"internal-meeting-id": internalID,
		"external-meeting-id": externalID,
	}, nil
}

// externalUserID resolves a user's external id, falling back to the extId
// field carried on the message body, then to "".
func (p *Pipeline) externalUserID(ctx context.Context, internalID string, body map[string]any) (string, error) {
	externalID, err := p.users.ExternalUserID(ctx, internalID)
	if err != nil {
		return "", fmt.Errorf("resolve external user id %q: %w", internalID, err)
	}
	if externalID == "" {
		externalID = strField(body, "extId")
	}
	return externalID, nil
}
