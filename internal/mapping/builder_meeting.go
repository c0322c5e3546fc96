package mapping

import (
	"context"
	"fmt"

	"github.com/openmeet-systems/webhook-bridge/internal/event"
)

// buildMeeting projects meeting-category events. Most carry only the base
// meeting block; meeting-created replaces it with the full meeting properties
// projection, and presentation changes add the presentation id.
func (p *Pipeline) buildMeeting(ctx context.Context, raw *event.RawEvent, id string) (map[string]any, error) {
	typeName := raw.TypeName()
	if raw.Core == nil || raw.Core.Body == nil {
		return nil, malformed(typeName, "core.body")
	}
	body := raw.Core.Body

	if id == event.MeetingCreated {
		return meetingCreatedAttributes(typeName, body)
	}

	meetingID := strField(body, "meetingId")
	if meetingID == "" {
		meetingID = raw.Core.Header.MeetingID
	}
	externalID, err := p.meetings.ExternalMeetingID(ctx, meetingID)
	if err != nil {
		return nil, fmt.Errorf("resolve external meeting id %q: %w", meetingID, err)
	}

	meeting := map[string]any{
		"internal-meeting-id": meetingID,
		"external-meeting-id": externalID,
	}
	if id == event.MeetingPresentationChanged {
		meeting["presentation-id"] = body["presentationId"]
	}
	return map[string]any{"meeting": meeting}, nil
}

// meetingCreatedAttributes builds the rich projection from the meeting
// properties carried on the created message itself. The external id comes
// straight from the properties; no resolver lookup is needed (the mapping
// table is populated from this very event).
func meetingCreatedAttributes(typeName string, body map[string]any) (map[string]any, error) {
	props := mapField(body, "props")
	if props == nil {
		return nil, malformed(typeName, "core.body.props")
	}

	required := []string{
		"meetingProp", "durationProps", "password",
		"recordProp", "voiceProp", "usersProp", "metadataProp",
	}
	for _, name := range required {
		if mapField(props, name) == nil {
			return nil, malformed(typeName, "core.body.props."+name)
		}
	}

	meetingProp := mapField(props, "meetingProp")
	durationProps := mapField(props, "durationProps")
	password := mapField(props, "password")
	recordProp := mapField(props, "recordProp")
	voiceProp := mapField(props, "voiceProp")
	usersProp := mapField(props, "usersProp")
	metadataProp := mapField(props, "metadataProp")

	return map[string]any{
		"meeting": map[string]any{
			"internal-meeting-id": strField(meetingProp, "intId"),
			"external-meeting-id": strField(meetingProp, "extId"),
			"name":                meetingProp["name"],
			"is-breakout":         meetingProp["isBreakout"],
			"duration":            durationProps["duration"],
			"create-time":         durationProps["createdTime"],
			"create-date":         durationProps["createdDate"],
			"moderator-pass":      password["moderatorPass"],
			"viewer-pass":         password["viewerPass"],
			"record":              recordProp["record"],
			"voice-conf":          voiceProp["voiceConf"],
			"dial-number":         voiceProp["dialNumber"],
			"max-users":           usersProp["maxUsers"],
			"metadata":            metadataProp["metadata"],
		},
	}, nil
}
