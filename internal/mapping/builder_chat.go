package mapping

import (
	"context"

	"github.com/openmeet-systems/webhook-bridge/internal/event"
)

// mainPublicGroupChat is the chat id of the one public group chat whose
// messages are externally visible. Everything else is private and dropped.
const mainPublicGroupChat = "MAIN-PUBLIC-GROUP-CHAT"

// buildChat projects public group chat messages. Messages on any other chat
// produce no output: the nil, nil return is the filter signal, not an error.
func (p *Pipeline) buildChat(ctx context.Context, raw *event.RawEvent, id string) (map[string]any, error) {
	typeName := raw.TypeName()
	if raw.Core == nil || raw.Core.Body == nil {
		return nil, malformed(typeName, "core.body")
	}
	if raw.Envelope == nil {
		return nil, malformed(typeName, "envelope.routing")
	}
	body := raw.Core.Body

	chatID := strField(body, "chatId")
	if chatID != mainPublicGroupChat {
		return nil, nil
	}

	msg := mapField(body, "msg")
	if msg == nil {
		return nil, malformed(typeName, "core.body.msg")
	}
	sender := mapField(msg, "sender")
	if sender == nil {
		return nil, malformed(typeName, "core.body.msg.sender")
	}

	meeting, err := p.meetingBlock(ctx, raw.Envelope.Routing.MeetingID)
	if err != nil {
		return nil, err
	}

	return map[string]any{
		"meeting": meeting,
		"chat-message": map[string]any{
			"message": msg["message"],
			"sender": map[string]any{
				"internal-user-id": sender["id"],
				"external-user-id": sender["name"],
				"timezone-offset":  msg["fromTimezoneOffset"],
				"time":             msg["timestamp"],
			},
		},
		"chat-id": chatID,
	}, nil
}
