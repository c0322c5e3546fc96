package mapping

import (
	"github.com/openmeet-systems/webhook-bridge/internal/event"
)

// Category is the coarse classification of a raw event, used to select the
// attribute builder. Exactly one category applies per event.
type Category int

const (
	CategoryUnrecognized Category = iota
	CategoryMeeting
	CategoryUser
	CategoryChat
	CategoryRap
	CategoryCompositeRap
	CategoryPad
	CategoryPoll
	CategoryAlreadyCanonical
)

func (c Category) String() string {
	switch c {
	case CategoryMeeting:
		return "meeting"
	case CategoryUser:
		return "user"
	case CategoryChat:
		return "chat"
	case CategoryRap:
		return "rap"
	case CategoryCompositeRap:
		return "composite-rap"
	case CategoryPad:
		return "pad"
	case CategoryPoll:
		return "poll"
	case CategoryAlreadyCanonical:
		return "already-canonical"
	default:
		return "unrecognized"
	}
}

// Internal message type names per category.
var (
	meetingEvents = []string{
		"MeetingCreatedEvtMsg",
		"MeetingDestroyedEvtMsg",
		"ScreenshareRtmpBroadcastStartedEvtMsg",
		"ScreenshareRtmpBroadcastStoppedEvtMsg",
		"SetCurrentPresentationEvtMsg",
		"RecordingStatusChangedEvtMsg",
	}
	userEvents = []string{
		"UserJoinedMeetingEvtMsg",
		"UserLeftMeetingEvtMsg",
		"UserJoinedVoiceConfToClientEvtMsg",
		"UserLeftVoiceConfToClientEvtMsg",
		"PresenterAssignedEvtMsg",
		"PresenterUnassignedEvtMsg",
		"UserBroadcastCamStartedEvtMsg",
		"UserBroadcastCamStoppedEvtMsg",
		"UserEmojiChangedEvtMsg",
	}
	chatEvents = []string{
		"GroupChatMessageBroadcastEvtMsg",
	}
	rapEvents = []string{
		"PublishedRecordingSysMsg",
		"UnpublishedRecordingSysMsg",
		"DeletedRecordingSysMsg",
	}
	compositeRapEvents = []string{
		"archive_started",
		"archive_ended",
		"sanity_started",
		"sanity_ended",
		"post_archive_started",
		"post_archive_ended",
		"process_started",
		"process_ended",
		"post_process_started",
		"post_process_ended",
		"publish_started",
		"publish_ended",
		"post_publish_started",
		"post_publish_ended",
		"published",
		"unpublished",
		"deleted",
	}
	padEvents = []string{
		"PadContentEvtMsg",
	}
	pollEvents = []string{
		"PollStartedEvtMsg",
		"UserRespondedToPollRespMsg",
	}
)

type categoryRule struct {
	category Category
	members  map[string]struct{}
}

// categoryRules is evaluated in order; the order is the classification
// priority and is fixed by the external contract.
var categoryRules = []categoryRule{
	{CategoryMeeting, setOf(meetingEvents)},
	{CategoryUser, setOf(userEvents)},
	{CategoryChat, setOf(chatEvents)},
	{CategoryRap, setOf(rapEvents)},
	{CategoryCompositeRap, setOf(compositeRapEvents)},
	{CategoryPad, setOf(padEvents)},
	{CategoryPoll, setOf(pollEvents)},
}

func setOf(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, name := range names {
		set[name] = struct{}{}
	}
	return set
}

// Classify determines the category of a raw event from its type discriminator.
// Internal type sets are tested in priority order; the canonical output name
// set is tested last so that already-normalized events pass through.
func Classify(raw *event.RawEvent) Category {
	name := raw.TypeName()
	if name == "" {
		return CategoryUnrecognized
	}
	for _, rule := range categoryRules {
		if _, ok := rule.members[name]; ok {
			return rule.category
		}
	}
	if event.KnownOutput(name) {
		return CategoryAlreadyCanonical
	}
	return CategoryUnrecognized
}
