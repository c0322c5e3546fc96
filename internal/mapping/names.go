package mapping

import (
	"github.com/openmeet-systems/webhook-bridge/internal/event"
)

// canonicalNames maps every internal message type to its canonical output
// name. The domain is closed; RecordingStatusChangedEvtMsg is handled
// separately because its output depends on a body field.
var canonicalNames = map[string]string{
	"MeetingCreatedEvtMsg":                  event.MeetingCreated,
	"MeetingDestroyedEvtMsg":                event.MeetingEnded,
	"ScreenshareRtmpBroadcastStartedEvtMsg": event.MeetingScreenshareStarted,
	"ScreenshareRtmpBroadcastStoppedEvtMsg": event.MeetingScreenshareStopped,
	"SetCurrentPresentationEvtMsg":          event.MeetingPresentationChanged,

	"UserJoinedMeetingEvtMsg":           event.UserJoined,
	"UserLeftMeetingEvtMsg":             event.UserLeft,
	"UserJoinedVoiceConfToClientEvtMsg": event.UserAudioVoiceEnabled,
	"UserLeftVoiceConfToClientEvtMsg":   event.UserAudioVoiceDisabled,
	"UserBroadcastCamStartedEvtMsg":     event.UserCamBroadcastStart,
	"UserBroadcastCamStoppedEvtMsg":     event.UserCamBroadcastEnd,
	"PresenterAssignedEvtMsg":           event.UserPresenterAssigned,
	"PresenterUnassignedEvtMsg":         event.UserPresenterUnassigned,
	"UserEmojiChangedEvtMsg":            event.UserEmojiChanged,

	"GroupChatMessageBroadcastEvtMsg": event.ChatGroupMessageSent,

	"PublishedRecordingSysMsg":   event.RapPublished,
	"UnpublishedRecordingSysMsg": event.RapUnpublished,
	"DeletedRecordingSysMsg":     event.RapDeleted,

	"PadContentEvtMsg": event.PadContent,

	"PollStartedEvtMsg":          event.PollStarted,
	"UserRespondedToPollRespMsg": event.PollResponded,

	"archive_started":       event.RapArchiveStarted,
	"archive_ended":         event.RapArchiveEnded,
	"sanity_started":        event.RapSanityStarted,
	"sanity_ended":          event.RapSanityEnded,
	"post_archive_started":  event.RapPostArchiveStarted,
	"post_archive_ended":    event.RapPostArchiveEnded,
	"process_started":       event.RapProcessStarted,
	"process_ended":         event.RapProcessEnded,
	"post_process_started":  event.RapPostProcessStarted,
	"post_process_ended":    event.RapPostProcessEnded,
	"publish_started":       event.RapPublishStarted,
	"publish_ended":         event.RapPublishEnded,
	"post_publish_started":  event.RapPostPublishStarted,
	"post_publish_ended":    event.RapPostPublishEnded,
	"published":             event.RapPublished,
	"unpublished":           event.RapUnpublished,
	"deleted":               event.RapDeleted,
}

const recordingStatusChangedType = "RecordingStatusChangedEvtMsg"

// CanonicalName resolves the raw event's internal type to its canonical
// output name. The second return is false for types outside the mapping
// domain. The function is pure and side-effect-free.
func CanonicalName(raw *event.RawEvent) (string, bool) {
	name := raw.TypeName()
	if name == recordingStatusChangedType {
		return recordingStatusName(raw), true
	}
	id, ok := canonicalNames[name]
	return id, ok
}

// recordingStatusName selects among the three recording canonical names based
// on the boolean recording field in the body. A missing or non-boolean field
// maps to the unhandled variant rather than being guessed at.
func recordingStatusName(raw *event.RawEvent) string {
	if raw.Core != nil {
		if rec, ok := boolField(raw.Core.Body, "recording"); ok {
			if rec {
				return event.MeetingRecordingStarted
			}
			return event.MeetingRecordingStopped
		}
	}
	return event.MeetingRecordingUnhandled
}
