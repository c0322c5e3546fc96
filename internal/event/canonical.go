package event

// TypeEvent is the constant type discriminator on every canonical event.
const TypeEvent = "event"

// CanonicalEvent is the externally published representation of an internal
// occurrence. JSON field names and nesting are the external compatibility
// contract and must not change without a schema version bump.
type CanonicalEvent struct {
	Type       string         `json:"type"`
	ID         string         `json:"id"`
	Attributes map[string]any `json:"attributes"`
	Event      Stamp          `json:"event"`
}

// Stamp carries the event timestamp in epoch milliseconds.
type Stamp struct {
	TS int64 `json:"ts"`
}

// Canonical event names. This set is closed and versioned: external consumers
// match on these strings.
const (
	MeetingCreated             = "meeting-created"
	MeetingEnded               = "meeting-ended"
	MeetingRecordingStarted    = "meeting-recording-started"
	MeetingRecordingStopped    = "meeting-recording-stopped"
	MeetingRecordingUnhandled  = "meeting-recording-unhandled"
	MeetingScreenshareStarted  = "meeting-screenshare-started"
	MeetingScreenshareStopped  = "meeting-screenshare-stopped"
	MeetingPresentationChanged = "meeting-presentation-changed"

	UserJoined              = "user-joined"
	UserLeft                = "user-left"
	UserAudioVoiceEnabled   = "user-audio-voice-enabled"
	UserAudioVoiceDisabled  = "user-audio-voice-disabled"
	UserCamBroadcastStart   = "user-cam-broadcast-start"
	UserCamBroadcastEnd     = "user-cam-broadcast-end"
	UserPresenterAssigned   = "user-presenter-assigned"
	UserPresenterUnassigned = "user-presenter-unassigned"
	UserEmojiChanged        = "user-emoji-changed"

	ChatGroupMessageSent = "chat-group-message-sent"

	PadContent = "pad-content"

	PollStarted   = "poll-started"
	PollResponded = "poll-responded"

	RapPublished            = "rap-published"
	RapUnpublished          = "rap-unpublished"
	RapDeleted              = "rap-deleted"
	RapArchiveStarted       = "rap-archive-started"
	RapArchiveEnded         = "rap-archive-ended"
	RapSanityStarted        = "rap-sanity-started"
	RapSanityEnded          = "rap-sanity-ended"
	RapPostArchiveStarted   = "rap-post-archive-started"
	RapPostArchiveEnded     = "rap-post-archive-ended"
	RapProcessStarted       = "rap-process-started"
	RapProcessEnded         = "rap-process-ended"
	RapPostProcessStarted   = "rap-post-process-started"
	RapPostProcessEnded     = "rap-post-process-ended"
	RapPublishStarted       = "rap-publish-started"
	RapPublishEnded         = "rap-publish-ended"
	RapPostPublishStarted   = "rap-post-publish-started"
	RapPostPublishEnded     = "rap-post-publish-ended"
)

// OutputEvents lists every canonical name the bridge can produce.
var OutputEvents = []string{
	MeetingCreated,
	MeetingEnded,
	MeetingRecordingStarted,
	MeetingRecordingStopped,
	MeetingRecordingUnhandled,
	MeetingScreenshareStarted,
	MeetingScreenshareStopped,
	MeetingPresentationChanged,
	UserJoined,
	UserLeft,
	UserAudioVoiceEnabled,
	UserAudioVoiceDisabled,
	UserCamBroadcastStart,
	UserCamBroadcastEnd,
	UserPresenterAssigned,
	UserPresenterUnassigned,
	UserEmojiChanged,
	ChatGroupMessageSent,
	PadContent,
	PollStarted,
	PollResponded,
	RapPublished,
	RapUnpublished,
	RapDeleted,
	RapArchiveStarted,
	RapArchiveEnded,
	RapSanityStarted,
	RapSanityEnded,
	RapPostArchiveStarted,
	RapPostArchiveEnded,
	RapProcessStarted,
	RapProcessEnded,
	RapPostProcessStarted,
	RapPostProcessEnded,
	RapPublishStarted,
	RapPublishEnded,
	RapPostPublishStarted,
	RapPostPublishEnded,
}

var outputEventSet = func() map[string]struct{} {
	set := make(map[string]struct{}, len(OutputEvents))
	for _, name := range OutputEvents {
		set[name] = struct{}{}
	}
	return set
}()

// KnownOutput reports whether name is a member of the canonical name set.
func KnownOutput(name string) bool {
	_, ok := outputEventSet[name]
	return ok
}
