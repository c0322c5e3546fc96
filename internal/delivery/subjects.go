package delivery

// Subject constants for the bridge's message bus output.
// Follow the pattern: {domain}.{action}.{resource}
const (
	// SubjectEvents is the prefix for published canonical events; the
	// canonical event id is appended so consumers can subscribe per event
	// type (webhooks.events.meeting-created) or to everything
	// (webhooks.events.>).
	SubjectEvents = "webhooks.events"

	// SubjectQuarantine is the prefix for quarantined events; the failure
	// reason is appended.
	SubjectQuarantine = "webhooks.quarantine"

	// StreamQuarantine is the JetStream stream capturing quarantined events.
	StreamQuarantine = "WEBHOOKS_QUARANTINE"
)

// EventSubject returns the publish subject for a canonical event id.
// Example: webhooks.events.user-joined
func EventSubject(id string) string {
	return SubjectEvents + "." + id
}

// QuarantineSubject returns the quarantine subject for a failure reason.
// Example: webhooks.quarantine.malformed
func QuarantineSubject(reason string) string {
	return SubjectQuarantine + "." + reason
}
