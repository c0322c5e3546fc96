package logging

import "log/slog"

// Common field names for consistent logging across the bridge.
const (
	FieldService  = "service"
	FieldEventID  = "event_id"
	FieldChannel  = "channel"
	FieldCategory = "category"
	FieldError    = "error"
)

// Service returns a slog attribute for the service name.
func Service(name string) slog.Attr {
	return slog.String(FieldService, name)
}

// EventID returns a slog attribute for an event ID.
func EventID(id string) slog.Attr {
	return slog.String(FieldEventID, id)
}

// Channel returns a slog attribute for a bus channel name.
func Channel(name string) slog.Attr {
	return slog.String(FieldChannel, name)
}

// Category returns a slog attribute for an event category.
func Category(name string) slog.Attr {
	return slog.String(FieldCategory, name)
}

// Error returns a slog attribute for an error.
func Error(err error) slog.Attr {
	return slog.String(FieldError, err.Error())
}
