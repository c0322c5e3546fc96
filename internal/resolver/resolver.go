// Package resolver maps internal identifiers to their externally stable
// counterparts. The mapping tables are owned by collaborating stores; the
// bridge consumes them through the narrow interfaces below.
package resolver

import (
	"context"
	"errors"
)

// ErrUnavailable indicates the lookup store itself failed. A missing mapping
// is not an error: lookups return "" for identifiers with no known mapping.
var ErrUnavailable = errors.New("resolver unavailable")

// MeetingResolver resolves internal meeting IDs to external meeting IDs.
type MeetingResolver interface {
	// ExternalMeetingID returns the external ID mapped to internalID, or ""
	// when no mapping exists. Errors wrap ErrUnavailable.
	ExternalMeetingID(ctx context.Context, internalID string) (string, error)
}

// UserResolver resolves internal user IDs to external user IDs.
type UserResolver interface {
	// ExternalUserID returns the external ID mapped to internalID, or ""
	// when no mapping exists. Errors wrap ErrUnavailable.
	ExternalUserID(ctx context.Context, internalID string) (string, error)
}
