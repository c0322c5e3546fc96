package mapping

import (
	"errors"
	"fmt"
)

// ErrMalformedEvent indicates a raw event matched a known category but is
// missing a nested field the projection requires. This usually means the
// internal message schema drifted and operators need to know; it is never
// folded into a silent drop.
var ErrMalformedEvent = errors.New("malformed event")

func malformed(typeName, path string) error {
	return fmt.Errorf("%w: %s: missing %s", ErrMalformedEvent, typeName, path)
}
