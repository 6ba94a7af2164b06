package courier

import "github.com/google/uuid"

// NewMessageID generates a unique opaque message identifier.
//
// The ID is an opaque correlation token for delivery logs and transport
// output, not an RFC 5322 Message-ID header value; callers composing
// headers should format their own. Any string is acceptable as a message
// ID, this is only a convenience.
func NewMessageID() string {
	return uuid.New().String()
}
