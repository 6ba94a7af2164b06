package courier

import "errors"

// Sentinel errors for envelope and address construction.
// Use errors.Is() to check for these errors.
//
// This is a closed set: constructors return these values and nothing else.
// Callers can rely on every construction failure matching exactly one of
// them.
var (
	// ErrMissingFrom is returned when an envelope requires a sender address
	// and none was provided.
	//
	// No current constructor returns it: an absent sender models the null
	// (bounce) sender and is valid. The value is reserved for a future
	// strict-submission policy and must remain stable so callers can match
	// it today.
	ErrMissingFrom = errors.New("courier: missing source address, invalid envelope")

	// ErrMissingTo is returned by NewEnvelope when the recipient list is
	// empty. An envelope must have at least one recipient.
	ErrMissingTo = errors.New("courier: missing destination address, invalid envelope")

	// ErrInvalidEmailAddress is returned when an address fails syntax
	// validation.
	//
	// NewEmailAddress performs no syntax validation today, so this value is
	// currently unreachable. It is reserved so real validation can be added
	// without an interface break.
	ErrInvalidEmailAddress = errors.New("courier: invalid email address")
)

// Content and usage errors, distinct from the construction taxonomy above.
// Draining a message surfaces I/O and decoding failures through these (or
// through the underlying read error); it never returns the validation
// sentinels.
var (
	// ErrMessageConsumed is returned when the message payload of a
	// SendableEmail is claimed more than once. A SendableEmail is a
	// single-use value: after Message() or MessageString() succeeds, the
	// payload is gone.
	ErrMessageConsumed = errors.New("courier: message already consumed")

	// ErrInvalidUTF8 is returned by MessageString when the drained message
	// bytes are not valid UTF-8.
	ErrInvalidUTF8 = errors.New("courier: message body is not valid utf-8")
)
