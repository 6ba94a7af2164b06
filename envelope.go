package courier

import (
	"encoding/json"
	"fmt"
	"slices"
)

// Envelope is the sender and recipient routing information of an email,
// distinct from its headers or body.
//
// An Envelope is immutable once built: NewEnvelope is the only way to
// create one, and the accessors return copies. The recipient sequence is
// never empty and its order is significant. Only plain addresses are
// accepted; source routes are not supported, per RFC 5321.
type Envelope struct {
	// forwardPath holds the recipient addresses. Never empty.
	forwardPath []EmailAddress
	// reversePath holds the sender address. nil models the null (bounce)
	// sender.
	reversePath *EmailAddress
}

// NewEnvelope creates an envelope from an optional sender and a list of
// recipients. It fails with ErrMissingTo if to is empty; a nil from is
// valid and models the null sender. Recipient order is preserved.
func NewEnvelope(from *EmailAddress, to []EmailAddress) (Envelope, error) {
	if len(to) == 0 {
		return Envelope{}, ErrMissingTo
	}
	e := Envelope{forwardPath: slices.Clone(to)}
	if from != nil {
		sender := *from
		e.reversePath = &sender
	}
	return e, nil
}

// To returns the destination addresses of the envelope, in order.
// The returned slice is a copy; mutating it does not affect the envelope.
func (e Envelope) To() []EmailAddress {
	return slices.Clone(e.forwardPath)
}

// From returns the source address of the envelope, or nil for the null
// sender. The returned pointer refers to a copy.
func (e Envelope) From() *EmailAddress {
	if e.reversePath == nil {
		return nil
	}
	sender := *e.reversePath
	return &sender
}

// Equal reports whether two envelopes have the same sender and the same
// recipients in the same order.
func (e Envelope) Equal(other Envelope) bool {
	if (e.reversePath == nil) != (other.reversePath == nil) {
		return false
	}
	if e.reversePath != nil && *e.reversePath != *other.reversePath {
		return false
	}
	return slices.Equal(e.forwardPath, other.forwardPath)
}

// envelopeJSON is the wire form of an Envelope: a recipient list and an
// optional sender, matching the in-memory field layout. Used by
// persistence-oriented transports such as the file dump.
type envelopeJSON struct {
	ForwardPath []EmailAddress `json:"forward_path"`
	ReversePath *EmailAddress  `json:"reverse_path"`
}

// MarshalJSON implements json.Marshaler.
func (e Envelope) MarshalJSON() ([]byte, error) {
	return json.Marshal(envelopeJSON{
		ForwardPath: e.forwardPath,
		ReversePath: e.reversePath,
	})
}

// UnmarshalJSON implements json.Unmarshaler.
// The decoded envelope passes through NewEnvelope, so the non-empty
// recipient invariant holds for deserialized envelopes too.
func (e *Envelope) UnmarshalJSON(data []byte) error {
	var raw envelopeJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("courier: decode envelope: %w", err)
	}
	env, err := NewEnvelope(raw.ReversePath, raw.ForwardPath)
	if err != nil {
		return err
	}
	*e = env
	return nil
}
