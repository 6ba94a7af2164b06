package courier

import (
	"fmt"
	"io"
	"sync/atomic"
	"unicode/utf8"
)

// SendableEmail is the complete unit of delivery work: one envelope, one
// opaque message-ID string, and one message payload.
//
// The envelope and message ID can be read any number of times, but the
// payload is consumed exactly once, by Message() or MessageString() or by
// the transport the email is handed to. There is no partially-consumed or
// reusable state; a second consumption attempt returns ErrMessageConsumed.
type SendableEmail struct {
	envelope  Envelope
	messageID string
	message   *Message
	consumed  atomic.Bool
}

// NewSendableEmail creates a sendable email whose payload is the given byte
// buffer, wrapped in a replayable cursor starting at offset 0.
func NewSendableEmail(envelope Envelope, messageID string, message []byte) *SendableEmail {
	return &SendableEmail{
		envelope:  envelope,
		messageID: messageID,
		message:   newBufferMessage(message),
	}
}

// NewSendableEmailFromReader creates a sendable email whose payload streams
// from the given source. The email takes exclusive ownership of source; the
// caller must not read from it afterward. Streaming payloads cannot be
// replayed once drained.
func NewSendableEmailFromReader(envelope Envelope, messageID string, source io.Reader) *SendableEmail {
	return &SendableEmail{
		envelope:  envelope,
		messageID: messageID,
		message:   newReaderMessage(source),
	}
}

// Envelope returns the routing envelope. It does not consume the email.
func (e *SendableEmail) Envelope() Envelope {
	return e.envelope
}

// MessageID returns the opaque message identifier supplied at construction,
// byte-for-byte. It does not consume the email.
func (e *SendableEmail) MessageID() string {
	return e.messageID
}

// Message consumes the email and returns its payload for draining.
// Returns ErrMessageConsumed if the payload was already claimed.
func (e *SendableEmail) Message() (*Message, error) {
	if !e.consumed.CompareAndSwap(false, true) {
		return nil, ErrMessageConsumed
	}
	return e.message, nil
}

// MessageString consumes the email, fully drains its payload, and decodes
// it as UTF-8 text.
//
// Failures are content errors, distinct from the envelope construction
// taxonomy: an underlying read failure is returned wrapped, and bytes that
// are not valid UTF-8 fail with ErrInvalidUTF8.
func (e *SendableEmail) MessageString() (string, error) {
	msg, err := e.Message()
	if err != nil {
		return "", err
	}
	body, err := io.ReadAll(msg)
	if err != nil {
		return "", fmt.Errorf("courier: read message %s: %w", e.messageID, err)
	}
	if !utf8.Valid(body) {
		return "", ErrInvalidUTF8
	}
	return string(body), nil
}
