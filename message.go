package courier

import (
	"bytes"
	"io"
)

// messageKind tags the two payload shapes of a Message.
type messageKind int

const (
	// messageBuffer is an owned in-memory byte buffer behind a replayable
	// read cursor.
	messageBuffer messageKind = iota
	// messageReader is a type-erased streaming byte source.
	messageReader
)

// Message is the payload of a SendableEmail.
//
// It is a closed variant over exactly two shapes: an owned in-memory byte
// buffer exposed through a seekable cursor, or a streaming byte source.
// Both shapes expose the same contract through Read. The streaming shape is
// generally not re-readable: once drained, further reads return io.EOF, not
// the original content.
//
// A Message is exclusively owned. Construction and consumption commonly
// happen on different goroutines (build the email in a request handler,
// drain it in a delivery worker); handing the whole value over is safe as
// long as exactly one goroutine holds it at a time, which the
// single-consumption contract of SendableEmail guarantees.
type Message struct {
	kind   messageKind
	buffer *bytes.Reader
	source io.Reader
}

// newBufferMessage wraps body in a replayable cursor positioned at offset 0.
func newBufferMessage(body []byte) *Message {
	return &Message{
		kind:   messageBuffer,
		buffer: bytes.NewReader(body),
	}
}

// newReaderMessage takes exclusive ownership of source.
func newReaderMessage(source io.Reader) *Message {
	return &Message{
		kind:   messageReader,
		source: source,
	}
}

// Read reads the next chunk of message bytes into p. It returns io.EOF once
// the payload is exhausted and propagates any failure from an underlying
// streaming source.
func (m *Message) Read(p []byte) (int, error) {
	switch m.kind {
	case messageBuffer:
		return m.buffer.Read(p)
	default:
		return m.source.Read(p)
	}
}

// Compile-time check that Message satisfies io.Reader.
var _ io.Reader = (*Message)(nil)
