// Package courier provides the core data types for composing and
// dispatching email in Go.
//
// It defines validated sender/recipient envelopes, a message payload that
// can be backed by an in-memory buffer or a streaming byte source, the
// SendableEmail aggregate that ties them together, and the Transport
// interface that delivery backends implement.
//
// # Basic Usage
//
//	from, _ := courier.NewEmailAddress("alice@example.org")
//	to, _ := courier.NewEmailAddress("bob@example.org")
//
//	envelope, err := courier.NewEnvelope(&from, []courier.EmailAddress{to})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	email := courier.NewSendableEmail(envelope, courier.NewMessageID(), []byte("Hello"))
//
//	// Hand the email to exactly one transport.
//	if err := transport.Send(ctx, email); err != nil {
//	    log.Fatal(err)
//	}
//
// # Ownership
//
// A SendableEmail is consumed exactly once. Envelope() and MessageID() may
// be called any number of times, but Message() and MessageString() claim
// the payload; after either succeeds, further consumption attempts return
// ErrMessageConsumed. Transports take full ownership of the emails they
// are handed and must drain the payload before returning, because the
// streaming message shape cannot be replayed.
//
// # Transports
//
// The transport subpackages provide delivery backends and decorators:
//   - transport/stub - drains and discards, for tests and wiring checks
//   - transport/file - dumps each email as a JSON document to a directory
//   - transport/memory - retains sent emails in memory for inspection
//   - transport/otel - OpenTelemetry tracing/metrics around any transport
//   - transport/retry - backoff retries over freshly built emails
//
// Anything that implements Transport participates as a delivery backend;
// protocol clients and local mail agents plug in the same way.
package courier
