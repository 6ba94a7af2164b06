package courier

import "context"

// Transport is a pluggable delivery backend.
//
// Implementations perform the actual handoff of an email: speaking a wire
// protocol, invoking a local mail agent, dumping to a file, or doing
// nothing at all for a test stub. Error semantics beyond the contract below
// are backend-specific.
//
// Contract for every implementation:
//   - Send takes full ownership of email. The caller must not reuse it
//     afterward, and cannot: the payload is single-use.
//   - Send must fully drain the message before returning, even on failure
//     paths it controls. Streaming payloads are not re-readable, so a
//     partial drain loses data for any retry.
//   - Retries happen on freshly constructed emails (see EmailFactory),
//     never by re-sending the same instance.
//
// Concurrent Send calls on different emails are independent and need no
// coordination from the caller.
type Transport interface {
	// Send delivers the email.
	Send(ctx context.Context, email *SendableEmail) error
}

// EmailFactory produces a fresh SendableEmail per call.
//
// Retrying senders use a factory instead of a captured email because a
// consumed email cannot be replayed; each delivery attempt gets its own
// instance.
type EmailFactory func(ctx context.Context) (*SendableEmail, error)
