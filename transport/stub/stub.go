// Package stub provides a transport that delivers nowhere.
//
// The stub drains every email it is handed and reports a canned outcome.
// It is the baseline conformance check for the Transport contract and a
// drop-in backend for tests and dry-run wiring.
package stub

import (
	"context"
	"io"
	"log/slog"

	"github.com/jfernandez/courier"
)

// Transport is a no-op delivery backend.
// The zero value is not usable; create one with New or NewFailing.
type Transport struct {
	err    error
	logger *slog.Logger
}

// Compile-time check that Transport implements courier.Transport.
var _ courier.Transport = (*Transport)(nil)

// New creates a stub transport that always reports success.
func New(opts ...Option) *Transport {
	t := &Transport{logger: slog.Default()}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// NewFailing creates a stub transport that drains each email and then
// reports err. Useful for exercising caller failure paths.
func NewFailing(err error, opts ...Option) *Transport {
	t := New(opts...)
	t.err = err
	return t
}

// Option configures a stub transport.
type Option func(*Transport)

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) Option {
	return func(t *Transport) {
		if l != nil {
			t.logger = l
		}
	}
}

// Send consumes and drains the email, then returns the canned outcome.
// The drain honors the Transport contract even though the bytes go nowhere.
func (t *Transport) Send(ctx context.Context, email *courier.SendableEmail) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	messageID := email.MessageID()
	envelope := email.Envelope()

	msg, err := email.Message()
	if err != nil {
		return err
	}
	if _, err := io.Copy(io.Discard, msg); err != nil {
		return err
	}

	from := ""
	if sender := envelope.From(); sender != nil {
		from = sender.String()
	}
	recipients := make([]string, 0, len(envelope.To()))
	for _, addr := range envelope.To() {
		recipients = append(recipients, addr.String())
	}

	t.logger.Debug("stub email sent",
		"message_id", messageID,
		"from", from,
		"to", recipients,
	)

	return t.err
}
