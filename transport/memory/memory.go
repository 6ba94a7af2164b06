// Package memory provides a transport that retains sent emails in memory.
// Intended for tests and local development - nothing is persisted.
package memory

import (
	"context"
	"io"
	"sync"

	"github.com/jfernandez/courier"
)

// SentEmail is a fully drained email recorded by the transport.
type SentEmail struct {
	// Envelope is the routing envelope of the email.
	Envelope courier.Envelope
	// MessageID is the email's message identifier.
	MessageID string
	// Body is the drained message payload.
	Body []byte
}

// clone returns a defensive copy so callers cannot mutate recorded state.
func (s *SentEmail) clone() *SentEmail {
	body := make([]byte, len(s.Body))
	copy(body, s.Body)
	return &SentEmail{
		Envelope:  s.Envelope,
		MessageID: s.MessageID,
		Body:      body,
	}
}

// Transport records every email it is handed.
// Thread-safe for concurrent use.
type Transport struct {
	mu   sync.RWMutex
	sent []*SentEmail
	byID map[string]*SentEmail
}

// Compile-time check that Transport implements courier.Transport.
var _ courier.Transport = (*Transport)(nil)

// New creates a new in-memory transport.
func New() *Transport {
	return &Transport{byID: make(map[string]*SentEmail)}
}

// Send consumes and drains the email, recording its envelope, message ID,
// and body. A later send with the same message ID overwrites the lookup
// entry but both sends stay in the ordered history.
func (t *Transport) Send(ctx context.Context, email *courier.SendableEmail) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg, err := email.Message()
	if err != nil {
		return err
	}
	body, err := io.ReadAll(msg)
	if err != nil {
		return err
	}

	rec := &SentEmail{
		Envelope:  email.Envelope(),
		MessageID: email.MessageID(),
		Body:      body,
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.sent = append(t.sent, rec)
	t.byID[rec.MessageID] = rec
	return nil
}

// Get returns the recorded email with the given message ID, or false if no
// email with that ID was sent.
func (t *Transport) Get(messageID string) (*SentEmail, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	rec, ok := t.byID[messageID]
	if !ok {
		return nil, false
	}
	return rec.clone(), true
}

// All returns every recorded email in send order.
func (t *Transport) All() []*SentEmail {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]*SentEmail, len(t.sent))
	for i, rec := range t.sent {
		out[i] = rec.clone()
	}
	return out
}

// Len returns the number of recorded emails.
func (t *Transport) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.sent)
}

// Reset discards all recorded emails.
func (t *Transport) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sent = nil
	t.byID = make(map[string]*SentEmail)
}
