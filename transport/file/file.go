// Package file provides a transport that dumps each email to a directory.
//
// Every sent email becomes one JSON document named <message_id>.json
// containing the envelope, the message ID, and the drained message text.
// The dump format is stable and round-trippable, so it doubles as a simple
// persistence and inspection mechanism.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/jfernandez/courier"
)

// DefaultFileMode is the permission mode for written dump files.
const DefaultFileMode fs.FileMode = 0o644

// ErrInvalidMessageID is returned when a message ID cannot be used as a
// dump file name. Message IDs are caller-supplied opaque strings, so IDs
// containing path separators are rejected rather than allowed to escape
// the dump directory.
var ErrInvalidMessageID = errors.New("file: message id must not contain path separators")

// checkMessageID rejects IDs that would resolve outside the dump directory.
func checkMessageID(messageID string) error {
	if strings.ContainsAny(messageID, `/\`) || messageID == ".." {
		return fmt.Errorf("%w: %q", ErrInvalidMessageID, messageID)
	}
	return nil
}

// Email is the on-disk form of a sent email.
type Email struct {
	Envelope  courier.Envelope `json:"envelope"`
	MessageID string           `json:"message_id"`
	Message   string           `json:"message"`
}

// Transport writes emails as JSON documents into a directory.
type Transport struct {
	dir    string
	mode   fs.FileMode
	logger *slog.Logger
}

// Compile-time check that Transport implements courier.Transport.
var _ courier.Transport = (*Transport)(nil)

// New creates a file transport writing into dir. The directory must exist
// and be writable.
func New(dir string, opts ...Option) *Transport {
	t := &Transport{
		dir:    dir,
		mode:   DefaultFileMode,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Option configures a file transport.
type Option func(*Transport)

// WithFileMode sets the permission mode for written files.
// Default is 0644.
func WithFileMode(mode fs.FileMode) Option {
	return func(t *Transport) {
		t.mode = mode
	}
}

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) Option {
	return func(t *Transport) {
		if l != nil {
			t.logger = l
		}
	}
}

// Send consumes the email and writes it to <dir>/<message_id>.json.
// The message is drained as UTF-8 text; draining or decoding failures are
// returned before anything is written. Message IDs containing path
// separators fail with ErrInvalidMessageID without consuming the email.
func (t *Transport) Send(ctx context.Context, email *courier.SendableEmail) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	messageID := email.MessageID()
	if err := checkMessageID(messageID); err != nil {
		return err
	}
	envelope := email.Envelope()

	message, err := email.MessageString()
	if err != nil {
		return err
	}

	data, err := json.Marshal(Email{
		Envelope:  envelope,
		MessageID: messageID,
		Message:   message,
	})
	if err != nil {
		return fmt.Errorf("file: encode email %s: %w", messageID, err)
	}

	path := filepath.Join(t.dir, messageID+".json")
	if err := os.WriteFile(path, data, t.mode); err != nil {
		return fmt.Errorf("file: write email %s: %w", messageID, err)
	}

	t.logger.Debug("email written",
		"message_id", messageID,
		"path", path,
	)

	return nil
}

// Read loads a previously dumped email from dir by message ID.
// The envelope is re-validated during decoding.
func Read(dir, messageID string) (*Email, error) {
	if err := checkMessageID(messageID); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(dir, messageID+".json"))
	if err != nil {
		return nil, fmt.Errorf("file: read email %s: %w", messageID, err)
	}
	var email Email
	if err := json.Unmarshal(data, &email); err != nil {
		return nil, fmt.Errorf("file: decode email %s: %w", messageID, err)
	}
	return &email, nil
}
