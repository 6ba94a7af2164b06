// Package retry provides a retrying sender with exponential backoff.
//
// A consumed email cannot be re-sent: the streaming message shape yields
// nothing on a second drain. The sender therefore retries by building a
// fresh SendableEmail per attempt through a courier.EmailFactory, never by
// replaying an instance the wrapped transport already consumed.
package retry

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/jfernandez/courier"
)

// Config controls how a Sender retries failed sends.
type Config struct {
	// MaxRetries bounds how many times a failed send is reattempted.
	// Zero means a single attempt with no retries. Default 3.
	MaxRetries int

	// InitialBackoff is how long to wait before the first retry.
	// Default 100ms.
	InitialBackoff time.Duration

	// MaxBackoff is an upper bound on any single backoff. Default 30s.
	MaxBackoff time.Duration

	// Multiplier scales the backoff between consecutive attempts.
	// Default 2.0.
	Multiplier float64

	// Jitter randomizes each backoff so that concurrent senders do not
	// retry in lockstep. A value of 0 disables it; 1 allows the full
	// +/- 100% spread. Default 0.1.
	Jitter float64

	// IsRetryable classifies a send error as transient or permanent.
	// Nil falls back to DefaultIsRetryable.
	IsRetryable func(error) bool
}

// DefaultConfig returns the recommended retry policy.
func DefaultConfig() Config {
	return Config{
		MaxRetries:     3,
		InitialBackoff: 100 * time.Millisecond,
		MaxBackoff:     30 * time.Second,
		Multiplier:     2.0,
		Jitter:         0.1,
		IsRetryable:    DefaultIsRetryable,
	}
}

// Sentinel errors.
var (
	// ErrNotRetryable marks send errors that must not be retried.
	ErrNotRetryable = errors.New("retry: error is not retryable")

	// ErrMaxRetries reports that every allowed attempt failed.
	ErrMaxRetries = errors.New("retry: max retries exceeded")

	// ErrContextCanceled reports that the context ended mid-retry.
	ErrContextCanceled = errors.New("retry: context canceled")
)

// Sender sends freshly built emails through a transport, retrying
// transient failures with exponential backoff.
type Sender struct {
	transport courier.Transport
	cfg       Config
}

// New creates a retrying sender over the given transport.
func New(transport courier.Transport, cfg Config) *Sender {
	return &Sender{
		transport: transport,
		cfg:       applyDefaults(cfg),
	}
}

// Send builds an email with factory and sends it, retrying according to
// the sender's Config. Each attempt gets a fresh email from the factory;
// factory failures are never retried, since they indicate the caller
// cannot produce the email at all.
//
// Returns nil on success, or a *SendError describing the failed attempts.
func (s *Sender) Send(ctx context.Context, factory courier.EmailFactory) error {
	var lastErr error
	for attempt := 0; attempt <= s.cfg.MaxRetries; attempt++ {
		// Bail out early if the caller has already given up.
		if ctx.Err() != nil {
			if lastErr != nil {
				return &SendError{
					Cause:    lastErr,
					Attempts: attempt,
					Err:      ErrContextCanceled,
				}
			}
			return ctx.Err()
		}

		email, err := factory(ctx)
		if err != nil {
			return &SendError{
				Cause:    err,
				Attempts: attempt + 1,
				Err:      ErrNotRetryable,
			}
		}

		err = s.transport.Send(ctx, email)
		if err == nil {
			return nil
		}

		lastErr = err

		if !s.cfg.IsRetryable(err) {
			return &SendError{
				Cause:    err,
				Attempts: attempt + 1,
				Err:      ErrNotRetryable,
			}
		}

		// No backoff once the final attempt has failed.
		if attempt < s.cfg.MaxRetries {
			backoff := calculateBackoff(s.cfg, attempt)
			select {
			case <-ctx.Done():
				return &SendError{
					Cause:    lastErr,
					Attempts: attempt + 1,
					Err:      ErrContextCanceled,
				}
			case <-time.After(backoff):
			}
		}
	}

	return &SendError{
		Cause:    lastErr,
		Attempts: s.cfg.MaxRetries + 1,
		Err:      ErrMaxRetries,
	}
}

// SendError describes a send that was given up on.
type SendError struct {
	// Cause is the last error seen from the transport or factory.
	Cause error

	// Attempts counts how many sends were attempted before giving up.
	Attempts int

	// Err names why the sender stopped: ErrMaxRetries, ErrNotRetryable,
	// or ErrContextCanceled.
	Err error
}

func (e *SendError) Error() string {
	return fmt.Sprintf("retry: send failed after %d attempts (%s): %s", e.Attempts, e.Err, e.Cause)
}

func (e *SendError) Unwrap() error {
	return e.Cause
}

func (e *SendError) Is(target error) bool {
	return errors.Is(e.Err, target) || errors.Is(e.Cause, target)
}

// calculateBackoff returns how long to wait after the given attempt:
// InitialBackoff grown by Multiplier per attempt, capped at MaxBackoff,
// then spread by Jitter.
func calculateBackoff(cfg Config, attempt int) time.Duration {
	backoff := float64(cfg.InitialBackoff) * math.Pow(cfg.Multiplier, float64(attempt))

	if backoff > float64(cfg.MaxBackoff) {
		backoff = float64(cfg.MaxBackoff)
	}

	if cfg.Jitter > 0 {
		jitterRange := backoff * cfg.Jitter
		backoff = backoff - jitterRange + (rand.Float64() * 2 * jitterRange)
	}

	return time.Duration(backoff)
}

// applyDefaults normalizes cfg, replacing unset or out-of-range fields
// with the DefaultConfig values.
func applyDefaults(cfg Config) Config {
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.InitialBackoff <= 0 {
		cfg.InitialBackoff = 100 * time.Millisecond
	}
	if cfg.MaxBackoff <= 0 {
		cfg.MaxBackoff = 30 * time.Second
	}
	if cfg.Multiplier <= 0 {
		cfg.Multiplier = 2.0
	}
	if cfg.Jitter < 0 {
		cfg.Jitter = 0
	}
	if cfg.Jitter > 1 {
		cfg.Jitter = 1
	}
	if cfg.IsRetryable == nil {
		cfg.IsRetryable = DefaultIsRetryable
	}
	return cfg
}

// DefaultIsRetryable is the classification used when Config.IsRetryable
// is nil. It treats ErrNotRetryable and consumed-email errors as
// permanent, trusts a Retryable() bool method on the error when one is
// present, and considers everything else transient.
func DefaultIsRetryable(err error) bool {
	if err == nil {
		return false
	}

	// Explicit non-retryable marker wins.
	if errors.Is(err, ErrNotRetryable) {
		return false
	}

	// A consumed email can never succeed on a re-send.
	if errors.Is(err, courier.ErrMessageConsumed) {
		return false
	}

	var retryable interface{ Retryable() bool }
	if errors.As(err, &retryable) {
		return retryable.Retryable()
	}

	return true
}

// MarkNotRetryable wraps err so the sender gives up on it immediately.
func MarkNotRetryable(err error) error {
	if err == nil {
		return nil
	}
	return &notRetryableError{cause: err}
}

type notRetryableError struct {
	cause error
}

func (e *notRetryableError) Error() string {
	return e.cause.Error()
}

func (e *notRetryableError) Unwrap() error {
	return e.cause
}

func (e *notRetryableError) Retryable() bool {
	return false
}

// MarkRetryable wraps err so the sender treats it as transient even if
// the default classification would not.
func MarkRetryable(err error) error {
	if err == nil {
		return nil
	}
	return &retryableError{cause: err}
}

type retryableError struct {
	cause error
}

func (e *retryableError) Error() string {
	return e.cause.Error()
}

func (e *retryableError) Unwrap() error {
	return e.cause
}

func (e *retryableError) Retryable() bool {
	return true
}
