package courier

import (
	"context"
	"fmt"

	"golang.org/x/sync/semaphore"
)

// SendResult contains the outcome of a single send within a bulk send.
// Results are returned in the same order as the input emails.
type SendResult struct {
	// MessageID is the identifier of the email that was sent.
	MessageID string
	// Success indicates whether the send succeeded.
	Success bool
	// Error contains the transport error if the send failed (nil if
	// successful).
	Error error
}

// BulkResult contains the result of a bulk send.
//
// Results match the input order regardless of completion order. Use the
// helper methods to check status and iterate results.
type BulkResult struct {
	// Results contains the outcome of each send in input order.
	Results []SendResult
}

// SuccessCount returns the number of successful sends.
func (r *BulkResult) SuccessCount() int {
	if r == nil {
		return 0
	}
	count := 0
	for _, res := range r.Results {
		if res.Success {
			count++
		}
	}
	return count
}

// FailureCount returns the number of failed sends.
func (r *BulkResult) FailureCount() int {
	if r == nil {
		return 0
	}
	count := 0
	for _, res := range r.Results {
		if !res.Success {
			count++
		}
	}
	return count
}

// HasFailures returns true if any sends failed.
func (r *BulkResult) HasFailures() bool {
	if r == nil {
		return false
	}
	for _, res := range r.Results {
		if !res.Success {
			return true
		}
	}
	return false
}

// TotalCount returns the total number of emails processed.
func (r *BulkResult) TotalCount() int {
	if r == nil {
		return 0
	}
	return len(r.Results)
}

// FailedIDs returns the message IDs of emails that failed to send.
func (r *BulkResult) FailedIDs() []string {
	if r == nil {
		return nil
	}
	var ids []string
	for _, res := range r.Results {
		if !res.Success {
			ids = append(ids, res.MessageID)
		}
	}
	return ids
}

// Err returns an error if any sends failed, nil otherwise.
func (r *BulkResult) Err() error {
	if !r.HasFailures() {
		return nil
	}
	return &BulkSendError{Result: r}
}

// BulkSendError is returned when a bulk send has failures.
// It wraps BulkResult to carry per-email details through the error.
type BulkSendError struct {
	Result *BulkResult
}

// Error implements the error interface.
func (e *BulkSendError) Error() string {
	return fmt.Sprintf("courier: bulk send failed for %d of %d emails",
		e.Result.FailureCount(), e.Result.TotalCount())
}

// SendBulk sends each email through the transport, limiting the number of
// in-flight sends. Each email is an independent delivery: one failure does
// not stop the others, and no ordering is imposed across sends.
//
// Every email whose send starts is consumed by the transport regardless of
// outcome; if ctx is canceled before a send can start, that email is
// recorded as failed with the context error and keeps its payload.
// SendBulk returns only after every started send has finished recording
// its result. The returned BulkResult lists one SendResult per input
// email, in input order; the error is either nil, a *BulkSendError
// describing partial failure, or the context error if ctx was canceled.
func SendBulk(ctx context.Context, transport Transport, emails []*SendableEmail, opts ...Option) (*BulkResult, error) {
	o := newOptions(opts...)

	result := &BulkResult{Results: make([]SendResult, len(emails))}
	sem := semaphore.NewWeighted(int64(o.maxConcurrent))

	for i, email := range emails {
		if err := sem.Acquire(ctx, 1); err != nil {
			// Context canceled: record the remaining emails as failed
			// without consuming them.
			for j := i; j < len(emails); j++ {
				result.Results[j] = SendResult{
					MessageID: emails[j].MessageID(),
					Error:     err,
				}
			}
			// Wait for in-flight sends before returning.
			if werr := sem.Acquire(context.Background(), int64(o.maxConcurrent)); werr == nil {
				sem.Release(int64(o.maxConcurrent))
			}
			return result, err
		}

		go func(i int, email *SendableEmail) {
			defer sem.Release(1)
			res := SendResult{MessageID: email.MessageID()}
			if err := transport.Send(ctx, email); err != nil {
				res.Error = err
				o.logger.Error("bulk send failed",
					"message_id", res.MessageID,
					"error", err,
				)
			} else {
				res.Success = true
			}
			result.Results[i] = res
		}(i, email)
	}

	// Drain the semaphore to join all in-flight sends. This must not use
	// ctx: the caller's context may already be canceled, and returning
	// early would race with goroutines still recording results.
	if err := sem.Acquire(context.Background(), int64(o.maxConcurrent)); err != nil {
		return result, err
	}
	sem.Release(int64(o.maxConcurrent))

	if err := ctx.Err(); err != nil {
		return result, err
	}
	return result, result.Err()
}
