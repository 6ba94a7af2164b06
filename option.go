package courier

import "log/slog"

// Default configuration values.
const (
	// DefaultMaxConcurrentSends caps in-flight sends during SendBulk.
	DefaultMaxConcurrentSends = 10
)

// options holds bulk send configuration.
type options struct {
	maxConcurrent int
	logger        *slog.Logger
}

// newOptions creates options with defaults and applies provided options.
func newOptions(opts ...Option) *options {
	o := &options{
		maxConcurrent: DefaultMaxConcurrentSends,
		logger:        slog.Default(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Option configures a bulk send.
type Option func(*options)

// WithMaxConcurrent sets the maximum number of concurrent sends.
// Default is 10.
func WithMaxConcurrent(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxConcurrent = n
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}
