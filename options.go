package readuntil

import (
	"log/slog"
	"time"
)

const (
	// Default capacity of the channel between pump and consumer.
	defaultBufferSize = 1024
)

// config holds Reader configuration.
type config struct {
	bufferSize   int
	pollInterval time.Duration
	logger       *slog.Logger
}

// Option configures a Reader.
type Option func(*config)

// WithBufferSize sets how many bytes the pump may read ahead of the
// consumer. When the buffer is full the pump stops reading until Until
// drains it. Values below 1 are treated as 1.
//
// Default: 1024
func WithBufferSize(n int) Option {
	return func(c *config) {
		if n < 1 {
			n = 1
		}
		c.bufferSize = n
	}
}

// WithPollInterval switches Until from blocking wake-up to polling: the
// channel is checked without blocking and the consumer sleeps d between
// empty checks. Zero or negative restores the default.
//
// Default: 0 (wake up as soon as a byte arrives)
func WithPollInterval(d time.Duration) Option {
	return func(c *config) {
		if d < 0 {
			d = 0
		}
		c.pollInterval = d
	}
}

// WithLogger sets the logger used for debug output. nil discards.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}

func newConfig(opts []Option) *config {
	cfg := &config{
		bufferSize: defaultBufferSize,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.New(slog.DiscardHandler)
	}
	return cfg
}
