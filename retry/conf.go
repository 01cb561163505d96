package retry

import "time"

const (
	// DefaultAttempts is the attempt budget when WithAttempts is not given.
	DefaultAttempts = 3

	// DefaultBackoff is the base backoff when WithBackoff is not given.
	DefaultBackoff = 500 * time.Millisecond

	// DefaultJitter is the jitter bound when WithJitter is not given.
	DefaultJitter = 25 * time.Millisecond
)

// Option is a functional option for configuring retry behaviour.
type Option func(*config)

type config struct {
	attempts   int
	backoff    time.Duration
	jitter     time.Duration
	maxBackoff time.Duration
	onError    func(error)
}

// WithAttempts sets the total attempt budget, including the first call.
// Values below 1 are ignored. Defaults to DefaultAttempts.
func WithAttempts(n int) Option {
	return func(cfg *config) {
		if n > 0 {
			cfg.attempts = n
		}
	}
}

// WithBackoff sets the base backoff duration. The wait after the n-th
// failed attempt is backoff * 2^n plus jitter. Negative values are
// ignored. Defaults to DefaultBackoff.
func WithBackoff(d time.Duration) Option {
	return func(cfg *config) {
		if d >= 0 {
			cfg.backoff = d
		}
	}
}

// WithJitter sets the exclusive upper bound of the random addition to
// each backoff wait. Zero disables jitter; negative values are
// ignored. Defaults to DefaultJitter.
func WithJitter(d time.Duration) Option {
	return func(cfg *config) {
		if d >= 0 {
			cfg.jitter = d
		}
	}
}

// WithMaxBackoff caps the pre-jitter backoff wait. There is no cap by
// default, so a large attempt budget can produce very long waits; set
// this when that matters. Non-positive values are ignored.
func WithMaxBackoff(d time.Duration) Option {
	return func(cfg *config) {
		if d > 0 {
			cfg.maxBackoff = d
		}
	}
}

// WithOnError registers an observer invoked with the error of every
// failed attempt, the final one included. It is a side-channel for
// logging or metrics; nothing it returns is consumed, and a panic in
// the observer propagates to the caller.
func WithOnError(fn func(error)) Option {
	return func(cfg *config) {
		cfg.onError = fn
	}
}

func newConfig(opts ...Option) *config {
	cfg := &config{
		attempts: DefaultAttempts,
		backoff:  DefaultBackoff,
		jitter:   DefaultJitter,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}
