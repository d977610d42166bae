package retry

import (
	"context"
	"math"
	"math/rand"
	"time"
)

// Config contains retry configuration
type Config struct {
	// MaxRetries is the number of retries after the first attempt (0 = single attempt)
	MaxRetries int
	// InitialInterval is the backoff before the first retry (default: 500ms)
	InitialInterval time.Duration
	// MaxInterval caps the backoff (default: 5s)
	MaxInterval time.Duration
	// Multiplier grows the interval after each retry (default: 2.0)
	Multiplier float64
	// JitterFactor is the random ±fraction applied to each interval (0-1)
	JitterFactor float64
	// ShouldRetry decides whether an error is worth another attempt.
	// Nil retries every error.
	ShouldRetry func(err error) bool
}

// DefaultConfig returns a conservative config for interactive client calls:
// 500ms, 1s, 2s (capped at 5s)
func DefaultConfig() *Config {
	return &Config{
		MaxRetries:      3,
		InitialInterval: 500 * time.Millisecond,
		MaxInterval:     5 * time.Second,
		Multiplier:      2.0,
		JitterFactor:    0.1,
	}
}

// Operation is the function to be retried
type Operation func(ctx context.Context) error

// RetryCallback is called before each retry wait
type RetryCallback func(attempt int, err error, nextInterval time.Duration)

// Result contains the outcome of a retried operation
type Result struct {
	// Err is the error of the last attempt, nil on success
	Err error
	// Attempts is the total number of attempts made (including the first)
	Attempts int
	// TotalDuration includes the backoff waits
	TotalDuration time.Duration
}

// Retrier runs operations with exponential backoff
type Retrier struct {
	config Config
}

// New creates a Retrier, filling zero values with defaults
func New(config *Config) *Retrier {
	if config == nil {
		config = DefaultConfig()
	}
	c := *config

	if c.MaxRetries < 0 {
		c.MaxRetries = 0
	}
	if c.InitialInterval <= 0 {
		c.InitialInterval = 500 * time.Millisecond
	}
	if c.MaxInterval <= 0 {
		c.MaxInterval = 5 * time.Second
	}
	if c.Multiplier <= 0 {
		c.Multiplier = 2.0
	}
	if c.JitterFactor < 0 {
		c.JitterFactor = 0
	}
	if c.JitterFactor > 1 {
		c.JitterFactor = 1
	}

	return &Retrier{config: c}
}

// Do executes the operation with retry logic
func (r *Retrier) Do(ctx context.Context, op Operation) *Result {
	return r.DoWithCallback(ctx, op, nil)
}

// DoWithCallback executes the operation with retry logic and a callback.
// The error of the last attempt is returned as-is so callers keep its type.
func (r *Retrier) DoWithCallback(ctx context.Context, op Operation, callback RetryCallback) *Result {
	start := time.Now()
	result := &Result{}

	for attempt := 0; ; attempt++ {
		result.Attempts = attempt + 1

		err := op(ctx)
		result.Err = err
		if err == nil {
			break
		}

		if attempt >= r.config.MaxRetries {
			break
		}
		if r.config.ShouldRetry != nil && !r.config.ShouldRetry(err) {
			break
		}
		if ctx.Err() != nil {
			break
		}

		interval := r.calculateInterval(attempt)
		if callback != nil {
			callback(attempt+1, err, interval)
		}

		timer := time.NewTimer(interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			result.TotalDuration = time.Since(start)
			return result
		case <-timer.C:
		}
	}

	result.TotalDuration = time.Since(start)
	return result
}

// calculateInterval returns initial * multiplier^attempt with jitter, capped
func (r *Retrier) calculateInterval(attempt int) time.Duration {
	interval := float64(r.config.InitialInterval) * math.Pow(r.config.Multiplier, float64(attempt))

	if r.config.JitterFactor > 0 {
		jitter := interval * r.config.JitterFactor
		interval = interval + (rand.Float64()*2-1)*jitter
	}

	if interval > float64(r.config.MaxInterval) {
		interval = float64(r.config.MaxInterval)
	}
	if interval < 0 {
		interval = float64(r.config.InitialInterval)
	}

	return time.Duration(interval)
}
