// internal/workers/ai-conversation/llm-synthesis/retry.go
package llmsynthesis

import (
	"context"
	"time"

	"scholarship-workers/internal/common/config"
)

const (
	DefaultMaxAttempts    = 5
	DefaultInitialDelay   = 500 * time.Millisecond
	DefaultMaxDelay       = 5 * time.Second
	DefaultAttemptTimeout = 15 * time.Second
)

// Policy is applied to each backend separately. MaxAttempts and MaxDelay
// never exceed the defaults.
type Policy struct {
	MaxAttempts    int
	InitialDelay   time.Duration
	MaxDelay       time.Duration
	AttemptTimeout time.Duration
}

func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts:    DefaultMaxAttempts,
		InitialDelay:   DefaultInitialDelay,
		MaxDelay:       DefaultMaxDelay,
		AttemptTimeout: DefaultAttemptTimeout,
	}
}

func PolicyFromConfig(cfg config.CompletionConfig) Policy {
	return Policy{
		MaxAttempts:    cfg.MaxAttempts,
		InitialDelay:   config.GetDuration(cfg.InitialDelayMs),
		MaxDelay:       config.GetDuration(cfg.MaxDelayMs),
		AttemptTimeout: config.GetDuration(cfg.AttemptTimeoutMs),
	}.withDefaults()
}

func (p Policy) withDefaults() Policy {
	d := DefaultPolicy()
	if p.MaxAttempts <= 0 || p.MaxAttempts > d.MaxAttempts {
		p.MaxAttempts = d.MaxAttempts
	}
	if p.MaxDelay <= 0 || p.MaxDelay > d.MaxDelay {
		p.MaxDelay = d.MaxDelay
	}
	if p.InitialDelay <= 0 {
		p.InitialDelay = d.InitialDelay
	}
	if p.InitialDelay > p.MaxDelay {
		p.InitialDelay = p.MaxDelay
	}
	if p.AttemptTimeout <= 0 {
		p.AttemptTimeout = d.AttemptTimeout
	}
	return p
}

// Delay is the wait after a retryable failure of attempt k (0-indexed):
// min(InitialDelay * 2^k, MaxDelay).
func (p Policy) Delay(k int) time.Duration {
	d := p.InitialDelay
	for i := 0; i < k; i++ {
		d *= 2
		if d >= p.MaxDelay {
			return p.MaxDelay
		}
	}
	if d > p.MaxDelay {
		return p.MaxDelay
	}
	return d
}

// sleep waits for d or until ctx is done. Tests replace it.
var sleep = func(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
