// internal/common/database/health.go
package database

import (
	"context"
	"fmt"
	"time"
)

// Pinger is a dependency that can report readiness.
type Pinger interface {
	Name() string
	Ping(ctx context.Context) error
}

// CheckAll pings each dependency with its own timeout and returns the
// failures keyed by dependency name.
func CheckAll(ctx context.Context, timeout time.Duration, deps ...Pinger) map[string]string {
	failures := make(map[string]string)
	for _, dep := range deps {
		if dep == nil {
			continue
		}
		pingCtx, cancel := context.WithTimeout(ctx, timeout)
		if err := dep.Ping(pingCtx); err != nil {
			failures[dep.Name()] = err.Error()
		}
		cancel()
	}
	return failures
}

// RetryWithBackoff runs operation up to maxRetries times, doubling the delay
// after each failure. Values below one mean a single attempt.
func RetryWithBackoff(ctx context.Context, operation func(context.Context) error, maxRetries int, initialDelay time.Duration) error {
	if maxRetries < 1 {
		maxRetries = 1
	}
	var err error
	delay := initialDelay
	for i := 0; i < maxRetries; i++ {
		if err = operation(ctx); err == nil {
			return nil
		}
		if i == maxRetries-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		delay *= 2
	}
	return fmt.Errorf("failed after %d attempts: %w", maxRetries, err)
}
