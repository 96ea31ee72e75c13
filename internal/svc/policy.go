package svc

import (
	"context"
	"time"
)

// RetryMode selects how a StandardService-wrapped service is restarted after
// its inner function returns an error.
type RetryMode int

const (
	RetryNo RetryMode = iota
	RetryLimit
	RetryForever
)

// Policy governs whether a failed inner service is restarted.
type Policy struct {
	Retry RetryMode
	Limit uint32
	Delay time.Duration
}

// NoRetry never restarts a failed service.
func NoRetry() Policy { return Policy{Retry: RetryNo} }

// LimitRetry restarts up to n times before giving up.
func LimitRetry(n uint32, delay time.Duration) Policy {
	return Policy{Retry: RetryLimit, Limit: n, Delay: delay}
}

// ForeverRetry restarts indefinitely.
func ForeverRetry(delay time.Duration) Policy {
	return Policy{Retry: RetryForever, Delay: delay}
}

// ShouldRetry reports whether attempt n (0-indexed) should be retried.
func (p Policy) ShouldRetry(n uint32) bool {
	switch p.Retry {
	case RetryNo:
		return false
	case RetryLimit:
		return n < p.Limit
	case RetryForever:
		return true
	default:
		return false
	}
}

// Sleep waits the configured delay, or returns early if ctx is canceled.
func (p Policy) Sleep(ctx context.Context) error {
	if p.Delay <= 0 {
		return nil
	}
	t := time.NewTimer(p.Delay)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
