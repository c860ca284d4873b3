// Package wait implements a blocking bounded spin-wait used by page
// objects to poll the browser for a condition. There is no external
// cancel signal; the only way out is the condition holding, the
// condition erroring, or the timeout expiring.
package wait

import (
	"fmt"
	"time"
)

const (
	// DefaultTimeout bounds a poll when the caller does not set one.
	DefaultTimeout = 30 * time.Second
	// DefaultInterval is the pause between condition evaluations.
	DefaultInterval = 500 * time.Millisecond
)

// Options configures a single For call.
type Options struct {
	// Timeout bounds the total wait. Zero means DefaultTimeout.
	Timeout time.Duration
	// Interval is the pause between polls. Zero means DefaultInterval.
	Interval time.Duration
	// Message names the awaited condition in the timeout error.
	Message string
	// OnRetry runs before each re-evaluation after the first, e.g. a
	// browser refresh. Must be idempotent.
	OnRetry func()
}

// TimeoutError reports that a condition never became true within the bound.
type TimeoutError struct {
	Message string
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = "condition"
	}
	return fmt.Sprintf("timed out after %s waiting for %s", e.Timeout, msg)
}

// For polls cond until it returns true, an error, or the timeout expires.
// A cond error aborts the wait immediately and is returned as-is.
func For(cond func() (bool, error), opts Options) error {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	interval := opts.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}

	deadline := time.Now().Add(timeout)
	for first := true; ; first = false {
		if !first {
			if time.Now().After(deadline) {
				return &TimeoutError{Message: opts.Message, Timeout: timeout}
			}
			time.Sleep(interval)
			if opts.OnRetry != nil {
				opts.OnRetry()
			}
		}

		ok, err := cond()
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
	}
}
