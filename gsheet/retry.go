package gsheet

import (
	"context"
	"time"

	"github.com/tutorqa/sheets-sync/log"
)

// Policy is the retry policy applied to every remote call.
type Policy struct {
	Attempts int
	Delay    time.Duration

	// Sleep waits for the backoff delay. Defaults to a context-aware time.After.
	Sleep func(context.Context, time.Duration) error
}

// DefaultPolicy retries up to 5 attempts, waiting 1s, 2s, 4s and 8s between them.
var DefaultPolicy = Policy{
	Attempts: 5,
	Delay:    1 * time.Second,
}

// Retry invokes f until it succeeds, fails with a permanent error or the policy's attempt
// ceiling is reached. Only transient (5xx) errors are retried and the last error is returned
// unchanged.
func Retry[T any](ctx context.Context, policy Policy, op string, f func() (T, error)) (T, error) {
	attempts := policy.Attempts
	if attempts < 1 {
		attempts = 1
	}

	sleep := policy.Sleep
	if sleep == nil {
		sleep = wait
	}

	delay := policy.Delay

	for attempt := 1; ; attempt++ {
		v, err := f()
		if err == nil || !IsTransient(err) || attempt >= attempts {
			return v, err
		}

		code, _ := StatusCode(err)
		log.Warnf("%v: HTTP %v on attempt %v/%v, retrying in %v", op, code, attempt, attempts, delay)

		if err := sleep(ctx, delay); err != nil {
			return v, err
		}

		delay *= 2
	}
}

func wait(ctx context.Context, delay time.Duration) error {
	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()

	case <-timer.C:
		return nil
	}
}
