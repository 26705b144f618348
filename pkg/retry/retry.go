// Package retry runs an operation a bounded number of times with a pluggable
// backoff between attempts.
package retry

import (
	"context"
	"errors"
	"time"
)

// ErrExhausted is returned by Do when the last permitted attempt did not finish.
var ErrExhausted = errors.New("retries exhausted")

// DefaultMaxRetries bounds the number of retries after the first attempt.
const DefaultMaxRetries = 3

// Backoff returns the delay before the given retry (1 for the first retry).
type Backoff func(retry int) time.Duration

// Immediate retries without delay.
func Immediate() Backoff {
	return func(int) time.Duration { return 0 }
}

// Constant waits d before every retry.
func Constant(d time.Duration) Backoff {
	return func(int) time.Duration { return d }
}

// Exponential doubles base on every retry, capped at max when max > 0.
func Exponential(base, max time.Duration) Backoff {
	return func(retry int) time.Duration {
		if retry < 1 {
			return 0
		}
		d := base
		for i := 1; i < retry; i++ {
			d *= 2
			if max > 0 && d >= max {
				return max
			}
		}
		if max > 0 && d > max {
			return max
		}
		return d
	}
}

// SleepFunc waits for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Sleep is the default SleepFunc backed by a timer.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Policy describes how many times to retry and how long to wait in between.
type Policy struct {
	MaxRetries int
	Backoff    Backoff
	Sleep      SleepFunc
}

// DefaultPolicy retries three times without delay.
func DefaultPolicy() Policy {
	return Policy{MaxRetries: DefaultMaxRetries, Backoff: Immediate(), Sleep: Sleep}
}

// Attempt is one run of the operation. retry is the current retry count,
// starting at the value passed to Do. Returning done=true or a non-nil error
// stops the loop.
type Attempt func(ctx context.Context, retry int) (done bool, err error)

// Do runs fn starting at retry count start until it reports done, returns an
// error, or the retry count reaches MaxRetries with the attempt unfinished, in
// which case ErrExhausted is returned. The final retry count is returned in
// every case.
func (p Policy) Do(ctx context.Context, start int, fn Attempt) (int, error) {
	backoff := p.Backoff
	if backoff == nil {
		backoff = Immediate()
	}
	sleep := p.Sleep
	if sleep == nil {
		sleep = Sleep
	}
	if start < 0 {
		start = 0
	}

	for retry := start; ; retry++ {
		if err := ctx.Err(); err != nil {
			return retry, err
		}
		done, err := fn(ctx, retry)
		if err != nil || done {
			return retry, err
		}
		if retry >= p.MaxRetries {
			return retry, ErrExhausted
		}
		if err := sleep(ctx, backoff(retry+1)); err != nil {
			return retry, err
		}
	}
}
