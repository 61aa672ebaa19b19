package facade

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// ErrPollTimeout is returned by Poll when the condition never held.
var ErrPollTimeout = errors.New("condition not met before timeout")

var errNotReady = errors.New("not ready")

// Condition is evaluated by Poll. A permanent error (see Permanent) stops polling;
// any other error is remembered and polling continues.
type Condition func(ctx context.Context) (bool, error)

// Permanent marks err as not worth retrying.
func Permanent(err error) error {
	return backoff.Permanent(err)
}

// PollError carries the last transient error seen before the timeout.
type PollError struct {
	Last error
}

func (e *PollError) Error() string {
	if e.Last != nil {
		return ErrPollTimeout.Error() + ": " + e.Last.Error()
	}
	return ErrPollTimeout.Error()
}

func (e *PollError) Is(target error) bool { return target == ErrPollTimeout }

func (e *PollError) Unwrap() error { return e.Last }

// Poll evaluates cond immediately and then every interval until it holds, a
// permanent error occurs, or timeout elapses. A zero timeout evaluates once.
// It returns the time spent waiting.
func Poll(ctx context.Context, timeout, interval time.Duration, cond Condition) (time.Duration, error) {
	start := time.Now()
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	var (
		pctx   context.Context
		cancel context.CancelFunc
	)
	if timeout > 0 {
		pctx, cancel = context.WithTimeout(ctx, timeout)
	} else {
		pctx, cancel = context.WithCancel(ctx)
	}
	defer cancel()

	var last error
	permanent := false
	op := func() error {
		ok, err := cond(pctx)
		if err != nil {
			var perm *backoff.PermanentError
			if errors.As(err, &perm) {
				permanent = true
				return err
			}
			if pctx.Err() == nil || !errors.Is(err, context.DeadlineExceeded) {
				last = err
			}
			return err
		}
		if !ok {
			return errNotReady
		}
		return nil
	}

	var b backoff.BackOff = backoff.NewConstantBackOff(interval)
	if timeout <= 0 {
		b = &backoff.StopBackOff{}
	}
	err := backoff.Retry(op, backoff.WithContext(b, pctx))
	elapsed := time.Since(start)

	switch {
	case err == nil:
		return elapsed, nil
	case permanent:
		return elapsed, err
	case ctx.Err() != nil:
		return elapsed, ctx.Err()
	default:
		return elapsed, &PollError{Last: last}
	}
}
