package facade

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoll_SucceedsOnceConditionHolds(t *testing.T) {
	var calls int32

	elapsed, err := Poll(context.Background(), time.Second, 5*time.Millisecond, func(ctx context.Context) (bool, error) {
		return atomic.AddInt32(&calls, 1) >= 3, nil
	})

	require.NoError(t, err)
	assert.EqualValues(t, 3, atomic.LoadInt32(&calls))
	assert.Less(t, elapsed, time.Second)
}

func TestPoll_TimesOutWithLastError(t *testing.T) {
	transient := errors.New("detached")

	elapsed, err := Poll(context.Background(), 50*time.Millisecond, 5*time.Millisecond, func(ctx context.Context) (bool, error) {
		return false, transient
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPollTimeout)
	assert.ErrorIs(t, err, transient)
	assert.GreaterOrEqual(t, elapsed, 50*time.Millisecond)
}

func TestPoll_PermanentErrorStopsImmediately(t *testing.T) {
	fatal := errors.New("unknown locator")
	var calls int32

	_, err := Poll(context.Background(), time.Second, 5*time.Millisecond, func(ctx context.Context) (bool, error) {
		atomic.AddInt32(&calls, 1)
		return false, Permanent(fatal)
	})

	assert.ErrorIs(t, err, fatal)
	assert.NotErrorIs(t, err, ErrPollTimeout)
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
}

func TestPoll_ZeroTimeoutEvaluatesOnce(t *testing.T) {
	var calls int32

	_, err := Poll(context.Background(), 0, 5*time.Millisecond, func(ctx context.Context) (bool, error) {
		atomic.AddInt32(&calls, 1)
		return false, nil
	})

	assert.ErrorIs(t, err, ErrPollTimeout)
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
}

func TestPoll_ParentCancellationIsNotATimeout(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := Poll(ctx, time.Second, 5*time.Millisecond, func(ctx context.Context) (bool, error) {
		return false, nil
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, ErrPollTimeout)
}
