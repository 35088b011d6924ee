package ratelimit

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestWait_IntervalBetweenEverySubmission(t *testing.T) {
	l := New(150, 60*time.Second, testLogger())

	var slept []time.Duration
	l.sleep = func(_ context.Context, d time.Duration) error {
		slept = append(slept, d)
		return nil
	}

	ctx := context.Background()
	require.NoError(t, l.Wait(ctx))
	require.NoError(t, l.Wait(ctx))

	assert.Equal(t, []time.Duration{400 * time.Millisecond, 400 * time.Millisecond}, slept)
}

func TestWait_WindowPauseAfterEveryLimitSubmissions(t *testing.T) {
	limit := 3
	window := 60 * time.Second
	l := New(limit, window, testLogger())

	var slept []time.Duration
	l.sleep = func(_ context.Context, d time.Duration) error {
		slept = append(slept, d)
		return nil
	}

	ctx := context.Background()
	for i := 0; i < limit+1; i++ {
		require.NoError(t, l.Wait(ctx))
	}

	// One interval per submission, and exactly one full-window pause
	// right after the limit-th.
	interval := window / time.Duration(limit)
	assert.Equal(t, []time.Duration{interval, interval, interval, window, interval}, slept)
}

func TestWait_CancelledContext(t *testing.T) {
	l := New(150, 60*time.Second, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := l.Wait(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
