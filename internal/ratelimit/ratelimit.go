// Package ratelimit paces ingest submissions against the platform's
// request quota.
package ratelimit

import (
	"context"
	"log/slog"
	"time"
)

// Limiter spaces submissions evenly across the quota window and, after
// every limit-th submission, pauses for the full window. Wait must be
// called once per submitted row.
type Limiter struct {
	limit     int
	window    time.Duration
	interval  time.Duration
	submitted int
	logger    *slog.Logger

	sleep func(ctx context.Context, d time.Duration) error
}

func New(limit int, window time.Duration, logger *slog.Logger) *Limiter {
	return &Limiter{
		limit:    limit,
		window:   window,
		interval: window / time.Duration(limit),
		logger:   logger.With("component", "ratelimit"),
		sleep:    sleepCtx,
	}
}

// Wait blocks for the per-submission interval, plus the full window
// after every limit-th submission. Returns early with ctx.Err() on
// cancellation.
func (l *Limiter) Wait(ctx context.Context) error {
	l.submitted++

	l.logger.Debug("waiting between requests", "interval", l.interval)
	if err := l.sleep(ctx, l.interval); err != nil {
		return err
	}

	if l.submitted%l.limit == 0 {
		l.logger.Info("rate limit reached, pausing",
			"submitted", l.submitted,
			"window", l.window,
		)
		if err := l.sleep(ctx, l.window); err != nil {
			return err
		}
	}
	return nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
