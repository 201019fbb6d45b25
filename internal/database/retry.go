package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/rs/zerolog/log"
)

// Recorder observes the outcome of Manager operations.
type Recorder interface {
	ObserveOperation(op, outcome string, elapsed time.Duration)
	ObserveRetry(op string)
}

type nopRecorder struct{}

func (nopRecorder) ObserveOperation(string, string, time.Duration) {}
func (nopRecorder) ObserveRetry(string)                            {}

// Do runs fn, retrying transient failures with a fixed delay until the
// configured number of attempts is used up. Non-transient errors are
// returned after the first attempt. Exhausting the attempts yields an
// ErrConnection wrapping the last failure.
func (m *Manager) Do(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	start := time.Now()
	err := m.do(ctx, op, fn)
	m.cfg.Recorder.ObserveOperation(op, Kind(err), time.Since(start))
	return err
}

func (m *Manager) do(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	if err := m.ensureOpen(); err != nil {
		return err
	}

	exhausted, err := m.retry(ctx, op, IsTransient, fn)
	if !exhausted {
		return err
	}

	log.Error().
		Err(err).
		Str("operation", op).
		Int("attempts", m.cfg.MaxRetries).
		Msg("Giving up on database operation")

	if errors.Is(err, ErrConnection) {
		return fmt.Errorf("%s: gave up after %d attempts: %w", op, m.cfg.MaxRetries, err)
	}
	return fmt.Errorf("%w: %s: gave up after %d attempts: %w", ErrConnection, op, m.cfg.MaxRetries, err)
}

// retry calls fn up to cfg.MaxRetries times with a constant cfg.RetryDelay
// between attempts. Errors for which retryable is false end the loop at
// once, as does a canceled context. exhausted is true when every attempt
// failed with a retryable error; err is then the last failure.
func (m *Manager) retry(
	ctx context.Context,
	op string,
	retryable func(error) bool,
	fn func(ctx context.Context) error,
) (exhausted bool, err error) {
	var (
		attempt int
		stopped bool
		lastErr error
	)

	operation := func() (struct{}, error) {
		attempt++
		lastErr = fn(ctx)
		if lastErr != nil && (!retryable(lastErr) || ctx.Err() != nil) {
			stopped = true
			return struct{}{}, backoff.Permanent(lastErr)
		}
		return struct{}{}, lastErr
	}

	notify := func(err error, next time.Duration) {
		m.cfg.Recorder.ObserveRetry(op)
		log.Warn().
			Err(err).
			Str("operation", op).
			Int("attempt", attempt).
			Int("max_attempts", m.cfg.MaxRetries).
			Dur("delay", next).
			Msg("Transient database failure")
	}

	_, err = backoff.Retry(ctx, operation,
		backoff.WithBackOff(backoff.NewConstantBackOff(m.cfg.RetryDelay)),
		backoff.WithMaxTries(uint(m.cfg.MaxRetries)),
		backoff.WithMaxElapsedTime(0),
		backoff.WithNotify(notify),
	)

	switch {
	case err == nil:
		return false, nil
	case stopped:
		return false, lastErr
	case ctx.Err() != nil:
		// canceled while waiting for the next attempt
		return false, fmt.Errorf("%s: %w", op, err)
	default:
		return true, lastErr
	}
}
