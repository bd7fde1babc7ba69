package retry

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"time"
)

type Config struct {
	baseMs         int
	maxMs          int
	maxAttempts    int
	isRetryableErr func(err error) bool
}

type NewConfigArgs struct {
	BaseMs         int
	MaxMs          int
	MaxAttempts    int
	IsRetryableErr func(err error) bool
}

func NewConfig(args NewConfigArgs) Config {
	isRetryableErr := args.IsRetryableErr
	if isRetryableErr == nil {
		isRetryableErr = func(_ error) bool { return true }
	}

	return Config{
		baseMs:         max(args.BaseMs, 0),
		maxMs:          max(args.MaxMs, 0),
		maxAttempts:    max(args.MaxAttempts, 1),
		isRetryableErr: isRetryableErr,
	}
}

// Jitter returns random_between(0, min(maxMs, baseMs * 2 ** attempt)).
// https://aws.amazon.com/blogs/architecture/exponential-backoff-and-jitter/
func Jitter(baseMs, maxMs, attempt int) time.Duration {
	if maxMs <= 0 {
		return 0
	}

	// Cap the exponent so the shift does not overflow.
	if ceiling := baseMs * (1 << min(max(attempt, 0), 30)); ceiling > 0 {
		maxMs = min(maxMs, ceiling)
	}

	return time.Duration(rand.IntN(maxMs)) * time.Millisecond
}

// sleep waits before [attempt], it returns the context's error if it is cancelled first.
func (c Config) sleep(ctx context.Context, attempt int, err error) error {
	if attempt == 0 {
		return nil
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}

	sleepDuration := Jitter(c.baseMs, c.maxMs, attempt)
	slog.Info("An error occurred, retrying...",
		slog.Duration("sleep", sleepDuration),
		slog.Int("attemptsLeft", c.maxAttempts-attempt),
		slog.Any("err", err),
	)

	timer := time.NewTimer(sleepDuration)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// WithRetries calls f until it succeeds, returns a non-retryable error or runs out of attempts.
// Cancelling [ctx] stops the backoff and returns the last error joined with the context's error.
func WithRetries[T any](ctx context.Context, cfg Config, f func(attempt int, err error) (T, error)) (T, error) {
	var result T
	var err error
	for attempt := 0; attempt < cfg.maxAttempts; attempt++ {
		if sleepErr := cfg.sleep(ctx, attempt, err); sleepErr != nil {
			return result, errors.Join(err, sleepErr)
		}

		result, err = f(attempt, err)
		if err == nil {
			return result, nil
		} else if !cfg.isRetryableErr(err) {
			break
		}
	}

	return result, err
}
