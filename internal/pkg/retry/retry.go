// Package retry re-runs optimistic read-modify-write operations that lost a
// concurrency race. Every other error is returned immediately.
package retry

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"

	"orderengine/internal/pkg/errs"
)

// Config configures the bounded exponential backoff.
type Config struct {
	MaxAttempts  uint64        `mapstructure:"max_attempts"`
	InitialDelay time.Duration `mapstructure:"initial_delay"`
	MaxDelay     time.Duration `mapstructure:"max_delay"`
	Multiplier   float64       `mapstructure:"multiplier"`
}

// DefaultConfig allows five attempts with short, jittered delays.
func DefaultConfig() Config {
	return Config{
		MaxAttempts:  5,
		InitialDelay: 10 * time.Millisecond,
		MaxDelay:     250 * time.Millisecond,
		Multiplier:   2,
	}
}

func (c Config) backOff(ctx context.Context) backoff.BackOff {
	exp := backoff.NewExponentialBackOff()
	if c.InitialDelay > 0 {
		exp.InitialInterval = c.InitialDelay
	}
	if c.MaxDelay > 0 {
		exp.MaxInterval = c.MaxDelay
	}
	if c.Multiplier > 0 {
		exp.Multiplier = c.Multiplier
	}
	exp.MaxElapsedTime = 0

	attempts := c.MaxAttempts
	if attempts == 0 {
		attempts = DefaultConfig().MaxAttempts
	}
	return backoff.WithContext(backoff.WithMaxRetries(exp, attempts-1), ctx)
}

// OnConflict runs op until it succeeds, fails with anything other than a
// concurrency conflict, the attempts are used up, or ctx is done. After the
// last attempt the final conflict is returned unchanged.
func OnConflict[T any](ctx context.Context, cfg Config, op func(ctx context.Context) (T, error)) (T, error) {
	return backoff.RetryWithData(func() (T, error) {
		res, err := op(ctx)
		if err != nil && !errors.Is(err, errs.ErrConcurrencyConflict) {
			return res, backoff.Permanent(err)
		}
		return res, err
	}, cfg.backOff(ctx))
}

// Do is OnConflict for operations without a result.
func Do(ctx context.Context, cfg Config, op func(ctx context.Context) error) error {
	_, err := OnConflict(ctx, cfg, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, op(ctx)
	})
	return err
}
