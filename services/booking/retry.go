package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"

	"courtbook/config"
	"courtbook/database"
)

// RetryPolicy bounds how often a transaction is re-run after a transient
// store error.
type RetryPolicy struct {
	MaxTries    uint
	Initial     time.Duration
	MaxInterval time.Duration
}

func DefaultRetryPolicy() RetryPolicy {
	tries := config.AppConfig.TxMaxRetries
	if tries <= 0 {
		tries = 5
	}
	return RetryPolicy{
		MaxTries:    uint(tries),
		Initial:     config.TxRetryInitial(),
		MaxInterval: 500 * time.Millisecond,
	}
}

// run calls fn until it succeeds, fails with a non-transient error, or the
// policy is exhausted. Exhaustion surfaces as ErrStoreUnavailable.
func (p RetryPolicy) run(ctx context.Context, fn func() error) error {
	b := backoff.NewExponentialBackOff()
	if p.Initial > 0 {
		b.InitialInterval = p.Initial
	}
	if p.MaxInterval > 0 {
		b.MaxInterval = p.MaxInterval
	}
	tries := p.MaxTries
	if tries == 0 {
		tries = 1
	}

	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		err := fn()
		if err == nil {
			return struct{}{}, nil
		}
		if errors.Is(err, database.ErrTransient) {
			return struct{}{}, err
		}
		return struct{}{}, backoff.Permanent(err)
	}, backoff.WithBackOff(b), backoff.WithMaxTries(tries))

	var permanent *backoff.PermanentError
	if errors.As(err, &permanent) {
		err = permanent.Err
	}
	if err != nil && errors.Is(err, database.ErrTransient) {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return err
}
