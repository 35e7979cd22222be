// Package retry re-runs operations that failed with a transient error.
package retry

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Policy bounds a retry loop. Attempts counts the first call.
type Policy struct {
	Attempts     int
	InitialDelay time.Duration
	MaxDelay     time.Duration
}

var DefaultPolicy = Policy{Attempts: 3, InitialDelay: 20 * time.Millisecond, MaxDelay: 250 * time.Millisecond}

// Do calls op until it succeeds, returns an error that transient rejects,
// or the attempts are used up. The last error is returned unwrapped.
func Do(ctx context.Context, p Policy, transient func(error) bool, op func(ctx context.Context) error) error {
	if p.Attempts <= 0 {
		p.Attempts = 1
	}

	eb := backoff.NewExponentialBackOff()
	if p.InitialDelay > 0 {
		eb.InitialInterval = p.InitialDelay
	}
	if p.MaxDelay > 0 {
		eb.MaxInterval = p.MaxDelay
	}
	eb.MaxElapsedTime = 0

	b := backoff.WithContext(backoff.WithMaxRetries(eb, uint64(p.Attempts-1)), ctx)

	err := backoff.Retry(func() error {
		err := op(ctx)
		if err == nil {
			return nil
		}
		if transient == nil || !transient(err) {
			return backoff.Permanent(err)
		}
		return err
	}, b)

	var perm *backoff.PermanentError
	if errors.As(err, &perm) {
		return perm.Err
	}
	return err
}
