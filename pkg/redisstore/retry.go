package redisstore

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const backoffStep = 50 * time.Millisecond

// retry runs fn up to attempts times, waiting a little longer after each
// failure. A missing key and a done context are final.
func retry(ctx context.Context, attempts int, fn func() error) error {
	var err error

	for i := 1; i <= attempts; i++ {
		if err = fn(); err == nil || !retryable(err) {
			return err
		}
		if i == attempts {
			break
		}

		t := time.NewTimer(backoffStep * time.Duration(i))
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
	}

	return err
}

func retryable(err error) bool {
	return !errors.Is(err, redis.Nil) &&
		!errors.Is(err, context.Canceled) &&
		!errors.Is(err, context.DeadlineExceeded)
}
