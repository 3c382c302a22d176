package rabbit

import (
	"context"
	"errors"
	"time"

	"github.com/Temutjin2k/navigator/internal/domain/types"
)

// isDroppable reports handler errors that a redelivery would not fix.
func isDroppable(err error) bool {
	return oneOf(err, types.ErrInvalidCoordinate, types.ErrNotRegistered, types.ErrNotConnected, types.ErrNoLocation, types.ErrSessionClosed)
}

func oneOf(err error, targets ...error) bool {
	for _, t := range targets {
		if errors.Is(err, t) {
			return true
		}
	}
	return false
}

func retry(ctx context.Context, n int, sleep time.Duration, fn func() error) error {
	var err error
	for i := range n {
		if err = fn(); err == nil {
			return nil
		}
		if i == n-1 {
			break
		}

		select {
		case <-ctx.Done():
			return errors.Join(err, ctx.Err())
		case <-time.After(sleep):
		}
	}
	return err
}

// pause waits d or until ctx is done.
func pause(ctx context.Context, d time.Duration) {
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}
