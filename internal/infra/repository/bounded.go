package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	domain "github.com/slotwise/scheduler-api/internal/domain/booking"
)

const defaultStoreTimeout = 3 * time.Second

// bound applies the uniform store timeout. Every repository method goes
// through here so all operations share identical failure semantics.
func (r *GormRepository) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	timeout := r.timeout
	if timeout <= 0 {
		timeout = defaultStoreTimeout
	}
	return context.WithTimeout(ctx, timeout)
}

// wrap translates deadline and cancellation failures into the retryable
// store error; record-not-found and constraint errors pass through.
func wrap(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	return err
}
