// Package lock provides per-key mutual exclusion for booking payments.
// Acquire never waits: a held key fails fast with ErrNotAcquired.
package lock

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotAcquired is returned when the key is held by someone else.
var ErrNotAcquired = errors.New("lock: key is held by another owner")

// Release gives the lock back. It is safe to call more than once.
type Release func()

// Locker acquires exclusive ownership of a key.
type Locker interface {
	Acquire(ctx context.Context, key string) (Release, error)
}

// BookingKey is the lock key guarding payments for one booking.
func BookingKey(bookingID int64) string {
	return fmt.Sprintf("booking-payment-lock:%d", bookingID)
}
