package booking

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/sportsvenue/service-payment/internal/platform/domainerr"
)

// Status represents the lifecycle state of a booking.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusConfirmed Status = "CONFIRMED"
	StatusCancelled Status = "CANCELLED"
)

// Booking is the reservation a payment is made against. The total amount never changes
// after creation.
type Booking struct {
	id          int64
	totalAmount decimal.Decimal
	status      Status
	version     int64
	createdAt   time.Time
	updatedAt   time.Time
}

// NewBooking creates a pending booking with the id assigned by the booking side.
func NewBooking(id int64, totalAmount decimal.Decimal) *Booking {
	now := time.Now().UTC()
	return &Booking{
		id:          id,
		totalAmount: totalAmount,
		status:      StatusPending,
		version:     1,
		createdAt:   now,
		updatedAt:   now,
	}
}

func (b *Booking) ID() int64                    { return b.id }
func (b *Booking) TotalAmount() decimal.Decimal { return b.totalAmount }
func (b *Booking) Status() Status               { return b.status }
func (b *Booking) Version() int64               { return b.version }
func (b *Booking) CreatedAt() time.Time         { return b.createdAt }
func (b *Booking) UpdatedAt() time.Time         { return b.updatedAt }

// AmountMatches reports whether amount equals the total exactly, ignoring scale (50 == 50.00).
func (b *Booking) AmountMatches(amount decimal.Decimal) bool {
	return b.totalAmount.Equal(amount)
}

// Confirm moves a pending booking to confirmed. Confirming an already confirmed booking
// is allowed and leaves it confirmed; a cancelled booking cannot be confirmed.
func (b *Booking) Confirm() error {
	if b.status == StatusCancelled {
		return domainerr.NewInvalidStateError(string(b.status), string(StatusConfirmed))
	}
	b.status = StatusConfirmed
	b.touch()
	return nil
}

// Cancel marks the booking cancelled. Repeated cancellation is a no-op.
func (b *Booking) Cancel() bool {
	if b.status == StatusCancelled {
		return false
	}
	b.status = StatusCancelled
	b.touch()
	return true
}

// touch bumps the version for optimistic locking.
func (b *Booking) touch() {
	b.version++
	b.updatedAt = time.Now().UTC()
}

// Reconstitute rebuilds a Booking from persisted data.
func Reconstitute(
	id int64,
	totalAmount decimal.Decimal,
	status Status,
	version int64,
	createdAt, updatedAt time.Time,
) *Booking {
	return &Booking{
		id:          id,
		totalAmount: totalAmount,
		status:      status,
		version:     version,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}
