package booking

import "context"

// BookingRepository defines the persistence contract for bookings.
type BookingRepository interface {
	// FindByID returns a domainerr not-found error when no booking has the id.
	FindByID(ctx context.Context, id int64) (*Booking, error)

	// Save inserts a booking. Saving an id that already exists is a no-op.
	Save(ctx context.Context, booking *Booking) error

	// Update writes status changes, guarded by the version the booking was loaded with.
	// It returns a domainerr conflict error when another writer got there first.
	Update(ctx context.Context, booking *Booking) error
}
