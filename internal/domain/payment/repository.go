package payment

import "context"

// PaymentRepository defines the persistence contract for payments.
type PaymentRepository interface {
	// Save inserts a payment and returns it with its store-assigned id.
	Save(ctx context.Context, payment *Payment) (*Payment, error)

	// FindByBookingID returns the most recent payment for the booking, or a domainerr
	// not-found error when the booking has none.
	FindByBookingID(ctx context.Context, bookingID int64) (*Payment, error)
}
