// Package contracts defines the topics, event types and payloads exchanged with the booking side.
package contracts

import (
	"time"

	"github.com/shopspring/decimal"
)

// Topics.
const (
	TopicBookingEvents = "booking.events"
	TopicPaymentEvents = "payment.events"
)

// Event types.
const (
	BookingCreated   = "booking.created"
	BookingCancelled = "booking.cancelled"
	PaymentCompleted = "payment.completed"
)

// BookingCreatedEvent announces a new booking awaiting payment.
type BookingCreatedEvent struct {
	BookingID   int64           `json:"bookingId"`
	VenueID     int64           `json:"venueId"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	OccurredAt  time.Time       `json:"occurredAt"`
}

// BookingCancelledEvent announces that a booking was cancelled.
type BookingCancelledEvent struct {
	BookingID  int64     `json:"bookingId"`
	Reason     string    `json:"reason"`
	OccurredAt time.Time `json:"occurredAt"`
}

// PaymentCompletedEvent is published once a payment and its booking confirmation commit.
type PaymentCompletedEvent struct {
	PaymentID     int64           `json:"paymentId"`
	BookingID     int64           `json:"bookingId"`
	Amount        decimal.Decimal `json:"amount"`
	Method        string          `json:"method"`
	Status        string          `json:"status"`
	PaymentMethod string          `json:"paymentMethod"`
	TransactionID string          `json:"transactionId,omitempty"`
	PaymentDate   time.Time       `json:"paymentDate"`
	OccurredAt    time.Time       `json:"occurredAt"`
}
