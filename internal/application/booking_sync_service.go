package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/sportsvenue/service-payment/internal/contracts"
	"github.com/sportsvenue/service-payment/internal/domain/booking"
	"github.com/sportsvenue/service-payment/internal/platform/domainerr"
	"go.uber.org/zap"
)

const (
	amountScale       = 2
	maxCancelAttempts = 3
)

// BookingSyncService keeps the local booking records in step with booking events.
type BookingSyncService struct {
	repo   booking.BookingRepository
	logger *zap.Logger
}

// NewBookingSyncService creates a new BookingSyncService.
func NewBookingSyncService(repo booking.BookingRepository, logger *zap.Logger) *BookingSyncService {
	return &BookingSyncService{repo: repo, logger: logger}
}

// HandleBookingCreated records a pending booking. Redelivered events are ignored by the store.
// Totals must be positive and carry at most two decimal places, matching the stored precision.
func (s *BookingSyncService) HandleBookingCreated(ctx context.Context, event contracts.BookingCreatedEvent) error {
	if event.BookingID <= 0 {
		return domainerr.NewValidationError(fmt.Sprintf("booking created event has invalid booking id %d", event.BookingID))
	}
	if !event.TotalAmount.IsPositive() {
		return domainerr.NewValidationError(fmt.Sprintf("booking %d has non-positive total amount %s", event.BookingID, event.TotalAmount))
	}
	if !event.TotalAmount.Equal(event.TotalAmount.Truncate(amountScale)) {
		return domainerr.NewValidationError(fmt.Sprintf("booking %d total amount %s has more than %d decimal places",
			event.BookingID, event.TotalAmount, amountScale))
	}

	s.logger.Info("handling booking created event",
		zap.Int64("booking_id", event.BookingID),
		zap.String("total_amount", event.TotalAmount.String()),
	)
	if err := s.repo.Save(ctx, booking.NewBooking(event.BookingID, event.TotalAmount)); err != nil {
		return fmt.Errorf("save booking %d: %w", event.BookingID, err)
	}
	return nil
}

// HandleBookingCancelled marks a known booking cancelled so it can no longer be paid.
// A concurrent write to the booking is retried on a fresh copy.
func (s *BookingSyncService) HandleBookingCancelled(ctx context.Context, event contracts.BookingCancelledEvent) error {
	s.logger.Info("handling booking cancelled event",
		zap.Int64("booking_id", event.BookingID),
		zap.String("reason", event.Reason),
	)

	var err error
	for attempt := 1; attempt <= maxCancelAttempts; attempt++ {
		err = s.cancel(ctx, event.BookingID)
		if !errors.Is(err, domainerr.ErrConflict) {
			return err
		}
		s.logger.Warn("booking changed while cancelling, retrying",
			zap.Int64("booking_id", event.BookingID),
			zap.Int("attempt", attempt),
		)
	}
	return err
}

func (s *BookingSyncService) cancel(ctx context.Context, bookingID int64) error {
	b, err := s.repo.FindByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, domainerr.ErrNotFound) {
			s.logger.Warn("no booking found, skipping cancellation",
				zap.Int64("booking_id", bookingID),
			)
			return nil
		}
		return fmt.Errorf("find booking %d: %w", bookingID, err)
	}

	if !b.Cancel() {
		return nil
	}
	return s.repo.Update(ctx, b)
}
