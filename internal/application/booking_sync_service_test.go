package application

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/sportsvenue/service-payment/internal/contracts"
	"github.com/sportsvenue/service-payment/internal/domain/booking"
	"github.com/sportsvenue/service-payment/internal/platform/domainerr"
	"github.com/sportsvenue/service-payment/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestBookingSync_CreatedThenCancelled(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewBookingRepository()
	svc := NewBookingSyncService(repo, zap.NewNop())

	event := contracts.BookingCreatedEvent{BookingID: 42, TotalAmount: decimal.RequireFromString("50.00")}
	require.NoError(t, svc.HandleBookingCreated(ctx, event))
	// redelivery
	require.NoError(t, svc.HandleBookingCreated(ctx, event))

	b, err := repo.FindByID(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, booking.StatusPending, b.Status())
	assert.True(t, b.TotalAmount().Equal(decimal.NewFromInt(50)))

	require.NoError(t, svc.HandleBookingCancelled(ctx, contracts.BookingCancelledEvent{BookingID: 42, Reason: "rain"}))
	require.NoError(t, svc.HandleBookingCancelled(ctx, contracts.BookingCancelledEvent{BookingID: 42, Reason: "rain"}))

	b, err = repo.FindByID(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, booking.StatusCancelled, b.Status())
}

func TestBookingSync_CancelUnknownBookingIsSkipped(t *testing.T) {
	svc := NewBookingSyncService(memory.NewBookingRepository(), zap.NewNop())

	assert.NoError(t, svc.HandleBookingCancelled(context.Background(), contracts.BookingCancelledEvent{BookingID: 99}))
}

func TestBookingSync_RejectsInvalidCreatedEvent(t *testing.T) {
	svc := NewBookingSyncService(memory.NewBookingRepository(), zap.NewNop())
	ctx := context.Background()

	invalid := []contracts.BookingCreatedEvent{
		{BookingID: 0, TotalAmount: decimal.NewFromInt(1)},
		{BookingID: 1, TotalAmount: decimal.Zero},
		{BookingID: 2, TotalAmount: decimal.RequireFromString("19.999")},
	}
	for _, event := range invalid {
		err := svc.HandleBookingCreated(ctx, event)
		assert.ErrorIs(t, err, domainerr.ErrValidation, "booking %d", event.BookingID)
	}
}

func TestBookingSync_AcceptsTrailingZeroScale(t *testing.T) {
	repo := memory.NewBookingRepository()
	svc := NewBookingSyncService(repo, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, svc.HandleBookingCreated(ctx, contracts.BookingCreatedEvent{
		BookingID:   3,
		TotalAmount: decimal.RequireFromString("20.000"),
	}))
	b, err := repo.FindByID(ctx, 3)
	require.NoError(t, err)
	assert.True(t, b.AmountMatches(decimal.RequireFromString("20.00")))
}

// unavailableBookings fails every call as if the database were down.
type unavailableBookings struct{ err error }

func (u unavailableBookings) FindByID(context.Context, int64) (*booking.Booking, error) {
	return nil, u.err
}
func (u unavailableBookings) Save(context.Context, *booking.Booking) error   { return u.err }
func (u unavailableBookings) Update(context.Context, *booking.Booking) error { return u.err }

func TestBookingSync_StoreFailuresAreReturned(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	svc := NewBookingSyncService(unavailableBookings{err: cause}, zap.NewNop())
	ctx := context.Background()

	err := svc.HandleBookingCreated(ctx, contracts.BookingCreatedEvent{BookingID: 42, TotalAmount: decimal.NewFromInt(50)})
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, domainerr.ErrValidation)

	err = svc.HandleBookingCancelled(ctx, contracts.BookingCancelledEvent{BookingID: 42})
	assert.ErrorIs(t, err, cause)
}

// racingBookings confirms the booking behind the caller's back before the first update,
// the way a payment committing mid-cancel would.
type racingBookings struct {
	*memory.BookingRepository
	raced bool
}

func (r *racingBookings) Update(ctx context.Context, b *booking.Booking) error {
	if !r.raced {
		r.raced = true
		current, err := r.BookingRepository.FindByID(ctx, b.ID())
		if err != nil {
			return err
		}
		if err := current.Confirm(); err != nil {
			return err
		}
		if err := r.BookingRepository.Update(ctx, current); err != nil {
			return err
		}
	}
	return r.BookingRepository.Update(ctx, b)
}

func TestBookingSync_CancelRetriesAfterConcurrentUpdate(t *testing.T) {
	ctx := context.Background()
	repo := &racingBookings{BookingRepository: memory.NewBookingRepository()}
	require.NoError(t, repo.Save(ctx, booking.NewBooking(42, decimal.NewFromInt(50))))
	svc := NewBookingSyncService(repo, zap.NewNop())

	require.NoError(t, svc.HandleBookingCancelled(ctx, contracts.BookingCancelledEvent{BookingID: 42, Reason: "rain"}))

	b, err := repo.FindByID(ctx, 42)
	require.NoError(t, err)
	assert.True(t, repo.raced)
	assert.Equal(t, booking.StatusCancelled, b.Status())
	assert.Equal(t, int64(3), b.Version())
}
