package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sportsvenue/service-payment/internal/domain/booking"
	"github.com/sportsvenue/service-payment/internal/domain/payment"
	"github.com/sportsvenue/service-payment/internal/platform/domainerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnitOfWork_RollsBackOnError(t *testing.T) {
	ctx := context.Background()
	bookings, payments := NewBookingRepository(), NewPaymentRepository()
	require.NoError(t, bookings.Save(ctx, booking.NewBooking(1, decimal.NewFromInt(10))))
	uow := NewUnitOfWork(bookings, payments)

	boom := errors.New("boom")
	err := uow.Do(ctx, func(b booking.BookingRepository, p payment.PaymentRepository) error {
		_, err := p.Save(ctx, payment.NewPayment(payment.NewPaymentParams{BookingID: 1, Amount: decimal.NewFromInt(10), PaymentDate: time.Now()}))
		require.NoError(t, err)
		bk, err := b.FindByID(ctx, 1)
		require.NoError(t, err)
		require.NoError(t, bk.Confirm())
		require.NoError(t, b.Update(ctx, bk))
		return boom
	})

	assert.ErrorIs(t, err, boom)
	_, err = payments.FindByBookingID(ctx, 1)
	assert.True(t, errors.Is(err, domainerr.ErrNotFound))
	bk, err := bookings.FindByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, booking.StatusPending, bk.Status())
}

func TestBookingRepository_UpdateDetectsStaleVersion(t *testing.T) {
	ctx := context.Background()
	repo := NewBookingRepository()
	require.NoError(t, repo.Save(ctx, booking.NewBooking(1, decimal.NewFromInt(10))))

	first, _ := repo.FindByID(ctx, 1)
	second, _ := repo.FindByID(ctx, 1)
	require.NoError(t, first.Confirm())
	require.NoError(t, second.Confirm())

	require.NoError(t, repo.Update(ctx, first))
	assert.True(t, errors.Is(repo.Update(ctx, second), domainerr.ErrConflict))
}

func TestPaymentRepository_LatestWins(t *testing.T) {
	ctx := context.Background()
	repo := NewPaymentRepository()
	for _, tx := range []string{"tx-1", "tx-2"} {
		_, err := repo.Save(ctx, payment.NewPayment(payment.NewPaymentParams{BookingID: 9, Amount: decimal.NewFromInt(5), TransactionID: tx}))
		require.NoError(t, err)
	}

	latest, err := repo.FindByBookingID(ctx, 9)
	require.NoError(t, err)
	assert.Equal(t, int64(2), latest.ID())
	assert.Equal(t, "tx-2", latest.TransactionID())
	assert.Len(t, repo.ListByBookingID(9), 2)
}
