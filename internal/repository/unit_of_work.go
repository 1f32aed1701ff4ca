package repository

import (
	"context"

	"github.com/sportsvenue/service-payment/internal/domain/booking"
	"github.com/sportsvenue/service-payment/internal/domain/payment"
	"gorm.io/gorm"
)

// GormUnitOfWork runs work inside a single database transaction.
type GormUnitOfWork struct {
	db *gorm.DB
}

// NewGormUnitOfWork creates a unit of work over db.
func NewGormUnitOfWork(db *gorm.DB) *GormUnitOfWork {
	return &GormUnitOfWork{db: db}
}

// Do begins a transaction, hands fn repositories bound to it, and commits when fn returns nil.
// Any error or panic in fn rolls the transaction back, and the connection is always released.
func (u *GormUnitOfWork) Do(
	ctx context.Context,
	fn func(bookings booking.BookingRepository, payments payment.PaymentRepository) error,
) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewBookingRepository(tx), NewPaymentRepository(tx))
	})
}
