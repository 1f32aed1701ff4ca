// Package memory provides in-process booking and payment stores with transactional semantics.
// It backs unit tests and local runs without PostgreSQL.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"sync"

	"github.com/sportsvenue/service-payment/internal/domain/booking"
	"github.com/sportsvenue/service-payment/internal/domain/payment"
	"github.com/sportsvenue/service-payment/internal/platform/domainerr"
)

// BookingRepository stores bookings by id.
type BookingRepository struct {
	mu       sync.RWMutex
	bookings map[int64]*booking.Booking
}

// NewBookingRepository creates an empty booking store.
func NewBookingRepository() *BookingRepository {
	return &BookingRepository{bookings: make(map[int64]*booking.Booking)}
}

// FindByID returns a copy of the booking or a not-found error.
func (r *BookingRepository) FindByID(_ context.Context, id int64) (*booking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.bookings[id]
	if !ok {
		return nil, domainerr.NewNotFoundError("Booking", strconv.FormatInt(id, 10))
	}
	return cloneBooking(b), nil
}

// Save inserts the booking. An existing id is left untouched.
func (r *BookingRepository) Save(_ context.Context, b *booking.Booking) error {
	if b == nil {
		return fmt.Errorf("booking repository: booking is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.bookings[b.ID()]; exists {
		return nil
	}
	r.bookings[b.ID()] = cloneBooking(b)
	return nil
}

// Update stores the booking if its version follows the stored one, else returns a conflict.
func (r *BookingRepository) Update(_ context.Context, b *booking.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.bookings[b.ID()]
	if !ok || current.Version() != b.Version()-1 {
		return domainerr.NewConflictError("booking was modified by another transaction")
	}
	r.bookings[b.ID()] = booking.Reconstitute(
		b.ID(), current.TotalAmount(), b.Status(), b.Version(), current.CreatedAt(), b.UpdatedAt(),
	)
	return nil
}

func (r *BookingRepository) snapshot() map[int64]*booking.Booking {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[int64]*booking.Booking, len(r.bookings))
	for id, b := range r.bookings {
		out[id] = cloneBooking(b)
	}
	return out
}

func (r *BookingRepository) restore(state map[int64]*booking.Booking) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bookings = state
}

// PaymentRepository stores payments and assigns sequential ids.
type PaymentRepository struct {
	mu       sync.RWMutex
	nextID   int64
	payments map[int64]*payment.Payment
}

// NewPaymentRepository creates an empty payment store.
func NewPaymentRepository() *PaymentRepository {
	return &PaymentRepository{payments: make(map[int64]*payment.Payment)}
}

// Save stores the payment under the next sequential id.
func (r *PaymentRepository) Save(_ context.Context, p *payment.Payment) (*payment.Payment, error) {
	if p == nil {
		return nil, fmt.Errorf("payment repository: payment is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	saved := payment.Reconstitute(
		r.nextID, p.BookingID(), p.Amount(), p.Method(), p.Status(),
		p.PaymentDate(), p.PaymentMethod(), p.TransactionID(), p.CreatedAt(),
	)
	r.payments[saved.ID()] = saved
	return clonePayment(saved), nil
}

// FindByBookingID returns the latest payment for the booking or a not-found error.
func (r *PaymentRepository) FindByBookingID(_ context.Context, bookingID int64) (*payment.Payment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var latest *payment.Payment
	for _, p := range r.payments {
		if p.BookingID() == bookingID && (latest == nil || p.ID() > latest.ID()) {
			latest = p
		}
	}
	if latest == nil {
		return nil, domainerr.NewNotFoundError("Payment", strconv.FormatInt(bookingID, 10))
	}
	return clonePayment(latest), nil
}

// ListByBookingID returns every payment for the booking in id order.
func (r *PaymentRepository) ListByBookingID(bookingID int64) []*payment.Payment {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*payment.Payment
	for _, p := range r.payments {
		if p.BookingID() == bookingID {
			out = append(out, clonePayment(p))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}

func (r *PaymentRepository) snapshot() (map[int64]*payment.Payment, int64) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[int64]*payment.Payment, len(r.payments))
	for id, p := range r.payments {
		out[id] = p
	}
	return out, r.nextID
}

func (r *PaymentRepository) restore(state map[int64]*payment.Payment, nextID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.payments = state
	r.nextID = nextID
}

// UnitOfWork serialises work over both stores and restores their prior state when it fails.
type UnitOfWork struct {
	mu       sync.Mutex
	Bookings *BookingRepository
	Payments *PaymentRepository
}

// NewUnitOfWork binds a unit of work to the given stores.
func NewUnitOfWork(bookings *BookingRepository, payments *PaymentRepository) *UnitOfWork {
	return &UnitOfWork{Bookings: bookings, Payments: payments}
}

// Do runs fn under the unit-of-work mutex and restores both stores if fn fails or panics.
func (u *UnitOfWork) Do(
	ctx context.Context,
	fn func(bookings booking.BookingRepository, payments payment.PaymentRepository) error,
) (err error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	bookingState := u.Bookings.snapshot()
	paymentState, nextID := u.Payments.snapshot()
	defer func() {
		if r := recover(); r != nil {
			u.Bookings.restore(bookingState)
			u.Payments.restore(paymentState, nextID)
			panic(r)
		}
		if err != nil {
			u.Bookings.restore(bookingState)
			u.Payments.restore(paymentState, nextID)
		}
	}()

	return fn(u.Bookings, u.Payments)
}

func cloneBooking(b *booking.Booking) *booking.Booking {
	return booking.Reconstitute(b.ID(), b.TotalAmount(), b.Status(), b.Version(), b.CreatedAt(), b.UpdatedAt())
}

func clonePayment(p *payment.Payment) *payment.Payment {
	return payment.Reconstitute(
		p.ID(), p.BookingID(), p.Amount(), p.Method(), p.Status(),
		p.PaymentDate(), p.PaymentMethod(), p.TransactionID(), p.CreatedAt(),
	)
}
