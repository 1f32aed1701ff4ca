package payment

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Status is a free-form payment status label supplied by the caller.
type Status string

// StatusCompleted is used when the caller does not supply a status.
const StatusCompleted Status = "COMPLETED"

// Payment records a charge against a booking. It is immutable once persisted.
type Payment struct {
	id            int64
	bookingID     int64
	amount        decimal.Decimal
	method        string
	status        Status
	paymentDate   time.Time
	paymentMethod string
	transactionID string
	createdAt     time.Time
}

// NewPaymentParams carries the fields of a payment about to be recorded.
type NewPaymentParams struct {
	BookingID     int64
	Amount        decimal.Decimal
	Method        string
	Status        string
	PaymentDate   time.Time
	PaymentMethod string
	TransactionID string
}

// NewPayment creates an unsaved payment. The id is assigned by the store.
func NewPayment(p NewPaymentParams) *Payment {
	status := Status(strings.TrimSpace(p.Status))
	if status == "" {
		status = StatusCompleted
	}

	return &Payment{
		bookingID:     p.BookingID,
		amount:        p.Amount,
		method:        p.Method,
		status:        status,
		paymentDate:   p.PaymentDate.UTC(),
		paymentMethod: p.PaymentMethod,
		transactionID: strings.TrimSpace(p.TransactionID),
		createdAt:     time.Now().UTC(),
	}
}

// --- Getters ---

func (p *Payment) ID() int64               { return p.id }
func (p *Payment) BookingID() int64        { return p.bookingID }
func (p *Payment) Amount() decimal.Decimal { return p.amount }
func (p *Payment) Method() string          { return p.method }
func (p *Payment) Status() Status          { return p.status }
func (p *Payment) PaymentDate() time.Time  { return p.paymentDate }
func (p *Payment) PaymentMethod() string   { return p.paymentMethod }
func (p *Payment) TransactionID() string   { return p.transactionID }
func (p *Payment) CreatedAt() time.Time    { return p.createdAt }

// HasTransactionID reports whether the caller supplied a transaction id.
func (p *Payment) HasTransactionID() bool { return p.transactionID != "" }

// Reconstitute rebuilds a Payment from persisted data.
func Reconstitute(
	id, bookingID int64,
	amount decimal.Decimal,
	method string,
	status Status,
	paymentDate time.Time,
	paymentMethod, transactionID string,
	createdAt time.Time,
) *Payment {
	return &Payment{
		id:            id,
		bookingID:     bookingID,
		amount:        amount,
		method:        method,
		status:        status,
		paymentDate:   paymentDate,
		paymentMethod: paymentMethod,
		transactionID: transactionID,
		createdAt:     createdAt,
	}
}
