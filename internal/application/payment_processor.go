package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sportsvenue/service-payment/internal/domain/booking"
	"github.com/sportsvenue/service-payment/internal/domain/payment"
	"github.com/sportsvenue/service-payment/internal/lock"
	"github.com/sportsvenue/service-payment/internal/platform/domainerr"
	"github.com/sportsvenue/service-payment/internal/platform/logger"
	"github.com/sportsvenue/service-payment/internal/platform/metrics"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Processing failures surfaced to callers.
var (
	ErrBookingNotFound = &domainerr.DomainError{Err: domainerr.ErrNotFound, Message: "Booking not found"}
	ErrAmountMismatch  = &domainerr.DomainError{Err: domainerr.ErrValidation, Message: "Payment amount does not match booking amount"}
	ErrBookingBusy     = &domainerr.DomainError{Err: domainerr.ErrConflict, Message: "Booking is being processed by another request"}
	ErrPaymentNotFound = &domainerr.DomainError{Err: domainerr.ErrNotFound, Message: "Payment not found"}
)

const (
	processFailedMessage  = "Failed to process payment"
	defaultPublishTimeout = 3 * time.Second
)

// UnitOfWork runs fn atomically over the booking and payment stores.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(bookings booking.BookingRepository, payments payment.PaymentRepository) error) error
}

// EventPublisher announces committed payments.
type EventPublisher interface {
	PaymentCompleted(ctx context.Context, p *payment.Payment) error
}

// ProcessPaymentCommand carries a payment request as received from the caller.
type ProcessPaymentCommand struct {
	BookingID     int64
	Amount        decimal.Decimal
	Method        string
	Status        string
	PaymentDate   string
	PaymentMethod string
	TransactionID string
}

// PaymentProcessor validates payments against their bookings and records them.
type PaymentProcessor struct {
	uow       UnitOfWork
	payments  payment.PaymentRepository
	locker    lock.Locker
	publisher EventPublisher
	metrics   *metrics.PaymentMetrics
	tracer    trace.Tracer
	logger    *zap.Logger
	now       func() time.Time

	// publishTimeout bounds the post-commit event publish, independent of the request deadline.
	publishTimeout time.Duration
}

// NewPaymentProcessor creates a new PaymentProcessor.
func NewPaymentProcessor(
	uow UnitOfWork,
	payments payment.PaymentRepository,
	locker lock.Locker,
	publisher EventPublisher,
	paymentMetrics *metrics.PaymentMetrics,
	logger *zap.Logger,
) *PaymentProcessor {
	return &PaymentProcessor{
		uow:       uow,
		payments:  payments,
		locker:    locker,
		publisher: publisher,
		metrics:   paymentMetrics,
		tracer:    otel.Tracer("service-payment"),
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },

		publishTimeout: defaultPublishTimeout,
	}
}

// ProcessPayment records a payment for the booking and confirms the booking in one transaction.
// The amount must equal the booking total exactly. Repeated calls record repeated payments.
func (s *PaymentProcessor) ProcessPayment(ctx context.Context, cmd ProcessPaymentCommand) (*payment.Payment, error) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, "UC.ProcessPayment", trace.WithAttributes(
		attribute.Int64("booking.id", cmd.BookingID),
		attribute.String("payment.amount", cmd.Amount.String()),
	))
	defer span.End()

	log := s.requestLogger(ctx).With(zap.Int64("booking_id", cmd.BookingID))
	log.Info("processing payment",
		zap.String("amount", cmd.Amount.String()),
		zap.String("method", cmd.Method),
	)

	saved, err := s.process(ctx, cmd, log)
	outcome := outcomeOf(err)
	s.metrics.Observe(outcome, time.Since(start))

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, outcome)
		if outcome == metrics.OutcomeStoreFailure {
			log.Error("payment failed", zap.String("outcome", outcome), zap.Error(errors.Unwrap(err)))
		} else {
			log.Warn("payment rejected", zap.String("outcome", outcome), zap.Error(err))
		}
		return nil, err
	}

	span.SetAttributes(attribute.Int64("payment.id", saved.ID()))
	span.SetStatus(codes.Ok, "")
	log.Info("payment completed", zap.Int64("payment_id", saved.ID()))

	s.publishCompleted(ctx, saved, log)
	return saved, nil
}

// publishCompleted announces a committed payment. Failures are logged only; the payment stands.
func (s *PaymentProcessor) publishCompleted(ctx context.Context, saved *payment.Payment, log *zap.Logger) {
	if s.publisher == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.publishTimeout)
	defer cancel()

	if err := s.publisher.PaymentCompleted(ctx, saved); err != nil {
		log.Error("failed to publish payment completed event",
			zap.Int64("payment_id", saved.ID()),
			zap.Error(err),
		)
	}
}

func (s *PaymentProcessor) process(ctx context.Context, cmd ProcessPaymentCommand, log *zap.Logger) (*payment.Payment, error) {
	release, err := s.locker.Acquire(ctx, lock.BookingKey(cmd.BookingID))
	if err != nil {
		if errors.Is(err, lock.ErrNotAcquired) {
			return nil, ErrBookingBusy
		}
		return nil, domainerr.NewInternalError(processFailedMessage, fmt.Errorf("acquire booking lock: %w", err))
	}
	defer release()

	paymentDate := resolvePaymentDate(cmd.PaymentDate, s.now(), log)

	var saved *payment.Payment
	err = s.uow.Do(ctx, func(bookings booking.BookingRepository, payments payment.PaymentRepository) error {
		b, err := bookings.FindByID(ctx, cmd.BookingID)
		if err != nil {
			if errors.Is(err, domainerr.ErrNotFound) {
				return ErrBookingNotFound
			}
			return fmt.Errorf("find booking: %w", err)
		}

		if !b.AmountMatches(cmd.Amount) {
			log.Info("amount does not match booking total",
				zap.String("expected", b.TotalAmount().String()),
				zap.String("received", cmd.Amount.String()),
			)
			return ErrAmountMismatch
		}

		if err := b.Confirm(); err != nil {
			return err
		}

		p := payment.NewPayment(payment.NewPaymentParams{
			BookingID:     b.ID(),
			Amount:        cmd.Amount,
			Method:        cmd.Method,
			Status:        cmd.Status,
			PaymentDate:   paymentDate,
			PaymentMethod: cmd.PaymentMethod,
			TransactionID: cmd.TransactionID,
		})
		saved, err = payments.Save(ctx, p)
		if err != nil {
			return fmt.Errorf("save payment: %w", err)
		}

		if err := bookings.Update(ctx, b); err != nil {
			if errors.Is(err, domainerr.ErrConflict) {
				return ErrBookingBusy
			}
			return fmt.Errorf("confirm booking: %w", err)
		}
		return nil
	})
	if err != nil {
		if _, ok := domainerr.As(err); ok {
			return nil, err
		}
		return nil, domainerr.NewInternalError(processFailedMessage, err)
	}
	return saved, nil
}

// GetPaymentByBooking returns the latest payment recorded for the booking.
func (s *PaymentProcessor) GetPaymentByBooking(ctx context.Context, bookingID int64) (*payment.Payment, error) {
	p, err := s.payments.FindByBookingID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, domainerr.ErrNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, domainerr.NewInternalError("Failed to load payment", err)
	}
	return p, nil
}

func (s *PaymentProcessor) requestLogger(ctx context.Context) *zap.Logger {
	if l := logger.FromContext(ctx); l != zap.L() {
		return l
	}
	return s.logger
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeCompleted
	case errors.Is(err, ErrBookingNotFound):
		return metrics.OutcomeBookingMissing
	case errors.Is(err, ErrAmountMismatch):
		return metrics.OutcomeAmountMismatch
	case errors.Is(err, domainerr.ErrConflict):
		return metrics.OutcomeConflict
	case errors.Is(err, domainerr.ErrInternal):
		return metrics.OutcomeStoreFailure
	default:
		return metrics.OutcomeRejected
	}
}
