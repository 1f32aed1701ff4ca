package events

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/sportsvenue/service-payment/internal/contracts"
	"github.com/sportsvenue/service-payment/internal/domain/payment"
	"github.com/sportsvenue/service-payment/internal/platform/kafka"
)

const eventSource = "service-payment"

// EventWriter is the subset of the Kafka producer the publisher needs.
type EventWriter interface {
	PublishEvent(ctx context.Context, topic string, ce kafka.CloudEvent) error
}

// PaymentEventPublisher announces committed payments on the payment topic.
type PaymentEventPublisher struct {
	writer EventWriter
}

// NewPaymentEventPublisher creates a new PaymentEventPublisher.
func NewPaymentEventPublisher(writer EventWriter) *PaymentEventPublisher {
	return &PaymentEventPublisher{writer: writer}
}

// PaymentCompleted publishes a payment.completed event keyed by booking id.
func (p *PaymentEventPublisher) PaymentCompleted(ctx context.Context, pay *payment.Payment) error {
	event := contracts.PaymentCompletedEvent{
		PaymentID:     pay.ID(),
		BookingID:     pay.BookingID(),
		Amount:        pay.Amount(),
		Method:        pay.Method(),
		Status:        string(pay.Status()),
		PaymentMethod: pay.PaymentMethod(),
		TransactionID: pay.TransactionID(),
		PaymentDate:   pay.PaymentDate(),
		OccurredAt:    time.Now().UTC(),
	}

	cloudEvent, err := kafka.NewCloudEvent(eventSource, contracts.PaymentCompleted, event)
	if err != nil {
		return fmt.Errorf("build payment completed event: %w", err)
	}
	cloudEvent.Subject = strconv.FormatInt(pay.BookingID(), 10)

	return p.writer.PublishEvent(ctx, contracts.TopicPaymentEvents, cloudEvent)
}
