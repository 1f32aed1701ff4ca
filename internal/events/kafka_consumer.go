package events

import (
	"context"
	"errors"
	"strings"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/sportsvenue/service-payment/internal/application"
	"github.com/sportsvenue/service-payment/internal/contracts"
	"github.com/sportsvenue/service-payment/internal/platform/domainerr"
	"github.com/sportsvenue/service-payment/internal/platform/kafka"
	"go.uber.org/zap"
)

// BookingEventConsumer mirrors booking events into the local booking store.
type BookingEventConsumer struct {
	consumer *kafka.Consumer
	sync     *application.BookingSyncService
	logger   *zap.Logger
}

// NewBookingEventConsumer creates a new consumer for booking events.
func NewBookingEventConsumer(
	brokers []string,
	groupID string,
	sync *application.BookingSyncService,
	logger *zap.Logger,
) *BookingEventConsumer {
	return &BookingEventConsumer{
		consumer: kafka.NewConsumer(brokers, groupID, contracts.TopicBookingEvents, logger),
		sync:     sync,
		logger:   logger,
	}
}

// Start begins consuming booking events. It blocks until the context is cancelled.
func (c *BookingEventConsumer) Start(ctx context.Context) error {
	return c.consumer.Consume(ctx, c.handleMessage)
}

func (c *BookingEventConsumer) handleMessage(ctx context.Context, msg kafkago.Message) error {
	cloudEvent, err := kafka.ParseCloudEvent(msg.Value)
	if err != nil {
		c.logger.Error("failed to parse cloud event from booking topic",
			zap.Error(err),
			zap.String("raw", string(msg.Value)),
		)
		return kafka.Unprocessable(err)
	}

	c.logger.Info("received booking event",
		zap.String("type", cloudEvent.Type),
		zap.String("id", cloudEvent.ID),
	)

	switch {
	case strings.EqualFold(cloudEvent.Type, contracts.BookingCreated):
		var event contracts.BookingCreatedEvent
		if err := cloudEvent.ParseData(&event); err != nil {
			c.logger.Error("failed to parse BookingCreatedEvent data", zap.Error(err))
			return kafka.Unprocessable(err)
		}
		return classify(c.sync.HandleBookingCreated(ctx, event))

	case strings.EqualFold(cloudEvent.Type, contracts.BookingCancelled):
		var event contracts.BookingCancelledEvent
		if err := cloudEvent.ParseData(&event); err != nil {
			c.logger.Error("failed to parse BookingCancelledEvent data", zap.Error(err))
			return kafka.Unprocessable(err)
		}
		return classify(c.sync.HandleBookingCancelled(ctx, event))

	default:
		c.logger.Debug("ignoring unhandled booking event type",
			zap.String("type", cloudEvent.Type),
		)
		return nil
	}
}

// classify marks events the service rejects as invalid so they are skipped rather than retried.
func classify(err error) error {
	if errors.Is(err, domainerr.ErrValidation) {
		return kafka.Unprocessable(err)
	}
	return err
}

// Close closes the underlying Kafka consumer.
func (c *BookingEventConsumer) Close() error {
	return c.consumer.Close()
}
