package rabbitmq

import (
	"context"
	"encoding/json"
	"time"

	"custodial-ledger/internal/core/domain"
	"custodial-ledger/internal/core/ports"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

// dedupTTL bounds how long processed ids are remembered. Redeliveries
// arrive within seconds, not days.
const dedupTTL = 24 * time.Hour

// Consumer drains the notification queue. Deliveries are at-least-once, so
// each message id passes through the processed-event store first; an id seen
// before is acked without notifying again.
type Consumer struct {
	processed ports.ProcessedEventStore
	sink      ports.NotificationSink
	log       zerolog.Logger
}

func NewConsumer(processed ports.ProcessedEventStore, sink ports.NotificationSink, log zerolog.Logger) *Consumer {
	return &Consumer{processed: processed, sink: sink, log: log}
}

// Run consumes until ctx is cancelled or the delivery channel closes.
func (c *Consumer) Run(ctx context.Context, deliveries <-chan amqp.Delivery) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-deliveries:
			if !ok {
				return nil
			}
			c.HandleDelivery(ctx, d)
		}
	}
}

// HandleDelivery processes one message. Malformed messages are rejected
// without requeue; transient sink failures are nacked for redelivery.
func (c *Consumer) HandleDelivery(ctx context.Context, d amqp.Delivery) {
	var event domain.TransferCompletedEvent
	if err := json.Unmarshal(d.Body, &event); err != nil {
		c.log.Error().Err(err).Str("message_id", d.MessageId).Msg("malformed event, dropping")
		_ = d.Nack(false, false)
		return
	}

	eventID := d.MessageId
	if eventID == "" {
		eventID = event.TransactionID.String()
	}

	fresh, err := c.processed.MarkProcessed(ctx, eventID, dedupTTL)
	if err != nil {
		c.log.Error().Err(err).Str("event_id", eventID).Msg("dedup check failed, requeueing")
		_ = d.Nack(false, true)
		return
	}
	if !fresh {
		c.log.Debug().Str("event_id", eventID).Msg("duplicate event, acking")
		_ = d.Ack(false)
		return
	}

	if err := c.sink.Notify(ctx, event); err != nil {
		// Release the dedup mark so the redelivery is not mistaken for a
		// duplicate.
		if uerr := c.processed.Unmark(ctx, eventID); uerr != nil {
			c.log.Error().Err(uerr).Str("event_id", eventID).Msg("unmark failed")
		}
		c.log.Error().Err(err).Str("event_id", eventID).Msg("notification failed, requeueing")
		_ = d.Nack(false, true)
		return
	}

	c.log.Info().
		Str("event_id", eventID).
		Str("amount", event.Amount.String()).
		Msg("notification sent")
	_ = d.Ack(false)
}
