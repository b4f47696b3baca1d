package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"

	"custodial-ledger/internal/core/domain"

	amqp "github.com/rabbitmq/amqp091-go"
)

// AMQPChannel is the slice of *amqp.Channel the publisher needs, kept small
// so tests can substitute a fake.
type AMQPChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// Publisher emits transfer events. Delivery is persistent and the message id
// is the transaction id, so consumers can deduplicate redeliveries.
type Publisher struct {
	channel  AMQPChannel
	exchange string
	topic    string
}

func NewPublisher(channel AMQPChannel, exchange, topic string) *Publisher {
	return &Publisher{channel: channel, exchange: exchange, topic: topic}
}

func (p *Publisher) PublishTransferCompleted(ctx context.Context, event domain.TransferCompletedEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	err = p.channel.PublishWithContext(ctx, p.exchange, p.topic, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    event.TransactionID.String(),
		Timestamp:    event.Timestamp,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("publish event: %w", err)
	}
	return nil
}
