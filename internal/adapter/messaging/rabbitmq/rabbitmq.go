package rabbitmq

import (
	"fmt"

	"custodial-ledger/config"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Conn wraps an AMQP connection plus the channel the service uses. Topology
// (durable topic exchange, durable queue, binding) is declared on connect so
// either side of the pipeline can start first.
type Conn struct {
	conn    *amqp.Connection
	Channel *amqp.Channel
}

func Connect(cfg config.RabbitMQConfig) (*Conn, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if err := declareTopology(ch, cfg); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}

	return &Conn{conn: conn, Channel: ch}, nil
}

func declareTopology(ch *amqp.Channel, cfg config.RabbitMQConfig) error {
	if err := ch.ExchangeDeclare(cfg.Exchange, "topic", true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}

	q, err := ch.QueueDeclare(cfg.Queue, true, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}

	if err := ch.QueueBind(q.Name, cfg.Topic, cfg.Exchange, false, nil); err != nil {
		return fmt.Errorf("bind queue: %w", err)
	}
	return nil
}

func (c *Conn) Close() error {
	if err := c.Channel.Close(); err != nil {
		c.conn.Close()
		return err
	}
	return c.conn.Close()
}

// IsClosed reports whether the underlying connection has died.
func (c *Conn) IsClosed() bool {
	return c.conn.IsClosed()
}
