// Package transport is a sample-only AMQP bridge demonstrating how the
// topic strings pkg/hub builds can be forwarded onto a message broker by a
// gateway process standing in for the real MQTT connection. It is never
// imported by the allocation-free core packages, only by
// cmd/iot-core-sdk-sample: transport is an excluded collaborator, not
// part of the core.
package transport

import (
	"context"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

// Bridge republishes device-bound topic/payload pairs onto a RabbitMQ
// exchange, one routing key per MQTT topic segment structure.
type Bridge struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
	logger   zerolog.Logger
}

// Dial connects to the broker at url and declares exchange as a topic
// exchange, ready for Publish/Consume.
func Dial(url, exchange string, logger zerolog.Logger) (*Bridge, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial broker: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	return &Bridge{conn: conn, ch: ch, exchange: exchange, logger: logger}, nil
}

// Close tears down the channel and connection.
func (b *Bridge) Close() error {
	if err := b.ch.Close(); err != nil {
		b.conn.Close()
		return err
	}
	return b.conn.Close()
}

// Publish forwards body under routingKey (typically an MQTT topic built by
// pkg/hub), passed to the exchange unchanged. AMQP topic exchanges split
// routing keys on '.', not '/', so a '/'-separated topic is not split into
// segments.
func (b *Bridge) Publish(ctx context.Context, routingKey string, body []byte) error {
	b.logger.Debug().Str("routing_key", routingKey).Int("bytes", len(body)).Msg("publishing")
	return b.ch.PublishWithContext(ctx, b.exchange, routingKey, false, false, amqp.Publishing{
		ContentType: "application/json",
		Body:        body,
	})
}

// Subscribe declares an exclusive queue bound to pattern (an AMQP topic
// binding pattern mirroring an MQTT subscribe filter, e.g.
// "devices.*.messages.devicebound.#") and returns the delivery channel.
func (b *Bridge) Subscribe(pattern string) (<-chan amqp.Delivery, error) {
	q, err := b.ch.QueueDeclare("", false, true, true, false, nil)
	if err != nil {
		return nil, fmt.Errorf("declare queue: %w", err)
	}
	if err := b.ch.QueueBind(q.Name, pattern, b.exchange, false, nil); err != nil {
		return nil, fmt.Errorf("bind queue: %w", err)
	}
	deliveries, err := b.ch.Consume(q.Name, "", true, true, false, false, nil)
	if err != nil {
		return nil, fmt.Errorf("consume: %w", err)
	}
	return deliveries, nil
}
