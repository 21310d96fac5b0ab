// Package rabbit publishes domain events to RabbitMQ. Events are routed on a
// topic exchange by their Kind, so the notification service can subscribe to
// "order.delivery_ready" without seeing every status change.
//
// Publishing is fire-and-forget. A workflow action that already committed
// must not fail because the broker is down; publish errors are logged and
// swallowed.
package rabbit

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"laundry/internal/core/domain/model/order"
)

// Publisher pushes order events to a RabbitMQ topic exchange.
type Publisher struct {
	ch       *amqp.Channel
	exchange string
	logger   *slog.Logger
}

// envelope is the wire format of a published event.
type envelope struct {
	Kind       string    `json:"kind"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    any       `json:"payload"`
}

// NewPublisher declares the topic exchange and returns a publisher bound to it.
func NewPublisher(conn *amqp.Connection, exchange string, logger *slog.Logger) (*Publisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, err
	}

	err = ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil)
	if err != nil {
		_ = ch.Close()
		return nil, err
	}

	return &Publisher{
		ch:       ch,
		exchange: exchange,
		logger:   logger,
	}, nil
}

// Publish sends each event with its Kind as the routing key. Failures are
// logged and never returned.
func (p *Publisher) Publish(ctx context.Context, events ...order.DomainEvent) {
	for _, event := range events {
		body, err := json.Marshal(envelope{
			Kind:       event.Kind(),
			OccurredAt: event.OccurredAt(),
			Payload:    event,
		})
		if err != nil {
			p.logger.ErrorContext(ctx, "marshal event",
				slog.String("kind", event.Kind()), slog.Any("error", err))
			continue
		}

		err = p.ch.PublishWithContext(ctx, p.exchange, event.Kind(), false, false,
			amqp.Publishing{
				DeliveryMode: amqp.Persistent,
				Timestamp:    time.Now().UTC(),
				ContentType:  "application/json",
				Body:         body,
			})
		if err != nil {
			p.logger.ErrorContext(ctx, "publish event",
				slog.String("kind", event.Kind()), slog.Any("error", err))
		}
	}
}

// Close releases the channel.
func (p *Publisher) Close() {
	if p.ch != nil {
		_ = p.ch.Close()
	}
}

// NopPublisher discards events. Used when no broker is configured.
type NopPublisher struct{}

// Publish does nothing.
func (NopPublisher) Publish(context.Context, ...order.DomainEvent) {}
