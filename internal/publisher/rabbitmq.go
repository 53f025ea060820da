// Package publisher announces subscription lifecycle events on RabbitMQ.
package publisher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"newsletter_client/internal/domain"
)

const eventSchemaVersion = 1

var ErrClosed = errors.New("publisher closed")

type Config struct {
	URL        string
	Exchange   string
	RoutingKey string
	QueueName  string
}

// RabbitMQ publishes SubscriptionEvents to a durable direct exchange. Every
// action is routed with the configured key and a per-action key
// "<routing_key>.<action>", both bound to the same queue.
type RabbitMQ struct {
	conn       *amqp.Connection
	channel    *amqp.Channel
	exchange   string
	routingKey string
	logger     *slog.Logger
}

func NewRabbitMQ(cfg Config, logger *slog.Logger) (*RabbitMQ, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("connect to rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if err := declare(ch, cfg); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}

	logger = logger.With("component", "publisher")
	logger.Info("connected to rabbitmq",
		"exchange", cfg.Exchange,
		"queue", cfg.QueueName,
		"routing_key", cfg.RoutingKey,
	)

	return &RabbitMQ{
		conn:       conn,
		channel:    ch,
		exchange:   cfg.Exchange,
		routingKey: cfg.RoutingKey,
		logger:     logger,
	}, nil
}

func declare(ch *amqp.Channel, cfg Config) error {
	err := ch.ExchangeDeclare(
		cfg.Exchange,
		"direct",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}

	q, err := ch.QueueDeclare(
		cfg.QueueName,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}

	keys := []string{
		cfg.RoutingKey,
		actionKey(cfg.RoutingKey, domain.ActionSubscribed),
		actionKey(cfg.RoutingKey, domain.ActionUnsubscribed),
	}
	for _, key := range keys {
		if err := ch.QueueBind(q.Name, key, cfg.Exchange, false, nil); err != nil {
			return fmt.Errorf("bind queue %s: %w", key, err)
		}
	}

	return nil
}

// EventMessage is the wire form of a published SubscriptionEvent.
type EventMessage struct {
	Version int                      `json:"version"`
	Event   domain.SubscriptionEvent `json:"event"`
}

func (r *RabbitMQ) Publish(ctx context.Context, event *domain.SubscriptionEvent) error {
	if r.channel == nil || r.channel.IsClosed() {
		return ErrClosed
	}

	msg := EventMessage{
		Version: eventSchemaVersion,
		Event:   *event,
	}
	if msg.Event.Timestamp.IsZero() {
		msg.Event.Timestamp = time.Now().UTC()
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	err = r.channel.PublishWithContext(
		ctx,
		r.exchange,
		actionKey(r.routingKey, event.Action),
		false,
		false,
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			ContentType:  "application/json",
			MessageId:    uuid.NewString(),
			Type:         event.Action,
			Body:         body,
			Timestamp:    msg.Event.Timestamp,
		},
	)
	if err != nil {
		return fmt.Errorf("publish message: %w", err)
	}

	r.logger.Debug("published event",
		"action", event.Action,
		"topics", len(event.Topics),
	)

	return nil
}

func (r *RabbitMQ) Close() error {
	if r.channel != nil {
		r.channel.Close()
	}
	if r.conn != nil {
		return r.conn.Close()
	}
	return nil
}

func actionKey(routingKey, action string) string {
	if action == "" {
		return routingKey
	}
	return routingKey + "." + action
}
