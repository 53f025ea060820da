//go:build integration

package publisher

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/rabbitmq"
	"github.com/testcontainers/testcontainers-go/wait"

	"newsletter_client/internal/domain"
)

type RabbitMQIntegrationSuite struct {
	suite.Suite
	ctx       context.Context
	container *rabbitmq.RabbitMQContainer
	amqpURL   string
	logger    *slog.Logger
}

func (s *RabbitMQIntegrationSuite) SetupSuite() {
	s.ctx = context.Background()
	s.logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	container, err := rabbitmq.Run(s.ctx,
		"rabbitmq:3.13-management-alpine",
		testcontainers.WithWaitStrategy(
			wait.ForLog("Server startup complete").
				WithStartupTimeout(60*time.Second),
		),
	)
	s.Require().NoError(err)
	s.container = container

	amqpURL, err := container.AmqpURL(s.ctx)
	s.Require().NoError(err)
	s.amqpURL = amqpURL
}

func (s *RabbitMQIntegrationSuite) TearDownSuite() {
	if s.container != nil {
		_ = s.container.Terminate(s.ctx)
	}
}

func TestRabbitMQIntegrationSuite(t *testing.T) {
	suite.Run(t, new(RabbitMQIntegrationSuite))
}

func (s *RabbitMQIntegrationSuite) config(name string) Config {
	return Config{
		URL:        s.amqpURL,
		Exchange:   "test-exchange-" + name,
		RoutingKey: "test-events-" + name,
		QueueName:  "test-queue-" + name,
	}
}

func (s *RabbitMQIntegrationSuite) TestPublisher_Connection() {
	pub, err := NewRabbitMQ(s.config("connection"), s.logger)
	s.NoError(err)
	s.NotNil(pub)

	err = pub.Close()
	s.NoError(err)
}

func (s *RabbitMQIntegrationSuite) TestPublisher_PublishSubscribed() {
	cfg := s.config("subscribed")

	pub, err := NewRabbitMQ(cfg, s.logger)
	s.Require().NoError(err)
	defer pub.Close()

	err = pub.Publish(s.ctx, &domain.SubscriptionEvent{
		Action: domain.ActionSubscribed,
		Email:  "reader@example.com",
		Topics: []string{"ai", "tech"},
	})
	s.NoError(err)

	msg := s.consumeMessage(cfg)
	s.Require().NotNil(msg)

	s.Equal("application/json", msg.ContentType)
	s.Equal(domain.ActionSubscribed, msg.Type)
	s.Equal(cfg.RoutingKey+".subscribed", msg.RoutingKey)
	s.NotEmpty(msg.MessageId)

	var received EventMessage
	err = json.Unmarshal(msg.Body, &received)
	s.NoError(err)
	s.Equal(1, received.Version)
	s.Equal(domain.ActionSubscribed, received.Event.Action)
	s.Equal("reader@example.com", received.Event.Email)
	s.Equal([]string{"ai", "tech"}, received.Event.Topics)
	s.False(received.Event.Timestamp.IsZero())
}

func (s *RabbitMQIntegrationSuite) TestPublisher_PublishUnsubscribed() {
	cfg := s.config("unsubscribed")

	pub, err := NewRabbitMQ(cfg, s.logger)
	s.Require().NoError(err)
	defer pub.Close()

	sentAt := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	err = pub.Publish(s.ctx, &domain.SubscriptionEvent{
		Action:    domain.ActionUnsubscribed,
		Email:     "reader@example.com",
		Token:     "token-123",
		Timestamp: sentAt,
	})
	s.NoError(err)

	msg := s.consumeMessage(cfg)
	s.Require().NotNil(msg)

	var received EventMessage
	err = json.Unmarshal(msg.Body, &received)
	s.NoError(err)
	s.Equal(domain.ActionUnsubscribed, received.Event.Action)
	s.Equal("token-123", received.Event.Token)
	s.True(sentAt.Equal(received.Event.Timestamp))
}

func (s *RabbitMQIntegrationSuite) TestPublisher_MessagePersistence() {
	cfg := s.config("persist")

	pub, err := NewRabbitMQ(cfg, s.logger)
	s.Require().NoError(err)
	defer pub.Close()

	err = pub.Publish(s.ctx, &domain.SubscriptionEvent{Action: domain.ActionSubscribed, Email: "a@example.com"})
	s.NoError(err)

	msg := s.consumeMessage(cfg)
	s.Require().NotNil(msg)

	s.Equal(uint8(amqp.Persistent), msg.DeliveryMode)
}

func (s *RabbitMQIntegrationSuite) TestPublisher_AfterClose() {
	pub, err := NewRabbitMQ(s.config("closed"), s.logger)
	s.Require().NoError(err)
	s.Require().NoError(pub.Close())

	err = pub.Publish(s.ctx, &domain.SubscriptionEvent{Action: domain.ActionSubscribed})
	s.ErrorIs(err, ErrClosed)
}

func (s *RabbitMQIntegrationSuite) consumeMessage(cfg Config) *amqp.Delivery {
	conn, err := amqp.Dial(s.amqpURL)
	s.Require().NoError(err)
	defer conn.Close()

	ch, err := conn.Channel()
	s.Require().NoError(err)
	defer ch.Close()

	msgs, err := ch.Consume(cfg.QueueName, "", true, false, false, false, nil)
	s.Require().NoError(err)

	select {
	case msg := <-msgs:
		return &msg
	case <-time.After(5 * time.Second):
		s.Fail("Timeout waiting for message")
		return nil
	}
}
