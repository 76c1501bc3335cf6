package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/iliyamo/tickethub/internal/queue"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const dialTimeout = 2 * time.Second

// Publisher delivers booking lifecycle messages to interested consumers.
type Publisher interface {
	Publish(ctx context.Context, msg queue.BookingMessage) error
}

// NoopPublisher drops every message.  It is used when no broker is
// configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, queue.BookingMessage) error { return nil }

// AMQPPublisher publishes booking messages to a durable RabbitMQ queue on
// the default exchange.  Each call dials its own connection, so a broker
// outage only affects the calls made while it lasts.
type AMQPPublisher struct {
	url   string
	queue string
}

// NewAMQPPublisher returns a publisher for queueName on the broker at url.
// An empty queueName selects queue.DefaultQueueName.
func NewAMQPPublisher(url, queueName string) *AMQPPublisher {
	if queueName == "" {
		queueName = queue.DefaultQueueName
	}
	return &AMQPPublisher{url: url, queue: queueName}
}

// Publish declares the queue (idempotent) and sends msg as a persistent
// JSON message.
func (p *AMQPPublisher) Publish(ctx context.Context, msg queue.BookingMessage) error {
	pub, err := newPublishing(msg)
	if err != nil {
		return err
	}

	conn, err := amqp.DialConfig(p.url, amqp.Config{Dial: amqp.DefaultDial(dialTimeout)})
	if err != nil {
		return fmt.Errorf("rabbitmq dial: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("rabbitmq channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(
		p.queue, // name
		true,    // durable
		false,   // autoDelete
		false,   // exclusive
		false,   // noWait
		nil,     // args
	); err != nil {
		return fmt.Errorf("rabbitmq queue declare: %w", err)
	}

	if err := ch.PublishWithContext(ctx,
		"",      // default exchange
		p.queue, // routing key = queue name
		false,   // mandatory
		false,   // immediate
		pub,
	); err != nil {
		return fmt.Errorf("rabbitmq publish: %w", err)
	}
	return nil
}

func newPublishing(msg queue.BookingMessage) (amqp.Publishing, error) {
	body, err := json.Marshal(msg)
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("marshal booking message: %w", err)
	}
	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    uuid.NewString(),
		Type:         msg.Type,
		Timestamp:    msg.OccurredAt,
		Body:         body,
	}, nil
}
