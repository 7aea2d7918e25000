package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// channel is the subset of *amqp.Channel the forwarder needs.
type channel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// AMQPForwarder copies bus events onto a RabbitMQ topic exchange, routed by
// event type.
type AMQPForwarder struct {
	conn     *amqp.Connection
	channel  channel
	exchange string
	logger   *slog.Logger
}

func DialAMQPForwarder(url, exchange string, logger *slog.Logger) (*AMQPForwarder, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	f, err := newAMQPForwarder(ch, exchange, logger)
	if err != nil {
		conn.Close()
		return nil, err
	}
	f.conn = conn
	return f, nil
}

func newAMQPForwarder(ch channel, exchange string, logger *slog.Logger) (*AMQPForwarder, error) {
	err := ch.ExchangeDeclare(
		exchange, // name
		"topic",  // type
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		ch.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	return &AMQPForwarder{
		channel:  ch,
		exchange: exchange,
		logger:   logger,
	}, nil
}

// Handle satisfies Handler. It runs on the publisher's goroutine, so a slow
// broker holds the caller for at most five seconds. The event has already
// been committed, so the caller's cancellation does not stop the forward.
func (f *AMQPForwarder) Handle(ctx context.Context, event Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	err = f.channel.PublishWithContext(
		ctx,
		f.exchange,        // exchange
		event.EventType(), // routing key
		false,             // mandatory
		false,             // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    event.EventID(),
			Timestamp:    event.OccurredAt(),
			Type:         event.EventType(),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish %s: %w", event.EventType(), err)
	}

	f.logger.Debug("event forwarded",
		"event_type", event.EventType(),
		"event_id", event.EventID(),
		"exchange", f.exchange)
	return nil
}

func (f *AMQPForwarder) Close() error {
	if err := f.channel.Close(); err != nil {
		return err
	}
	if f.conn != nil {
		return f.conn.Close()
	}
	return nil
}
