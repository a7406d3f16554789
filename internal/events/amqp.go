package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

type AMQPPublisher struct {
	conn    *amqp.Connection
	channel *amqp.Channel
}

// NewAMQPPublisher connects to the broker and declares the booking queues.
// Queues are durable so events survive a broker restart.
func NewAMQPPublisher(url string) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to broker: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	for _, queue := range []string{QueueBookingConfirmed, QueueBookingCancelled} {
		_, err = channel.QueueDeclare(queue, true, false, false, false, nil)
		if err != nil {
			channel.Close()
			conn.Close()
			return nil, fmt.Errorf("failed to declare queue %s: %w", queue, err)
		}
	}

	return &AMQPPublisher{
		conn:    conn,
		channel: channel,
	}, nil
}

func (p *AMQPPublisher) PublishBookingConfirmed(ctx context.Context, event BookingConfirmed) error {
	return p.publish(ctx, QueueBookingConfirmed, event)
}

func (p *AMQPPublisher) PublishBookingCancelled(ctx context.Context, event BookingCancelled) error {
	return p.publish(ctx, QueueBookingCancelled, event)
}

func (p *AMQPPublisher) publish(ctx context.Context, queue string, event any) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}

	err = p.channel.PublishWithContext(ctx, "", queue, false, false, msg)
	if err != nil {
		return fmt.Errorf("failed to publish to %s: %w", queue, err)
	}

	return nil
}

func (p *AMQPPublisher) Close() error {
	channelErr := p.channel.Close()

	err := p.conn.Close()
	if err != nil {
		return err
	}

	return channelErr
}

// NoopPublisher is used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) PublishBookingConfirmed(context.Context, BookingConfirmed) error {
	return nil
}

func (NoopPublisher) PublishBookingCancelled(context.Context, BookingCancelled) error {
	return nil
}
