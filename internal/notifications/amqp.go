package notifications

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"theaterbook/pkg/logger"

	amqp "github.com/rabbitmq/amqp091-go"
)

// AMQPProducer publishes persistent messages to a durable queue on the
// default exchange.
type AMQPProducer struct {
	mu    sync.Mutex
	conn  *amqp.Connection
	ch    *amqp.Channel
	queue string
}

func NewAMQPProducer(url, queue string) (*AMQPProducer, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("amqp dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("amqp channel: %w", err)
	}
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("amqp queue declare: %w", err)
	}
	return &AMQPProducer{conn: conn, ch: ch, queue: queue}, nil
}

func (p *AMQPProducer) Publish(ctx context.Context, n *Notification) error {
	body, err := n.ToJSON()
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ch.PublishWithContext(ctx, "", p.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    n.ID.String(),
		Type:         string(n.Type),
		Timestamp:    time.Now().UTC(),
		Body:         body,
	})
}

func (p *AMQPProducer) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return errors.Join(p.ch.Close(), p.conn.Close())
}

// AMQPConsumer drains the queue into a Sender, reconnecting with backoff
// until ctx is done.
type AMQPConsumer struct {
	url    string
	queue  string
	sender Sender
	retry  RetryPolicy
	log    *logger.Logger
}

func NewAMQPConsumer(url, queue string, sender Sender, retry RetryPolicy) *AMQPConsumer {
	return &AMQPConsumer{url: url, queue: queue, sender: sender, retry: retry, log: logger.GetDefault()}
}

func (c *AMQPConsumer) Run(ctx context.Context) {
	backoff := time.Second
	for ctx.Err() == nil {
		conn, err := amqp.Dial(c.url)
		if err != nil {
			c.log.WarnContext(ctx, "amqp consumer dial failed", slog.Any("error", err), slog.Duration("retry_in", backoff))
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		if err := c.consume(ctx, conn); err != nil && ctx.Err() == nil {
			c.log.WarnContext(ctx, "amqp consume loop ended", slog.Any("error", err))
		}
		_ = conn.Close()
	}
}

func (c *AMQPConsumer) consume(ctx context.Context, conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer ch.Close()

	if err := ch.Qos(20, 0, false); err != nil {
		return fmt.Errorf("qos: %w", err)
	}
	if _, err := ch.QueueDeclare(c.queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	msgs, err := ch.ConsumeWithContext(ctx, c.queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for d := range msgs {
		n, err := Decode(d.Body)
		if err != nil {
			c.log.ErrorContext(ctx, "dropping malformed notification", slog.Any("error", err))
			_ = d.Nack(false, false)
			continue
		}
		if err := Deliver(ctx, c.sender, n, c.retry); err != nil {
			c.log.ErrorContext(ctx, "notification delivery failed",
				slog.String("notification_id", n.ID.String()),
				slog.Any("error", err),
			)
			_ = d.Nack(false, false)
			continue
		}
		_ = d.Ack(false)
	}
	return errors.New("deliveries channel closed")
}
