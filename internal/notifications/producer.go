package notifications

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"theaterbook/pkg/logger"

	"github.com/IBM/sarama"
)

// Producer hands a notification to whatever delivers it.
type Producer interface {
	Publish(ctx context.Context, n *Notification) error
	Close() error
}

type KafkaProducerConfig struct {
	Brokers          []string
	Topic            string
	RetryMax         int
	Timeout          time.Duration
	RequiredAcks     sarama.RequiredAcks
	Compression      sarama.CompressionCodec
	IdempotentWrites bool
	MaxMessageBytes  int
}

func DefaultKafkaProducerConfig(brokers []string, topic string) *KafkaProducerConfig {
	return &KafkaProducerConfig{
		Brokers:          brokers,
		Topic:            topic,
		RetryMax:         3,
		Timeout:          10 * time.Second,
		RequiredAcks:     sarama.WaitForAll,
		Compression:      sarama.CompressionSnappy,
		IdempotentWrites: true,
		MaxMessageBytes:  1000000,
	}
}

type KafkaProducer struct {
	producer sarama.SyncProducer
	topic    string
	log      *logger.Logger
}

func NewKafkaProducer(cfg *KafkaProducerConfig) (*KafkaProducer, error) {
	sc := sarama.NewConfig()
	sc.Producer.Return.Successes = true
	sc.Producer.Return.Errors = true
	sc.Producer.RequiredAcks = cfg.RequiredAcks
	sc.Producer.Compression = cfg.Compression
	sc.Producer.Retry.Max = cfg.RetryMax
	sc.Producer.Timeout = cfg.Timeout
	sc.Producer.Idempotent = cfg.IdempotentWrites
	sc.Producer.MaxMessageBytes = cfg.MaxMessageBytes
	if cfg.IdempotentWrites {
		sc.Net.MaxOpenRequests = 1
	}
	sc.Producer.Partitioner = sarama.NewHashPartitioner

	p, err := sarama.NewSyncProducer(cfg.Brokers, sc)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}
	return newKafkaProducer(p, cfg.Topic), nil
}

func newKafkaProducer(p sarama.SyncProducer, topic string) *KafkaProducer {
	return &KafkaProducer{producer: p, topic: topic, log: logger.GetDefault()}
}

func (k *KafkaProducer) Publish(ctx context.Context, n *Notification) error {
	body, err := n.ToJSON()
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}
	msg := &sarama.ProducerMessage{
		Topic: k.topic,
		Key:   sarama.StringEncoder(n.PartitionKey()),
		Value: sarama.ByteEncoder(body),
		Headers: []sarama.RecordHeader{
			{Key: []byte("notification_id"), Value: []byte(n.ID.String())},
			{Key: []byte("notification_type"), Value: []byte(n.Type)},
			{Key: []byte("producer"), Value: []byte("theaterbook")},
		},
		Timestamp: n.CreatedAt,
	}

	partition, offset, err := k.producer.SendMessage(msg)
	if err != nil {
		return fmt.Errorf("failed to send notification to Kafka: %w", err)
	}
	k.log.DebugContext(ctx, "notification published",
		slog.String("topic", k.topic),
		slog.Int("partition", int(partition)),
		slog.Int64("offset", offset),
		slog.String("type", string(n.Type)),
	)
	return nil
}

func (k *KafkaProducer) Close() error {
	if err := k.producer.Close(); err != nil {
		return fmt.Errorf("failed to close Kafka producer: %w", err)
	}
	return nil
}

// DirectProducer delivers inline. Used when no broker is configured.
type DirectProducer struct {
	sender Sender
}

func NewDirectProducer(sender Sender) *DirectProducer {
	return &DirectProducer{sender: sender}
}

func (d *DirectProducer) Publish(ctx context.Context, n *Notification) error {
	return d.sender.Send(ctx, n)
}

func (d *DirectProducer) Close() error { return nil }
