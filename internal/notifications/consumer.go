package notifications

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"theaterbook/pkg/logger"

	"github.com/IBM/sarama"
)

// RetryPolicy retries a failed send MaxRetries times with exponential
// backoff starting at Backoff.
type RetryPolicy struct {
	MaxRetries int
	Backoff    time.Duration
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxRetries: 3, Backoff: time.Second}
}

// Deliver sends n, retrying per p until it succeeds, retries run out or ctx
// ends.
func Deliver(ctx context.Context, s Sender, n *Notification, p RetryPolicy) error {
	var err error
	for attempt := 0; attempt <= p.MaxRetries; attempt++ {
		if err = s.Send(ctx, n); err == nil {
			return nil
		}
		if attempt == p.MaxRetries {
			break
		}
		delay := p.Backoff * time.Duration(1<<attempt)
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return fmt.Errorf("notification %s failed after %d attempts: %w", n.ID, p.MaxRetries+1, err)
}

type ConsumerConfig struct {
	Brokers           []string
	GroupID           string
	Topics            []string
	SessionTimeout    time.Duration
	Heartbeat         time.Duration
	MaxProcessingTime time.Duration
	OffsetOldest      bool
	Retry             RetryPolicy
}

func DefaultConsumerConfig(brokers []string, group, topic string) *ConsumerConfig {
	return &ConsumerConfig{
		Brokers:           brokers,
		GroupID:           group,
		Topics:            []string{topic},
		SessionTimeout:    30 * time.Second,
		Heartbeat:         3 * time.Second,
		MaxProcessingTime: 5 * time.Minute,
		Retry:             DefaultRetryPolicy(),
	}
}

// KafkaConsumer runs consumer group workers that hand messages to a Sender.
type KafkaConsumer struct {
	group  sarama.ConsumerGroup
	config *ConsumerConfig
	sender Sender
	log    *logger.Logger
	wg     sync.WaitGroup
}

func NewKafkaConsumer(cfg *ConsumerConfig, sender Sender) (*KafkaConsumer, error) {
	sc := sarama.NewConfig()
	sc.Consumer.Group.Session.Timeout = cfg.SessionTimeout
	sc.Consumer.Group.Heartbeat.Interval = cfg.Heartbeat
	sc.Consumer.MaxProcessingTime = cfg.MaxProcessingTime
	sc.Consumer.Return.Errors = true
	sc.Consumer.Offsets.AutoCommit.Enable = true
	sc.Consumer.Offsets.AutoCommit.Interval = time.Second
	if cfg.OffsetOldest {
		sc.Consumer.Offsets.Initial = sarama.OffsetOldest
	} else {
		sc.Consumer.Offsets.Initial = sarama.OffsetNewest
	}

	group, err := sarama.NewConsumerGroup(cfg.Brokers, cfg.GroupID, sc)
	if err != nil {
		return nil, fmt.Errorf("failed to create consumer group: %w", err)
	}
	return &KafkaConsumer{group: group, config: cfg, sender: sender, log: logger.GetDefault()}, nil
}

// Start launches numWorkers workers that run until ctx is cancelled.
func (k *KafkaConsumer) Start(ctx context.Context, numWorkers int) {
	if numWorkers < 1 {
		numWorkers = 1
	}
	go func() {
		for err := range k.group.Errors() {
			k.log.Error("consumer group error", slog.Any("error", err))
		}
	}()

	for i := 0; i < numWorkers; i++ {
		k.wg.Add(1)
		go func(workerID int) {
			defer k.wg.Done()
			k.runWorker(ctx, workerID)
		}(i)
	}
	k.log.Info("notification consumers started", slog.Int("workers", numWorkers), slog.Any("topics", k.config.Topics))
}

func (k *KafkaConsumer) runWorker(ctx context.Context, workerID int) {
	handler := &groupHandler{sender: k.sender, retry: k.config.Retry, workerID: workerID, log: k.log}
	for ctx.Err() == nil {
		if err := k.group.Consume(ctx, k.config.Topics, handler); err != nil {
			k.log.Warn("consume failed", slog.Int("worker", workerID), slog.Any("error", err))
			select {
			case <-time.After(time.Second):
			case <-ctx.Done():
			}
		}
	}
}

// Stop closes the group and waits for workers. Cancel the Start context first.
func (k *KafkaConsumer) Stop() error {
	err := k.group.Close()
	k.wg.Wait()
	if err != nil {
		return fmt.Errorf("failed to close consumer group: %w", err)
	}
	return nil
}

type groupHandler struct {
	sender   Sender
	retry    RetryPolicy
	workerID int
	log      *logger.Logger
}

func (h *groupHandler) Setup(sarama.ConsumerGroupSession) error   { return nil }
func (h *groupHandler) Cleanup(sarama.ConsumerGroupSession) error { return nil }

func (h *groupHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case msg, ok := <-claim.Messages():
			if !ok {
				return nil
			}
			h.handle(session.Context(), msg)
			// Failed messages are logged and skipped so one bad address
			// cannot stall the partition.
			session.MarkMessage(msg, "")
		case <-session.Context().Done():
			return nil
		}
	}
}

func (h *groupHandler) handle(ctx context.Context, msg *sarama.ConsumerMessage) {
	n, err := Decode(msg.Value)
	if err != nil {
		h.log.ErrorContext(ctx, "dropping malformed notification",
			slog.Int("worker", h.workerID),
			slog.Int64("offset", msg.Offset),
			slog.Any("error", err),
		)
		return
	}
	if err := Deliver(ctx, h.sender, n, h.retry); err != nil {
		h.log.ErrorContext(ctx, "notification delivery failed",
			slog.Int("worker", h.workerID),
			slog.String("notification_id", n.ID.String()),
			slog.Any("error", err),
		)
	}
}
