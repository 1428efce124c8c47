package notifications

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"theaterbook/internal/bookings"
	"theaterbook/internal/shared/config"
	"theaterbook/internal/theaters"
	"theaterbook/internal/timewindow"
	"theaterbook/internal/unsaved"
	"theaterbook/pkg/logger"

	"github.com/google/uuid"
)

// TheaterLookup resolves theater names and slot times for message bodies.
type TheaterLookup interface {
	FindByID(ctx context.Context, id uuid.UUID) (*theaters.Theater, error)
}

// Service turns domain events into notifications and publishes them.
type Service struct {
	producer Producer
	theaters TheaterLookup
	window   *timewindow.Window
	log      *logger.Logger
}

func NewService(producer Producer, theaters TheaterLookup, window *timewindow.Window) *Service {
	return &Service{producer: producer, theaters: theaters, window: window, log: logger.GetDefault()}
}

// NewProducer picks Kafka, then AMQP, then inline delivery through sender.
func NewProducer(cfg *config.Config, sender Sender) (Producer, error) {
	switch {
	case cfg.Kafka.Enabled:
		return NewKafkaProducer(DefaultKafkaProducerConfig(cfg.Kafka.Brokers, cfg.Kafka.NotificationTopic))
	case cfg.AMQP.Enabled:
		return NewAMQPProducer(cfg.AMQP.URL, cfg.AMQP.Queue)
	default:
		return NewDirectProducer(sender), nil
	}
}

func money(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func (s *Service) describe(ctx context.Context, theaterID, slotID uuid.UUID) (string, string) {
	if s.theaters == nil {
		return "your theater", ""
	}
	t, err := s.theaters.FindByID(ctx, theaterID)
	if err != nil {
		s.log.WarnContext(ctx, "theater lookup for notification failed", slog.Any("error", err))
		return "your theater", ""
	}
	if slot, ok := t.FindSlot(slotID); ok {
		return t.Name, slot.StartTime + " - " + slot.EndTime
	}
	return t.Name, ""
}

// BookingConfirmed publishes the confirmation mail of b. Bookings without an
// email are skipped.
func (s *Service) BookingConfirmed(ctx context.Context, b *bookings.Booking) error {
	if b.Email == "" {
		return nil
	}
	theater, slot := s.describe(ctx, b.TheaterID, b.SlotID)
	n := New(TypeBookingConfirmed, b.Email, b.FullName, map[string]string{
		"booking_id":     b.BookingID,
		"theater":        theater,
		"slot":           slot,
		"date":           s.window.DayKey(b.Date),
		"payment_amount": money(b.PaymentAmount),
		"total_amount":   money(b.TotalAmount),
	})
	if err := s.producer.Publish(ctx, n); err != nil {
		return fmt.Errorf("publish booking confirmation: %w", err)
	}
	return nil
}

func (s *Service) UnsavedReminder(ctx context.Context, b *unsaved.Booking) error {
	if b.Email == "" {
		return nil
	}
	theater, slot := s.describe(ctx, b.TheaterID, b.SlotID)
	n := New(TypeUnsavedReminder, b.Email, b.FullName, map[string]string{
		"booking_id": b.BookingID,
		"theater":    theater,
		"slot":       slot,
		"date":       s.window.DayKey(b.Date),
	})
	if err := s.producer.Publish(ctx, n); err != nil {
		return fmt.Errorf("publish unsaved reminder: %w", err)
	}
	return nil
}

func (s *Service) SendOTP(ctx context.Context, email, code string, ttl time.Duration) error {
	n := New(TypeOTP, email, "", map[string]string{
		"code":       code,
		"expires_in": ttl.String(),
	})
	if err := s.producer.Publish(ctx, n); err != nil {
		return fmt.Errorf("publish otp: %w", err)
	}
	return nil
}
