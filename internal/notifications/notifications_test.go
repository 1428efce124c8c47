package notifications

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"theaterbook/internal/bookings"
	"theaterbook/internal/theaters"
	"theaterbook/internal/timewindow"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSender struct {
	mu    sync.Mutex
	fails int
	sent  []*Notification
	calls int
}

func (r *recordingSender) Send(_ context.Context, n *Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.fails > 0 {
		r.fails--
		return errors.New("smtp 451")
	}
	r.sent = append(r.sent, n)
	return nil
}

type theaterStub struct{ t *theaters.Theater }

func (s theaterStub) FindByID(_ context.Context, id uuid.UUID) (*theaters.Theater, error) {
	if id != s.t.ID {
		return nil, theaters.ErrTheaterNotFound
	}
	return s.t, nil
}

func TestDeliverRetriesWithBackoff(t *testing.T) {
	s := &recordingSender{fails: 2}
	n := New(TypeOTP, "a@b.c", "", map[string]string{"code": "123456", "expires_in": "5m0s"})

	err := Deliver(context.Background(), s, n, RetryPolicy{MaxRetries: 3, Backoff: time.Millisecond})
	require.NoError(t, err)
	assert.Equal(t, 3, s.calls)
	assert.Len(t, s.sent, 1)

	s = &recordingSender{fails: 10}
	err = Deliver(context.Background(), s, n, RetryPolicy{MaxRetries: 2, Backoff: time.Millisecond})
	assert.Error(t, err)
	assert.Equal(t, 3, s.calls)
}

func TestDeliverStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := &recordingSender{fails: 1}
	err := Deliver(ctx, s, New(TypeOTP, "a@b.c", "", nil), RetryPolicy{MaxRetries: 3, Backoff: time.Hour})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRenderBookingConfirmed(t *testing.T) {
	n := New(TypeBookingConfirmed, "asha@example.com", "Asha <3", map[string]string{
		"booking_id": "BK-1-ABCDEF", "theater": "Velvet's Room", "date": "2025-03-12",
		"slot": "10:00 AM - 1:00 PM", "payment_amount": "1000.00", "total_amount": "3000.00",
	})
	subject, body, err := Render(n)
	require.NoError(t, err)
	assert.Equal(t, "Your booking BK-1-ABCDEF is confirmed", subject)
	assert.Contains(t, body, "BK-1-ABCDEF")
	assert.Contains(t, body, "10:00 AM - 1:00 PM")
	assert.Contains(t, body, "Asha &lt;3")

	_, _, err = Render(&Notification{Type: "nope"})
	assert.Error(t, err)
}

func TestDecodeRejectsUnknownType(t *testing.T) {
	body, _ := New(TypeOTP, "a@b.c", "", nil).ToJSON()
	n, err := Decode(body)
	require.NoError(t, err)
	assert.Equal(t, TypeOTP, n.Type)

	_, err = Decode([]byte(`{"type":"spam","recipient_email":"a@b.c"}`))
	assert.Error(t, err)
	_, err = Decode([]byte(`{"type":"otp"}`))
	assert.Error(t, err)
}

func TestBookingConfirmedPublishesThroughKafka(t *testing.T) {
	cfg := sarama.NewConfig()
	cfg.Producer.Return.Successes = true
	mp := mocks.NewSyncProducer(t, cfg)
	mp.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		n, err := Decode(val)
		if err != nil {
			return err
		}
		if n.Data["theater"] != "Velvet Room" || n.Data["slot"] != "10:00 AM - 1:00 PM" {
			return errors.New("unexpected data: " + strings.Join([]string{n.Data["theater"], n.Data["slot"]}, "|"))
		}
		return nil
	})

	th := &theaters.Theater{ID: uuid.New(), Name: "Velvet Room", Slots: []theaters.Slot{{ID: uuid.New(), StartTime: "10:00 AM", EndTime: "1:00 PM"}}}
	w := timewindow.New("Asia/Kolkata", time.Hour)
	svc := NewService(newKafkaProducer(mp, "notifications"), theaterStub{th}, w)

	b := &bookings.Booking{
		BookingID: "BK-1-ABCDEF", Email: "asha@example.com", FullName: "Asha",
		TheaterID: th.ID, SlotID: th.Slots[0].ID, Date: w.CivilDay(time.Now()),
	}
	require.NoError(t, svc.BookingConfirmed(context.Background(), b))
	require.NoError(t, mp.Close())
}

func TestBookingWithoutEmailIsSkipped(t *testing.T) {
	s := &recordingSender{}
	svc := NewService(NewDirectProducer(s), nil, timewindow.New("", 0))
	require.NoError(t, svc.BookingConfirmed(context.Background(), &bookings.Booking{BookingID: "BK-1"}))
	assert.Empty(t, s.sent)

	require.NoError(t, svc.SendOTP(context.Background(), "a@b.c", "654321", 5*time.Minute))
	require.Len(t, s.sent, 1)
	assert.Equal(t, "654321", s.sent[0].Data["code"])
}
