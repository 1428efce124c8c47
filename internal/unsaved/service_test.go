package unsaved

import (
	"context"
	"regexp"
	"strings"
	"testing"
	"time"

	"theaterbook/internal/timewindow"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type memRepo struct {
	rows []*Booking
}

func (m *memRepo) Create(_ context.Context, b *Booking) error {
	b.ID = uuid.New()
	m.rows = append(m.rows, b)
	return nil
}

func (m *memRepo) FindByID(_ context.Context, id uuid.UUID) (*Booking, error) {
	for _, b := range m.rows {
		if b.ID == id {
			return b, nil
		}
	}
	return nil, ErrNotFound
}

func (m *memRepo) List(context.Context) ([]Booking, error) { return nil, nil }

func (m *memRepo) DueForReminder(context.Context, time.Time, int) ([]Booking, error) {
	return nil, nil
}

func (m *memRepo) MarkReminded(context.Context, uuid.UUID, time.Time) error { return nil }

func TestSaveNormalizesDateAndDefaultsStatus(t *testing.T) {
	repo := &memRepo{}
	svc := NewService(repo, timewindow.New("Asia/Kolkata", time.Hour))

	b, err := svc.Save(context.Background(), uuid.NewString(), SaveRequest{
		TheaterID:   uuid.NewString(),
		SlotID:      uuid.NewString(),
		Date:        "2025-03-12",
		Email:       "asha@example.com",
		TotalAmount: 2500,
	})
	require.NoError(t, err)
	assert.Equal(t, StatusPending, b.PaymentStatus)
	assert.True(t, strings.HasPrefix(b.BookingID, "BK-"))
	assert.Equal(t, "2025-03-12", b.Date.Format(timewindow.DayLayout))

	got, err := svc.Get(context.Background(), b.ID.String())
	require.NoError(t, err)
	assert.Equal(t, b.BookingID, got.BookingID)
}

func TestSaveRejectsBadInput(t *testing.T) {
	svc := NewService(&memRepo{}, timewindow.New("", 0))
	ctx := context.Background()

	_, err := svc.Save(ctx, "", SaveRequest{TheaterID: uuid.NewString(), SlotID: uuid.NewString(), Date: "2025-03-12"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Save(ctx, uuid.NewString(), SaveRequest{TheaterID: uuid.NewString(), SlotID: uuid.NewString(), Date: "12/03/2025"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Save(ctx, uuid.NewString(), SaveRequest{
		TheaterID: uuid.NewString(), SlotID: uuid.NewString(), Date: "2025-03-12", PaymentStatus: "completed",
	})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Get(ctx, "nope")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestDueForReminderQuery(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()
	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)

	cutoff := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "unsaved_bookings" WHERE payment_status = $1 AND reminder_sent_at IS NULL AND email <> '' AND created_at < $2 ORDER BY created_at ASC LIMIT $3`)).
		WithArgs(StatusPending, cutoff, 10).
		WillReturnRows(sqlmock.NewRows([]string{"id", "booking_id", "email"}).AddRow(uuid.NewString(), "BK-1-ABCDEF", "a@b.c"))

	list, err := NewRepository(db).DueForReminder(context.Background(), cutoff, 10)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "BK-1-ABCDEF", list[0].BookingID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
