package coupons

import (
	"context"
	"regexp"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"theaterbook/internal/timewindow"
	"theaterbook/pkg/cache"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type memRepo struct {
	mu   sync.Mutex
	rows map[string]*Coupon
}

func newMemRepo() *memRepo { return &memRepo{rows: map[string]*Coupon{}} }

func (m *memRepo) Create(_ context.Context, c *Coupon) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c.ID = uuid.New()
	m.rows[c.Code] = c
	return nil
}

func (m *memRepo) find(pred func(*Coupon) bool) (*Coupon, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.rows {
		if pred(c) {
			cp := *c
			return &cp, nil
		}
	}
	return nil, ErrCouponNotFound
}

func (m *memRepo) FindByID(_ context.Context, id uuid.UUID) (*Coupon, error) {
	return m.find(func(c *Coupon) bool { return c.ID == id })
}

func (m *memRepo) FindByCode(_ context.Context, code string) (*Coupon, error) {
	return m.find(func(c *Coupon) bool { return c.Code == code })
}

func (m *memRepo) ExistsByCode(ctx context.Context, code string) (bool, error) {
	_, err := m.FindByCode(ctx, code)
	return err == nil, nil
}

func (m *memRepo) List(_ context.Context, typ CouponType) ([]Coupon, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Coupon
	for _, c := range m.rows {
		if typ == "" || c.Type == typ {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (m *memRepo) Update(_ context.Context, c *Coupon) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[c.Code] = c
	return nil
}

func (m *memRepo) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for code, c := range m.rows {
		if c.ID == id {
			delete(m.rows, code)
			return nil
		}
	}
	return ErrCouponNotFound
}

func (m *memRepo) Mutate(_ context.Context, code string, fn func(c *Coupon) error) (*Coupon, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.rows[code]
	if !ok {
		return nil, ErrCouponNotFound
	}
	cp := *c
	cp.Users = append([]string(nil), c.Users...)
	cp.DevicesUsed = append([]string(nil), c.DevicesUsed...)
	if err := fn(&cp); err != nil {
		return nil, err
	}
	m.rows[code] = &cp
	return &cp, nil
}

func newTestService(repo Repository) *service {
	w := timewindow.New(timewindow.DefaultZone, time.Hour)
	s := NewService(repo, cache.NewNoop(), w).(*service)
	s.now = func() time.Time { return time.Date(2026, 5, 1, 10, 0, 0, 0, w.Location()) }
	return s
}

func seedCoupon(t *testing.T, s *service, limit int) *Coupon {
	t.Helper()
	c, err := s.Create(context.Background(), CreateCouponRequest{
		Code:           "party50",
		Type:           TypeCoupon,
		Description:    "Flat 50",
		DiscountAmount: 50,
		DiscountType:   "fixed",
		ValidFrom:      time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		ValidUntil:     time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC),
		IsActive:       true,
		UsageLimit:     &limit,
	})
	require.NoError(t, err)
	return c
}

func TestCreateRejectsDuplicateCode(t *testing.T) {
	s := newTestService(newMemRepo())
	c := seedCoupon(t, s, 20)
	assert.Equal(t, "PARTY50", c.Code)

	limit := 1
	_, err := s.Create(context.Background(), CreateCouponRequest{
		Code: "PARTY50", Type: TypeOffer, Description: "dup", DiscountAmount: 1, DiscountType: "fixed",
		ValidFrom: time.Now(), ValidUntil: time.Now().Add(time.Hour), UsageLimit: &limit,
	})
	assert.ErrorIs(t, err, ErrCouponExists)
}

func TestApplyDoesNotRecordUse(t *testing.T) {
	s := newTestService(newMemRepo())
	seedCoupon(t, s, 20)

	for i := 0; i < 2; i++ {
		res, err := s.Apply(context.Background(), Usage{Code: "party50", OrderValue: 1000, UserID: "u1", DeviceID: "d1"})
		require.NoError(t, err)
		assert.Equal(t, 50.0, res.DiscountAmount)
	}
}

func TestRedeemIsSingleUsePerUser(t *testing.T) {
	s := newTestService(newMemRepo())
	seedCoupon(t, s, 20)
	u := Usage{Code: "PARTY50", OrderValue: 1000, UserID: "u1", DeviceID: "d1"}

	_, err := s.Redeem(context.Background(), u)
	require.NoError(t, err)
	_, err = s.Redeem(context.Background(), u)
	assert.ErrorIs(t, err, ErrCouponAlreadyUsed)

	require.NoError(t, s.Release(context.Background(), u))
	_, err = s.Redeem(context.Background(), u)
	assert.NoError(t, err)
}

func TestConcurrentRedeemHonoursUsageLimit(t *testing.T) {
	s := newTestService(newMemRepo())
	seedCoupon(t, s, 3)

	var ok int32
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := s.Redeem(context.Background(), Usage{
				Code: "PARTY50", OrderValue: 1000,
				UserID: uuid.NewString(), DeviceID: uuid.NewString(),
			})
			if err == nil {
				atomic.AddInt32(&ok, 1)
			}
		}(i)
	}
	wg.Wait()
	assert.Equal(t, int32(3), ok)

	c, err := s.repo.FindByCode(context.Background(), "PARTY50")
	require.NoError(t, err)
	assert.Equal(t, 0, c.UsageLimit)
	assert.False(t, c.IsActive)
}

func TestMutateLocksRow(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{})
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "coupons" WHERE code = $1`) + `.*FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "code"}))
	mock.ExpectRollback()

	_, err = NewRepository(db).Mutate(context.Background(), "PARTY50", func(*Coupon) error { return nil })
	assert.ErrorIs(t, err, ErrCouponNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
