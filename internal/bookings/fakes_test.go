package bookings

import (
	"context"
	"sync"
	"time"

	"theaterbook/internal/coupons"
	"theaterbook/internal/payments"
	"theaterbook/internal/theaters"
	"theaterbook/internal/timewindow"

	"github.com/google/uuid"
)

var ist = time.FixedZone("IST", 5*60*60+30*60)

func at(y int, m time.Month, d, hh, mm int) time.Time {
	return time.Date(y, m, d, hh, mm, 0, 0, ist)
}

// memStore is an in-memory theater, allocation store and booking repository
// sharing one lock, so the tuple check in Commit is atomic.
type memStore struct {
	mu       sync.Mutex
	window   *timewindow.Window
	theater  *theaters.Theater
	bookings map[uuid.UUID]*Booking
	commits  int
}

func newMemStore(w *timewindow.Window) *memStore {
	th := &theaters.Theater{
		ID:   uuid.New(),
		Name: "Velvet Room",
		Slots: []theaters.Slot{
			{ID: uuid.New(), Position: 0, StartTime: "10:00 AM", EndTime: "1:00 PM"},
			{ID: uuid.New(), Position: 1, StartTime: "10:30 PM", EndTime: "1:30 AM"},
		},
	}
	for i := range th.Slots {
		th.Slots[i].TheaterID = th.ID
	}
	return &memStore{window: w, theater: th, bookings: map[uuid.UUID]*Booking{}}
}

func (m *memStore) slot(i int) uuid.UUID { return m.theater.Slots[i].ID }

func (m *memStore) copyTheater() *theaters.Theater {
	cp := *m.theater
	cp.Slots = make([]theaters.Slot, len(m.theater.Slots))
	for i, s := range m.theater.Slots {
		s.Dates = append([]theaters.SlotDate(nil), s.Dates...)
		cp.Slots[i] = s
	}
	cp.IndexSlots()
	return &cp
}

func (m *memStore) FindForDay(_ context.Context, id uuid.UUID, _ time.Time) (*theaters.Theater, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if id != m.theater.ID {
		return nil, theaters.ErrTheaterNotFound
	}
	return m.copyTheater(), nil
}

// markDate sets a slot date row directly, as a write outside the allocator would.
func (m *memStore) markDate(slotID uuid.UUID, day time.Time, status theaters.DateStatus) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.theater.Slots {
		s := &m.theater.Slots[i]
		if s.ID != slotID {
			continue
		}
		for j := range s.Dates {
			if m.window.SameDay(s.Dates[j].Date, day) {
				s.Dates[j].Status = status
				return
			}
		}
		s.Dates = append(s.Dates, theaters.SlotDate{SlotID: slotID, TheaterID: m.theater.ID, Date: m.window.CivilDay(day), Status: status})
	}
}

func (m *memStore) Commit(_ context.Context, b *Booking) error {
	m.mu.Lock()
	for _, existing := range m.bookings {
		if existing.TheaterID == b.TheaterID && existing.SlotID == b.SlotID && existing.Date.Equal(b.Date) {
			m.mu.Unlock()
			return ErrSlotAlreadyBooked
		}
	}
	b.ID = uuid.New()
	cp := *b
	m.bookings[b.ID] = &cp
	m.commits++
	m.mu.Unlock()

	m.markDate(b.SlotID, b.Date, theaters.DateBooked)
	return nil
}

func (m *memStore) booking(id uuid.UUID) Booking {
	m.mu.Lock()
	defer m.mu.Unlock()
	return *m.bookings[id]
}

// Repository methods used by the coordinator and reconciler.

func (m *memStore) UpdatePaymentStatus(_ context.Context, id uuid.UUID, status PaymentStatus, paymentID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok {
		return ErrBookingNotFound
	}
	b.PaymentStatus = status
	if paymentID != "" {
		b.PaymentID = paymentID
	}
	return nil
}

func (m *memStore) CompleteOrderPayment(_ context.Context, orderID string, userID uuid.UUID, paymentID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, b := range m.bookings {
		if b.OrderID == orderID && b.UserID == userID && b.PaymentStatus != PaymentCompleted {
			b.PaymentStatus = PaymentCompleted
			b.PaymentID = paymentID
			n++
		}
	}
	return n, nil
}

func (m *memStore) FindUnmarked(_ context.Context, limit int) ([]Booking, error) {
	th := m.copyTheater()
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Booking
	for _, b := range m.bookings {
		if !b.PaymentStatus.HoldsSlot() {
			continue
		}
		slot, ok := th.FindSlot(b.SlotID)
		if ok && slot.StatusOn(b.Date, m.window) != theaters.DateBooked {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (m *memStore) MarkSlotBooked(_ context.Context, b *Booking) error {
	m.markDate(b.SlotID, b.Date, theaters.DateBooked)
	return nil
}

func (m *memStore) FindByID(_ context.Context, id uuid.UUID) (*Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if b, ok := m.bookings[id]; ok {
		cp := *b
		return &cp, nil
	}
	return nil, ErrBookingNotFound
}
func (m *memStore) List(context.Context, ListQuery) ([]Booking, int64, error) {
	return nil, 0, nil
}
func (m *memStore) ListByUser(context.Context, uuid.UUID, ListQuery) ([]Booking, int64, error) {
	return nil, 0, nil
}
func (m *memStore) ListByTheater(context.Context, uuid.UUID) ([]Booking, error) { return nil, nil }
func (m *memStore) ListByBranch(context.Context, uuid.UUID, ListQuery) ([]Booking, int64, error) {
	return nil, 0, nil
}
func (m *memStore) FindByOrderIDs(context.Context, []string) ([]Booking, error) { return nil, nil }
func (m *memStore) MarkRead(context.Context, uuid.UUID) error                   { return nil }

type fakeCoupons struct {
	mu       sync.Mutex
	redeemed []coupons.Usage
	released []coupons.Usage
	err      error
}

func (f *fakeCoupons) Redeem(_ context.Context, u coupons.Usage) (*coupons.ApplyResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.redeemed = append(f.redeemed, u)
	c := &coupons.Coupon{Code: u.Code, DiscountType: coupons.DiscountFixed, DiscountAmount: 200}
	return &coupons.ApplyResult{Coupon: c, DiscountAmount: c.Discount(u.OrderValue)}, nil
}

func (f *fakeCoupons) Release(_ context.Context, u coupons.Usage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.released = append(f.released, u)
	return nil
}

type fakeGateway struct {
	last payments.OrderRequest
	err  error
}

func (g *fakeGateway) CreateOrder(_ context.Context, req payments.OrderRequest) (*payments.Order, error) {
	g.last = req
	if g.err != nil {
		return nil, g.err
	}
	return &payments.Order{ID: "order_1", Amount: req.Amount, Currency: req.Currency, Receipt: req.Receipt, Status: "created"}, nil
}

func (g *fakeGateway) FetchPayment(context.Context, string) (*payments.Payment, error) {
	return nil, payments.ErrPaymentNotFound
}

func (g *fakeGateway) ListPayments(context.Context, payments.ListOptions) ([]payments.Payment, error) {
	return nil, nil
}

type fakeHolds struct {
	mu      sync.Mutex
	holders map[string]string
}

func newFakeHolds() *fakeHolds { return &fakeHolds{holders: map[string]string{}} }

func holdKey(theaterID, slotID uuid.UUID, day time.Time) string {
	return theaterID.String() + slotID.String() + day.Format(timewindow.DayLayout)
}

func (h *fakeHolds) Hold(_ context.Context, theaterID, slotID uuid.UUID, day time.Time, userID string) (bool, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	k := holdKey(theaterID, slotID, day)
	if cur, ok := h.holders[k]; ok && cur != userID {
		return false, nil
	}
	h.holders[k] = userID
	return true, nil
}

func (h *fakeHolds) Holder(_ context.Context, theaterID, slotID uuid.UUID, day time.Time) (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.holders[holdKey(theaterID, slotID, day)], nil
}

func (h *fakeHolds) Release(_ context.Context, theaterID, slotID uuid.UUID, day time.Time, userID string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	k := holdKey(theaterID, slotID, day)
	if h.holders[k] == userID {
		delete(h.holders, k)
	}
	return nil
}

type fakeInvalidator struct{ calls []uuid.UUID }

func (f *fakeInvalidator) InvalidateAvailability(_ context.Context, id uuid.UUID) {
	f.calls = append(f.calls, id)
}

type fakeNotifier struct{ sent []*Booking }

func (f *fakeNotifier) BookingConfirmed(_ context.Context, b *Booking) error {
	f.sent = append(f.sent, b)
	return nil
}
