// Package timewindow decides whether a slot on a given civil date can still
// be booked. All calendar math happens in one fixed business zone so results
// never depend on the host's local zone.
package timewindow

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	ErrInvalidSlotDefinition = errors.New("invalid slot time definition")
	ErrInvalidDate           = errors.New("invalid date")
)

const (
	DefaultZone         = "Asia/Kolkata"
	DefaultMinRemaining = time.Hour

	// DayLayout is the canonical civil-day representation used in keys and APIs.
	DayLayout = "2006-01-02"
)

// istFallback is used when the host has no tzdata for the configured zone.
var istFallback = time.FixedZone("IST", 5*60*60+30*60)

// Clock is a wall-clock time of day.
type Clock struct {
	Hour   int
	Minute int
}

func (c Clock) minutes() int { return c.Hour*60 + c.Minute }

func (c Clock) String() string {
	h := c.Hour % 12
	if h == 0 {
		h = 12
	}
	suffix := "AM"
	if c.Hour >= 12 {
		suffix = "PM"
	}
	return fmt.Sprintf("%d:%02d %s", h, c.Minute, suffix)
}

// Window holds the business zone and the minimum time that must remain in a
// slot that has already started for it to stay bookable.
type Window struct {
	loc          *time.Location
	minRemaining time.Duration
}

// New builds a Window for the named zone. An unknown zone falls back to a
// fixed UTC+05:30 offset. A non-positive minRemaining means DefaultMinRemaining.
func New(zone string, minRemaining time.Duration) *Window {
	if zone == "" {
		zone = DefaultZone
	}
	loc, err := time.LoadLocation(zone)
	if err != nil {
		loc = istFallback
	}
	if minRemaining <= 0 {
		minRemaining = DefaultMinRemaining
	}
	return &Window{loc: loc, minRemaining: minRemaining}
}

// NewWithLocation is used where the caller already holds a *time.Location.
func NewWithLocation(loc *time.Location, minRemaining time.Duration) *Window {
	if loc == nil {
		loc = istFallback
	}
	if minRemaining <= 0 {
		minRemaining = DefaultMinRemaining
	}
	return &Window{loc: loc, minRemaining: minRemaining}
}

func (w *Window) Location() *time.Location { return w.loc }

func (w *Window) MinRemaining() time.Duration { return w.minRemaining }

// ParseClock parses "H:MM AM" style times. The marker is case-insensitive and
// the space before it is optional.
func ParseClock(s string) (Clock, error) {
	raw := strings.ToUpper(strings.TrimSpace(s))
	var marker string
	switch {
	case strings.HasSuffix(raw, "AM"):
		marker = "AM"
	case strings.HasSuffix(raw, "PM"):
		marker = "PM"
	default:
		return Clock{}, fmt.Errorf("%w: %q missing AM/PM", ErrInvalidSlotDefinition, s)
	}
	body := strings.TrimSpace(strings.TrimSuffix(raw, marker))

	hh, mm, ok := strings.Cut(body, ":")
	if !ok || len(mm) != 2 || hh == "" || len(hh) > 2 {
		return Clock{}, fmt.Errorf("%w: %q", ErrInvalidSlotDefinition, s)
	}
	hour, err := strconv.Atoi(hh)
	if err != nil || hour < 1 || hour > 12 {
		return Clock{}, fmt.Errorf("%w: %q hour out of range", ErrInvalidSlotDefinition, s)
	}
	minute, err := strconv.Atoi(mm)
	if err != nil || minute < 0 || minute > 59 {
		return Clock{}, fmt.Errorf("%w: %q minute out of range", ErrInvalidSlotDefinition, s)
	}

	hour %= 12
	if marker == "PM" {
		hour += 12
	}
	return Clock{Hour: hour, Minute: minute}, nil
}

// ParseDate accepts YYYY-MM-DD (read as a civil day in the business zone) or
// an RFC3339 instant, and returns the civil day containing it.
func (w *Window) ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: empty", ErrInvalidDate)
	}
	if t, err := time.ParseInLocation(DayLayout, s, w.loc); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return w.CivilDay(t), nil
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
}

// CivilDay returns midnight, in the business zone, of the day containing t.
func (w *Window) CivilDay(t time.Time) time.Time {
	l := t.In(w.loc)
	return time.Date(l.Year(), l.Month(), l.Day(), 0, 0, 0, 0, w.loc)
}

// SameDay reports whether a and b fall on the same civil day.
func (w *Window) SameDay(a, b time.Time) bool {
	return w.CivilDay(a).Equal(w.CivilDay(b))
}

// DayKey formats the civil day of t as YYYY-MM-DD.
func (w *Window) DayKey(t time.Time) string {
	return w.CivilDay(t).Format(DayLayout)
}

// Bounds resolves a slot's start and end on day. An end that is not after
// the start rolls to the following day.
func (w *Window) Bounds(start, end string, day time.Time) (time.Time, time.Time, error) {
	s, err := ParseClock(start)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	e, err := ParseClock(end)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	d := w.CivilDay(day)
	slotStart := time.Date(d.Year(), d.Month(), d.Day(), s.Hour, s.Minute, 0, 0, w.loc)
	slotEnd := time.Date(d.Year(), d.Month(), d.Day(), e.Hour, e.Minute, 0, 0, w.loc)
	if e.minutes() <= s.minutes() {
		slotEnd = slotEnd.AddDate(0, 0, 1)
	}
	return slotStart, slotEnd, nil
}

// IsSlotBookable applies the booking window. Future days are always open and
// past days are always closed. On the current day the slot must not have ended,
// and once started at least MinRemaining must be left before its end.
func (w *Window) IsSlotBookable(start, end string, date, now time.Time) (bool, error) {
	slotStart, slotEnd, err := w.Bounds(start, end, date)
	if err != nil {
		return false, err
	}

	target := w.CivilDay(date)
	today := w.CivilDay(now)
	switch {
	case target.After(today):
		return true, nil
	case target.Before(today):
		return false, nil
	}

	if !now.Before(slotEnd) {
		return false, nil
	}
	if now.Before(slotStart) {
		return true, nil
	}
	return slotEnd.Sub(now) >= w.minRemaining, nil
}

// ValidateSlot checks that both ends of a slot parse and differ. Equal ends
// are rejected rather than read as a 24 hour slot.
func ValidateSlot(start, end string) error {
	s, err := ParseClock(start)
	if err != nil {
		return err
	}
	e, err := ParseClock(end)
	if err != nil {
		return err
	}
	if s.minutes() == e.minutes() {
		return fmt.Errorf("%w: start and end are both %q", ErrInvalidSlotDefinition, start)
	}
	return nil
}
