// Package economics turns rostered shifts and inventory counts into the hours,
// labor cost, stock deltas and revenue shown for an event. Everything here is
// pure: no I/O, no shared state, safe to call from any goroutine.
package economics

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"eventdesk/backend/internal/domain"
)

// ClockTime is a wall-clock time of day. The zero value is "not set".
type ClockTime struct {
	Hour   int
	Minute int
	Second int
	set    bool
}

func Clock(hour, minute int) ClockTime {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return ClockTime{}
	}
	return ClockTime{Hour: hour, Minute: minute, set: true}
}

// ParseClock reads "15:04" or "15:04:05". Anything else yields an unset time.
func ParseClock(s string) ClockTime {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"15:04", "15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return ClockTime{Hour: t.Hour(), Minute: t.Minute(), Second: t.Second(), set: true}
		}
	}
	return ClockTime{}
}

// ClockOf extracts the time of day of t.
func ClockOf(t time.Time) ClockTime {
	return ClockTime{Hour: t.Hour(), Minute: t.Minute(), Second: t.Second(), set: true}
}

func (c ClockTime) IsSet() bool {
	return c.set
}

func (c ClockTime) String() string {
	if !c.set {
		return ""
	}
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// On places c on date as a UTC wall-clock instant.
func (c ClockTime) On(date domain.Date) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), c.Hour, c.Minute, c.Second, 0, time.UTC)
}

// Interval is a shift placed on the calendar.
type Interval struct {
	Start           time.Time
	End             time.Time
	CrossesMidnight bool
}

// Span places start and end on date. An end earlier than the start is taken
// to be on the following day; equal times give an empty interval. ok is false
// when the date or either time is missing.
func Span(date domain.Date, start, end ClockTime) (Interval, bool) {
	if date.IsZero() || !start.IsSet() || !end.IsSet() {
		return Interval{}, false
	}
	iv := Interval{Start: start.On(date), End: end.On(date)}
	if iv.End.Before(iv.Start) {
		iv.End = iv.End.AddDate(0, 0, 1)
		iv.CrossesMidnight = true
	}
	return iv, true
}

// Hours is the length of the shift in decimal hours, rounded half-up to two
// places. Missing inputs give 0.
func Hours(date domain.Date, start, end ClockTime) decimal.Decimal {
	iv, ok := Span(date, start, end)
	if !ok {
		return decimal.Zero
	}
	return HoursBetween(iv.Start, iv.End)
}

// HoursBetween measures two stored instants with the same single-day rollover
// as Span. Zero instants, or an end more than a day before the start, give 0.
func HoursBetween(start, end time.Time) decimal.Decimal {
	if start.IsZero() || end.IsZero() {
		return decimal.Zero
	}
	if end.Before(start) {
		end = end.AddDate(0, 0, 1)
	}
	if end.Before(start) {
		return decimal.Zero
	}
	seconds := decimal.NewFromInt(int64(end.Sub(start) / time.Second))
	return seconds.Div(decimal.NewFromInt(3600)).Round(2)
}
