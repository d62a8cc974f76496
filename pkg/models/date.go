package models

import (
	"fmt"
	"strings"
	"time"
)

const (
	dateLayoutISO = "2006-01-02"
	dateLayoutUS  = "01-02-2006"
)

// ParseDate parses a calendar date in either of the two encodings found in
// stored records: year-first (2024-01-15) or month-first (01-15-2024). The
// first segment disambiguates: four digits means year-first. The result is
// a date-only time.Time in the local location.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	layout := dateLayoutUS
	if i := strings.IndexByte(s, '-'); i == 4 {
		layout = dateLayoutISO
	}
	t, err := time.ParseInLocation(layout, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("unrecognized date %q: %w", s, err)
	}
	return t, nil
}

// FormatDate renders the canonical stored encoding (year-first).
func FormatDate(t time.Time) string {
	return t.Format(dateLayoutISO)
}

// DateOf truncates a moment to its calendar date in the local location.
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// DaysBetween returns the whole calendar days from a to b (negative when
// b precedes a). Dates are compared in UTC so DST transitions cannot skew
// the count.
func DaysBetween(a, b time.Time) int {
	au := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	bu := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(bu.Sub(au).Hours() / 24)
}

// ClockTime is a wall-clock hour and minute within a day.
type ClockTime struct {
	Hour   int
	Minute int
}

// ParseClockTime parses a scheduled time in the stored "HH:MM" form.
func ParseClockTime(s string) (ClockTime, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(s))
	if err != nil {
		return ClockTime{}, fmt.Errorf("unrecognized time %q: %w", s, err)
	}
	return ClockTime{Hour: t.Hour(), Minute: t.Minute()}, nil
}

// On combines the clock time with a calendar day into a moment.
func (c ClockTime) On(day time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), c.Hour, c.Minute, 0, 0, day.Location())
}

// String renders the stored "HH:MM" form.
func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// Display renders a 12-hour form for alerts and menus.
func (c ClockTime) Display() string {
	return c.On(time.Now()).Format("3:04 PM")
}
