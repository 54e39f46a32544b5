package flexcore

import (
	"fmt"
	"time"
)

// =============================================================================
// DAY - Calendar date with no time component
// =============================================================================

// Day is a calendar date normalized to UTC midnight. The zero value means
// "no date" and is used for unbounded policy periods.
type Day struct {
	t time.Time
}

const dayLayout = "02.01.2006"

func NewDay(year int, month time.Month, day int) Day {
	return Day{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDay parses the export's DD.MM.YYYY date format.
func ParseDay(s string) (Day, error) {
	t, err := time.Parse(dayLayout, s)
	if err != nil {
		return Day{}, err
	}
	return Day{t: t}, nil
}

func Today() Day {
	now := time.Now()
	return NewDay(now.Year(), now.Month(), now.Day())
}

// Comparison
func (d Day) Before(other Day) bool        { return d.t.Before(other.t) }
func (d Day) After(other Day) bool         { return d.t.After(other.t) }
func (d Day) Equal(other Day) bool         { return d.t.Equal(other.t) }
func (d Day) BeforeOrEqual(other Day) bool { return !d.After(other) }
func (d Day) AfterOrEqual(other Day) bool  { return !d.Before(other) }

// Arithmetic and properties
func (d Day) AddDays(n int) Day       { return Day{t: d.t.AddDate(0, 0, n)} }
func (d Day) Weekday() time.Weekday   { return d.t.Weekday() }
func (d Day) IsZero() bool            { return d.t.IsZero() }
func (d Day) Time() time.Time         { return d.t }

func (d Day) IsWeekend() bool {
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

func (d Day) String() string {
	if d.IsZero() {
		return ""
	}
	return d.t.Format(dayLayout)
}

// Accrual weeks run Monday through Sunday.

// StartOfWeek returns the Monday on or before d.
func (d Day) StartOfWeek() Day {
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDays(-offset)
}

// EndOfWeek returns the Sunday on or after d.
func (d Day) EndOfWeek() Day {
	if d.Weekday() == time.Sunday {
		return d
	}
	return d.AddDays(7 - int(d.Weekday()))
}

// =============================================================================
// CLOCK TIME - Hour:minute on a date
// =============================================================================

type ClockTime struct {
	Hour   int
	Minute int
}

// ParseClock parses the export's HH:MM time format.
func ParseClock(s string) (ClockTime, error) {
	var h, m int
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
		return ClockTime{}, fmt.Errorf("invalid clock time %q: %w", s, err)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return ClockTime{}, fmt.Errorf("invalid clock time %q", s)
	}
	return ClockTime{Hour: h, Minute: m}, nil
}

func (c ClockTime) MinutesSinceMidnight() int { return c.Hour*60 + c.Minute }

// MinutesBetween returns the absolute span |end - start| in minutes.
func MinutesBetween(start, end ClockTime) int {
	diff := end.MinutesSinceMidnight() - start.MinutesSinceMidnight()
	if diff < 0 {
		return -diff
	}
	return diff
}
