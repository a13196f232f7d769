// Package date provides a calendar date without time-of-day or time zone.
package date

import (
	"fmt"
	"time"
)

// Layout is the only accepted textual form, e.g. "2025-06-01".
const Layout = "2006-01-02"

const day = 24 * time.Hour

// Date is a calendar day. The zero value is not a valid date; use New or Parse.
type Date struct {
	t time.Time // always UTC midnight
}

// New builds a Date and rejects combinations that do not exist on the calendar
// (Feb 30, month 13, ...). It never normalises.
func New(year int, month time.Month, dayOfMonth int) (Date, error) {
	if !valid(year, month, dayOfMonth) {
		return Date{}, fmt.Errorf("%w: %04d-%02d-%02d", ErrInvalidDate, year, int(month), dayOfMonth)
	}
	return Date{t: time.Date(year, month, dayOfMonth, 0, 0, 0, 0, time.UTC)}, nil
}

// Parse reads a YYYY-MM-DD string.
func Parse(s string) (Date, error) {
	t, err := time.Parse(Layout, s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return Date{t: t}, nil
}

// MustParse is Parse for constants and tests; it panics on bad input.
func MustParse(s string) Date {
	d, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return d
}

// FromTime takes the calendar day of t in t's own location.
func FromTime(t time.Time) Date {
	y, m, d := t.Date()
	return Date{t: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// Today returns the current calendar day according to now.
func Today(now func() time.Time) Date {
	if now == nil {
		now = time.Now
	}
	return FromTime(now())
}

func (d Date) Year() int         { return d.t.Year() }
func (d Date) Month() time.Month { return d.t.Month() }
func (d Date) Day() int          { return d.t.Day() }

// Time returns the date as UTC midnight.
func (d Date) Time() time.Time { return d.t }

// IsZero reports whether d was never set.
func (d Date) IsZero() bool { return d.t.IsZero() }

// AddDays moves d by n calendar days (n may be negative).
func (d Date) AddDays(n int) Date {
	return Date{t: d.t.AddDate(0, 0, n)}
}

// Sub returns the number of days from o to d (d - o).
func (d Date) Sub(o Date) int {
	return int(d.t.Sub(o.t) / day)
}

// YearsBefore subtracts n calendar years. When the month/day pair does not
// exist in the resulting year (Feb 29 into a common year) the day becomes 28.
func (d Date) YearsBefore(n int) Date {
	y, m, dd := d.Year()-n, d.Month(), d.Day()
	if !valid(y, m, dd) {
		dd = 28
	}
	return Date{t: time.Date(y, m, dd, 0, 0, 0, 0, time.UTC)}
}

// Compare returns -1, 0 or +1.
func (d Date) Compare(o Date) int { return d.t.Compare(o.t) }

func (d Date) Before(o Date) bool { return d.t.Before(o.t) }
func (d Date) After(o Date) bool  { return d.t.After(o.t) }
func (d Date) Equal(o Date) bool  { return d.t.Equal(o.t) }

// Max returns the later of a and b.
func Max(a, b Date) Date {
	if a.After(b) {
		return a
	}
	return b
}

// Min returns the earlier of a and b.
func Min(a, b Date) Date {
	if a.Before(b) {
		return a
	}
	return b
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.t.Format(Layout)
}

// MarshalText encodes the date as YYYY-MM-DD.
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText decodes YYYY-MM-DD.
func (d *Date) UnmarshalText(b []byte) error {
	parsed, err := Parse(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// IsLeap reports whether year has a Feb 29.
func IsLeap(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

func daysIn(year int, month time.Month) int {
	switch month {
	case time.February:
		if IsLeap(year) {
			return 29
		}
		return 28
	case time.April, time.June, time.September, time.November:
		return 30
	default:
		return 31
	}
}

func valid(year int, month time.Month, dayOfMonth int) bool {
	if month < time.January || month > time.December {
		return false
	}
	return dayOfMonth >= 1 && dayOfMonth <= daysIn(year, month)
}
