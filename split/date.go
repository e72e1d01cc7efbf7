/*
Package split provides the core bill-splitting engine.

PURPOSE:
  This package contains the domain-agnostic types and algorithms for
  pro-rating a charge over a date range across a set of occupants. It
  knows nothing about utility bills, tenants, or properties - only about
  dates, intervals, money, and shares.

KEY CONCEPTS IN THIS FILE (date.go):
  - Date: A calendar day, normalized to midnight UTC
  - DaysBetween: The day count between two dates (end - start)

DESIGN PRINCIPLES:
  1. Day granularity: Utility bills cover whole days; no hours or minutes
  2. Precision: Money uses decimal.Decimal, never float64
  3. Purity: The settlement engine has no side effects and no clock -
     "today" is always passed in by the caller

SEE ALSO:
  - interval.go: Date ranges and overlap calculation
  - money.go: Decimal helpers and currency rounding
  - settle.go: The settlement engine
*/
package split

import (
	"fmt"
	"time"
)

// =============================================================================
// DATE - Calendar day, normalized to midnight UTC
// =============================================================================

// DateLayout is the canonical wire format for dates.
const DateLayout = "2006-01-02"

type Date struct {
	t time.Time
}

// NewDate constructs a Date for the given calendar day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a date in YYYY-MM-DD form.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q (use YYYY-MM-DD): %w", s, err)
	}
	return NewDate(t.Year(), t.Month(), t.Day()), nil
}

// Today returns the current calendar day.
func Today() Date {
	now := time.Now().UTC()
	return NewDate(now.Year(), now.Month(), now.Day())
}

// FromTime truncates a time.Time to its calendar day.
func FromTime(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// Comparison
func (d Date) Before(other Date) bool        { return d.t.Before(other.t) }
func (d Date) After(other Date) bool         { return d.t.After(other.t) }
func (d Date) Equal(other Date) bool         { return d.t.Equal(other.t) }
func (d Date) BeforeOrEqual(other Date) bool { return !d.t.After(other.t) }
func (d Date) AfterOrEqual(other Date) bool  { return !d.t.Before(other.t) }

// Arithmetic
func (d Date) AddDays(n int) Date { return Date{t: d.t.AddDate(0, 0, n)} }

// Properties
func (d Date) Year() int         { return d.t.Year() }
func (d Date) Month() time.Month { return d.t.Month() }
func (d Date) Day() int          { return d.t.Day() }
func (d Date) IsZero() bool      { return d.t.IsZero() }
func (d Date) Time() time.Time   { return d.t }

func (d Date) String() string { return d.t.Format(DateLayout) }

// MinDate returns the earlier of two dates.
func MinDate(a, b Date) Date {
	if a.Before(b) {
		return a
	}
	return b
}

// MaxDate returns the later of two dates.
func MaxDate(a, b Date) Date {
	if a.After(b) {
		return a
	}
	return b
}

// DaysBetween returns the day count from one date to another (to - from).
// The result is negative when to precedes from.
func DaysBetween(from, to Date) int {
	return int(to.t.Sub(from.t).Hours() / 24)
}
