package split

// =============================================================================
// INTERVAL - A date range, the unit of pro-ration
// =============================================================================

// Interval is a date range [Start, End]. The day count of the interval
// is End - Start, matching how utility billing periods are quoted: a
// bill from Jan 1 to Jan 31 covers 30 days.
type Interval struct {
	Start Date
	End   Date
}

// NewInterval constructs an interval, rejecting ranges with no days.
func NewInterval(start, end Date) (Interval, error) {
	iv := Interval{Start: start, End: end}
	if err := iv.Validate(); err != nil {
		return Interval{}, err
	}
	return iv, nil
}

// Validate returns ErrInvalidInterval unless End is after Start.
func (iv Interval) Validate() error {
	if !iv.End.After(iv.Start) {
		return &InvalidIntervalError{Start: iv.Start, End: iv.End}
	}
	return nil
}

// Days returns the day count covered by the interval.
func (iv Interval) Days() int {
	return DaysBetween(iv.Start, iv.End)
}

// Contains reports whether the date falls within [Start, End].
func (iv Interval) Contains(d Date) bool {
	return d.AfterOrEqual(iv.Start) && d.BeforeOrEqual(iv.End)
}

// Intersect returns the overlapping range of two intervals. The result
// is only meaningful when OverlapDays > 0; callers should check that
// first.
func (iv Interval) Intersect(other Interval) Interval {
	return Interval{
		Start: MaxDate(iv.Start, other.Start),
		End:   MinDate(iv.End, other.End),
	}
}

func (iv Interval) String() string {
	return iv.Start.String() + " -> " + iv.End.String()
}

// OverlapDays returns the number of days two intervals share.
//
// The result is clamped at zero: when the intervals do not overlap,
// naive date subtraction goes negative (an occupant who moved in after
// the bill ended, or out before it started), and a negative day count
// must never leak into a share calculation.
func OverlapDays(a, b Interval) int {
	days := a.Intersect(b).Days()
	if days < 0 {
		return 0
	}
	return days
}
