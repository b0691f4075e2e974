package prediction

import "time"

// Rules describes which calendar days count toward an agreement's
// day-accounting. When WeekendsCountable is false both weekend flags are
// ignored and Saturday/Sunday never count.
type Rules struct {
	WeekendsCountable bool
	SaturdayIncluded  bool
	SundayIncluded    bool
}

// maxProjectionDays caps the forward walk at roughly 100 years so malformed
// inputs can never produce a runaway loop.
const maxProjectionDays = 36500

// Includes reports whether the given calendar day counts under the rules.
func (r Rules) Includes(d time.Time) bool {
	switch d.Weekday() {
	case time.Saturday:
		return r.WeekendsCountable && r.SaturdayIncluded
	case time.Sunday:
		return r.WeekendsCountable && r.SundayIncluded
	default:
		return true
	}
}

// CountInclusive counts the included days in [start, end], both endpoints
// normalized to midnight and swapped if inverted. The result is floored at 1
// so downstream rate divisions are always safe; callers displaying it as
// "days passed" must accept that it can overstate by one when the true
// included count is zero.
func (r Rules) CountInclusive(start, end time.Time) int {
	s, e := Midnight(start), Midnight(end)
	if e.Before(s) {
		s, e = e, s
	}
	count := 0
	for d := s; !d.After(e); d = d.AddDate(0, 0, 1) {
		if r.Includes(d) {
			count++
		}
	}
	if count < 1 {
		count = 1
	}
	return count
}

// Advance walks forward from the given day one calendar day at a time until
// needDays included days have been consumed, and returns the day reached.
// needDays is clamped to [0, maxProjectionDays]; zero returns the starting
// day itself. The walk is kept as an explicit simulation because partial
// weekend rules make the inclusion pattern irregular.
func (r Rules) Advance(from time.Time, needDays int) time.Time {
	if needDays < 0 {
		needDays = 0
	}
	if needDays > maxProjectionDays {
		needDays = maxProjectionDays
	}
	d := Midnight(from)
	for counted := 0; counted < needDays; {
		d = d.AddDate(0, 0, 1)
		if r.Includes(d) {
			counted++
		}
	}
	return d
}

// Midnight truncates a time to the start of its calendar day.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
