package prediction

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestIncludesWeekendPolicy(t *testing.T) {
	monday := date(2024, time.January, 1)
	saturday := date(2024, time.January, 6)
	sunday := date(2024, time.January, 7)

	tests := []struct {
		name  string
		rules Rules
		day   time.Time
		want  bool
	}{
		{"weekday always included", Rules{}, monday, true},
		{"saturday excluded when weekends not countable", Rules{SaturdayIncluded: true}, saturday, false},
		{"sunday excluded when weekends not countable", Rules{SundayIncluded: true}, sunday, false},
		{"saturday included when flagged", Rules{WeekendsCountable: true, SaturdayIncluded: true}, saturday, true},
		{"saturday excluded when not flagged", Rules{WeekendsCountable: true, SundayIncluded: true}, saturday, false},
		{"sunday included when flagged", Rules{WeekendsCountable: true, SundayIncluded: true}, sunday, true},
		{"sunday excluded when not flagged", Rules{WeekendsCountable: true, SaturdayIncluded: true}, sunday, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, tt.rules.Includes(tt.day))
		})
	}
}

func TestCountInclusiveSkipsWeekends(t *testing.T) {
	rules := Rules{} // weekends never countable
	// Mon 2024-01-01 through Sun 2024-01-07: five weekdays.
	require.Equal(t, 5, rules.CountInclusive(date(2024, time.January, 1), date(2024, time.January, 7)))
}

func TestCountInclusiveOrderInvariance(t *testing.T) {
	rules := Rules{WeekendsCountable: true, SaturdayIncluded: true}
	a := date(2024, time.January, 3)
	b := date(2024, time.February, 20)
	require.Equal(t, rules.CountInclusive(a, b), rules.CountInclusive(b, a))
}

func TestCountInclusiveFloorsAtOne(t *testing.T) {
	rules := Rules{}
	// A weekend-only range has zero truly included days but still reports 1.
	require.Equal(t, 1, rules.CountInclusive(date(2024, time.January, 6), date(2024, time.January, 7)))
	// A single included day reports exactly 1.
	require.Equal(t, 1, rules.CountInclusive(date(2024, time.January, 1), date(2024, time.January, 1)))
}

func TestCountInclusiveNormalizesToMidnight(t *testing.T) {
	rules := Rules{}
	start := time.Date(2024, time.January, 1, 23, 59, 0, 0, time.UTC)
	end := time.Date(2024, time.January, 2, 0, 1, 0, 0, time.UTC)
	require.Equal(t, 2, rules.CountInclusive(start, end))
}

func TestAdvanceZeroDaysReturnsSameDay(t *testing.T) {
	rules := Rules{}
	from := time.Date(2024, time.March, 5, 14, 30, 0, 0, time.UTC)
	require.Equal(t, date(2024, time.March, 5), rules.Advance(from, 0))
	require.Equal(t, date(2024, time.March, 5), rules.Advance(from, -3))
}

func TestAdvanceSkipsExcludedDays(t *testing.T) {
	rules := Rules{}
	// Friday 2024-01-05 + 1 included day lands on Monday.
	require.Equal(t, date(2024, time.January, 8), rules.Advance(date(2024, time.January, 5), 1))
	// Friday + 6 included days lands on the Monday after next.
	require.Equal(t, date(2024, time.January, 15), rules.Advance(date(2024, time.January, 5), 6))
}

func TestAdvancePartialWeekend(t *testing.T) {
	rules := Rules{WeekendsCountable: true, SaturdayIncluded: true}
	// Friday + 2 included days: Saturday counts, Sunday does not.
	require.Equal(t, date(2024, time.January, 8), rules.Advance(date(2024, time.January, 5), 2))
}

func TestAdvanceClampsRunawayInput(t *testing.T) {
	rules := Rules{WeekendsCountable: true, SaturdayIncluded: true, SundayIncluded: true}
	got := rules.Advance(date(2024, time.January, 1), 1_000_000)
	require.Equal(t, date(2024, time.January, 1).AddDate(0, 0, maxProjectionDays), got)
}
