package prediction

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/samwelmagaiwa/mobile-app-sub001/internal/models"
)

// steadySeries builds one payment of the given amount on each of the first n
// included days from start.
func steadySeries(start time.Time, rules Rules, n int, amount float64) []models.PaymentDay {
	series := make([]models.PaymentDay, 0, n)
	for d := Midnight(start); len(series) < n; d = d.AddDate(0, 0, 1) {
		if rules.Includes(d) {
			series = append(series, models.PaymentDay{Date: d, Amount: amount})
		}
	}
	return series
}

func TestFitCumulativePerfectTrend(t *testing.T) {
	rules := Rules{}
	start := date(2024, time.January, 1)
	series := steadySeries(start, rules, 59, 50000)
	asOf := series[len(series)-1].Date // 59th included day

	fit := FitCumulative(start, series, 3_000_000, rules, asOf)

	require.True(t, fit.Valid)
	require.InDelta(t, 50000, fit.Slope, 1e-6)
	require.InDelta(t, 0, fit.Intercept, 1e-4)
	require.InDelta(t, 1.0, fit.R2, 1e-9)
	// Trend reaches 3,000,000 on included day 60; one more day is needed.
	require.Equal(t, 1, fit.NeedIncludedDays)
	require.Equal(t, 0, fit.SigmaDays)
}

func TestFitCumulativeInsufficientPoints(t *testing.T) {
	rules := Rules{}
	start := date(2024, time.January, 1)

	require.False(t, FitCumulative(start, nil, 1000, rules, start).Valid)

	one := []models.PaymentDay{{Date: start, Amount: 500}}
	require.False(t, FitCumulative(start, one, 1000, rules, start).Valid)
}

func TestFitCumulativeCollinearX(t *testing.T) {
	rules := Rules{} // weekends excluded
	start := date(2024, time.January, 1)
	// Saturday and Sunday map to the same included-day count, so x is
	// constant across the series and the normal equations degenerate.
	series := []models.PaymentDay{
		{Date: date(2024, time.January, 6), Amount: 1000},
		{Date: date(2024, time.January, 7), Amount: 2000},
	}

	fit := FitCumulative(start, series, 100000, rules, date(2024, time.January, 10))
	require.False(t, fit.Valid)
}

func TestFitCumulativeFlatTrendInvalidButDiagnosed(t *testing.T) {
	rules := Rules{}
	start := date(2024, time.January, 1)
	series := []models.PaymentDay{
		{Date: date(2024, time.January, 1), Amount: 0},
		{Date: date(2024, time.January, 2), Amount: 0},
		{Date: date(2024, time.January, 3), Amount: 0},
	}

	fit := FitCumulative(start, series, 100000, rules, date(2024, time.January, 3))
	require.False(t, fit.Valid)
	require.Equal(t, 0.0, fit.Slope)
	require.Equal(t, 0.0, fit.R2) // SStot is zero, defined as 0
}

func TestFitCumulativePastTargetNeedsNoDays(t *testing.T) {
	rules := Rules{}
	start := date(2024, time.January, 1)
	series := steadySeries(start, rules, 10, 50000)
	asOf := series[len(series)-1].Date

	// Target already crossed: x* is in the past, clamped to now.
	fit := FitCumulative(start, series, 200_000, rules, asOf)
	require.True(t, fit.Valid)
	require.Equal(t, 0, fit.NeedIncludedDays)
}
