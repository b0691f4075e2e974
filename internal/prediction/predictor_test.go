package prediction

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/samwelmagaiwa/mobile-app-sub001/internal/models"
)

func agreement(start, end *time.Time, total float64) models.Agreement {
	return models.Agreement{
		DriverID:    1,
		Status:      models.AgreementActive,
		StartDate:   start,
		EndDate:     end,
		TotalAmount: total,
	}
}

func steadyPayments(start time.Time, rules Rules, n int, amount float64) []models.PaymentRecord {
	var payments []models.PaymentRecord
	for d := Midnight(start); len(payments) < n; d = d.AddDate(0, 0, 1) {
		if rules.Includes(d) {
			day := d
			amt := amount
			payments = append(payments, models.PaymentRecord{PaidAt: &day, Amount: &amt})
		}
	}
	return payments
}

func TestPredictSteadyPayerRegression(t *testing.T) {
	start := date(2024, time.January, 1)
	end := date(2024, time.April, 1)
	ag := agreement(&start, &end, 3_000_000)
	rules := Rules{} // weekends excluded

	// 50,000 on each of the first 59 included days; queried on day 59.
	payments := steadyPayments(start, rules, 59, 50000)
	asOf := *payments[len(payments)-1].PaidAt

	out := Predict(Facts{Agreement: ag, Payments: payments, AsOf: asOf})

	require.Equal(t, ModelRegression, out.Model)
	require.NotNil(t, out.R2)
	require.InDelta(t, 1.0, *out.R2, 1e-9)
	require.NotNil(t, out.ConfidenceDays)
	require.Equal(t, 2, *out.ConfidenceDays)
	// Cumulative reaches 3,000,000 on the 60th included day: Friday 2024-03-22.
	require.NotNil(t, out.PredictedDate)
	require.Equal(t, date(2024, time.March, 22), *out.PredictedDate)
	require.True(t, out.OnTrack)
	require.Equal(t, 0, out.EstimatedDelayDays)
	require.InDelta(t, 2_950_000, out.TotalPaid, 1e-6)
	require.InDelta(t, 50_000, out.Balance, 1e-6)
}

func TestPredictNoPaymentsFallsToAverage(t *testing.T) {
	start := date(2024, time.January, 1)
	end := date(2024, time.April, 1)
	ag := agreement(&start, &end, 3_000_000)
	asOf := date(2024, time.February, 1)

	out := Predict(Facts{Agreement: ag, AsOf: asOf})

	require.Equal(t, ModelAverage, out.Model)
	require.Nil(t, out.R2)
	require.NotNil(t, out.PredictedDate)
	require.Equal(t, asOf, *out.PredictedDate)
	require.True(t, out.OnTrack) // today is still before the end date
	require.Equal(t, 0.0, out.TotalPaid)
	require.Equal(t, 3_000_000.0, out.Balance)
	require.Equal(t, 24, out.DaysPassed) // weekdays Jan 1 .. Feb 1
}

func TestPredictNoPaymentsPastEndDate(t *testing.T) {
	start := date(2024, time.January, 1)
	end := date(2024, time.April, 1)
	ag := agreement(&start, &end, 3_000_000)
	asOf := date(2024, time.May, 1)

	out := Predict(Facts{Agreement: ag, AsOf: asOf})

	require.Equal(t, ModelAverage, out.Model)
	require.Equal(t, asOf, *out.PredictedDate)
	require.False(t, out.OnTrack)
	require.Equal(t, 30, out.EstimatedDelayDays) // Apr 1 -> May 1
}

func TestPredictErraticPaymentsFallToEWMA(t *testing.T) {
	start := date(2024, time.June, 3)
	ag := models.Agreement{
		DriverID:          1,
		Status:            models.AgreementActive,
		StartDate:         &start,
		WeekendsCountable: true,
		SaturdayIncluded:  true,
		SundayIncluded:    true,
		TotalAmount:       10000,
	}
	// Cumulative series 1000,1000,1000,1000,2000 over x=1..5 fits with
	// R^2 = 0.5, below the acceptance gate.
	amounts := []float64{1000, 0, 0, 0, 1000}
	var payments []models.PaymentRecord
	for i, amt := range amounts {
		d := start.AddDate(0, 0, i)
		a := amt
		payments = append(payments, models.PaymentRecord{PaidAt: &d, Amount: &a})
	}
	asOf := date(2024, time.June, 7)

	out := Predict(Facts{Agreement: ag, Payments: payments, AsOf: asOf})

	require.Equal(t, ModelEWMA, out.Model)
	require.Nil(t, out.R2)
	require.Nil(t, out.ConfidenceDays)
	// EWMA rate folds to 540.1; ceil(8000/540.1) = 15 days, all countable.
	require.Equal(t, date(2024, time.June, 22), *out.PredictedDate)
	require.True(t, out.OnTrack) // open-ended contract
}

func TestPredictSingleDistinctDateNeverRegression(t *testing.T) {
	start := date(2024, time.January, 1)
	ag := agreement(&start, nil, 1000)
	paid := date(2024, time.January, 2)
	amt := 1500.0
	payments := []models.PaymentRecord{{PaidAt: &paid, Amount: &amt}}
	asOf := date(2024, time.January, 10)

	out := Predict(Facts{Agreement: ag, Payments: payments, AsOf: asOf})

	require.NotEqual(t, ModelRegression, out.Model)
	// Already fully paid: predicted today.
	require.Equal(t, asOf, *out.PredictedDate)
	require.True(t, out.OnTrack)
	require.Equal(t, 0, out.EstimatedDelayDays)
}

func TestPredictFullyPaidIdempotence(t *testing.T) {
	start := date(2024, time.January, 1)
	end := date(2024, time.June, 1)
	ag := agreement(&start, &end, 100_000)
	rules := Rules{}
	payments := steadyPayments(start, rules, 5, 50_000) // 250k paid on 100k target
	asOf := date(2024, time.February, 1)

	out := Predict(Facts{Agreement: ag, Payments: payments, AsOf: asOf})

	require.Equal(t, asOf, *out.PredictedDate)
	require.True(t, out.OnTrack)
	require.Equal(t, 0.0, out.Balance)
}

func TestPredictZeroTargetGoesStraightToAverage(t *testing.T) {
	start := date(2024, time.January, 1)
	ag := agreement(&start, nil, 0)
	rules := Rules{}
	payments := steadyPayments(start, rules, 10, 1000)
	asOf := date(2024, time.February, 1)

	out := Predict(Facts{Agreement: ag, Payments: payments, AsOf: asOf})

	require.Equal(t, ModelAverage, out.Model)
	require.Equal(t, asOf, *out.PredictedDate)
}

func TestPredictMissingStartDateZeroResult(t *testing.T) {
	ag := agreement(nil, nil, 500_000)
	paid := date(2024, time.January, 2)
	amt := 1500.0
	payments := []models.PaymentRecord{{PaidAt: &paid, Amount: &amt}}

	out := Predict(Facts{Agreement: ag, Payments: payments, AsOf: date(2024, time.March, 1)})

	require.Equal(t, "", out.Model)
	require.Nil(t, out.PredictedDate)
	require.False(t, out.OnTrack)
	require.Equal(t, 0.0, out.TotalPaid)
	require.Equal(t, 500_000.0, out.Balance)
	require.Empty(t, out.PaymentHistory)
	require.Equal(t, 0, out.DaysPassed)
}
