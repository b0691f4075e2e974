package prediction

import (
	"math"
	"time"

	"github.com/samwelmagaiwa/mobile-app-sub001/internal/models"
)

// Model tags carried on every prediction result.
const (
	ModelRegression = "regression"
	ModelEWMA       = "ewma"
	ModelAverage    = "average"
)

const (
	// regressionMinR2 is the fit-quality gate below which the regression is
	// rejected in favor of the EWMA fallback.
	regressionMinR2 = 0.60
	// highConfidenceR2 narrows the published confidence band from 3 days
	// to 2.
	highConfidenceR2 = 0.8
)

// Facts bundles everything the engine reads for one driver. The computation
// is pure: it performs no I/O and touches no shared state.
type Facts struct {
	Agreement models.Agreement
	Payments  []models.PaymentRecord
	AsOf      time.Time
}

// estimate is the outcome of model selection before date projection.
type estimate struct {
	model      string
	r2         *float64
	needDays   int
	confidence *int
}

// Predict computes the completion prediction for one driver. An agreement
// without a start date short-circuits to a neutral zero-result: full balance
// outstanding, no predicted date, not on track, empty history.
func Predict(f Facts) models.Prediction {
	ag := f.Agreement
	out := models.Prediction{
		TotalAmount:       ag.TotalAmount,
		WeekendsCountable: ag.WeekendsCountable,
		SaturdayIncluded:  ag.SaturdayIncluded,
		SundayIncluded:    ag.SundayIncluded,
		StartDate:         ag.StartDate,
		ContractEnd:       ag.EndDate,
		PaymentHistory:    []models.PaymentDay{},
	}
	if ag.StartDate == nil {
		out.Balance = ag.TotalAmount
		return out
	}

	rules := Rules{
		WeekendsCountable: ag.WeekendsCountable,
		SaturdayIncluded:  ag.SaturdayIncluded,
		SundayIncluded:    ag.SundayIncluded,
	}
	start := Midnight(*ag.StartDate)
	asOf := Midnight(f.AsOf)

	series := AggregateByDay(f.Payments)
	out.PaymentHistory = series

	var totalPaid float64
	for _, p := range series {
		totalPaid += p.Amount
	}
	out.TotalPaid = totalPaid
	out.Balance = math.Max(ag.TotalAmount-totalPaid, 0)
	out.DaysPassed = rules.CountInclusive(start, asOf)
	if ag.EndDate != nil {
		out.TotalDays = rules.CountInclusive(start, *ag.EndDate)
	}

	est := predictAuto(start, series, ag.TotalAmount, totalPaid, rules, asOf)
	out.Model = est.model
	out.R2 = est.r2
	out.ConfidenceDays = est.confidence

	predicted := rules.Advance(asOf, est.needDays)
	out.PredictedDate = &predicted

	if ag.EndDate == nil {
		out.OnTrack = true
		return out
	}
	end := Midnight(*ag.EndDate)
	if predicted.After(end) {
		out.EstimatedDelayDays = calendarDaysBetween(end, predicted)
	} else {
		out.OnTrack = true
	}
	return out
}

// predictAuto chooses among the three estimators by quality gates, as a
// strict waterfall: regression, then EWMA, then lifetime average. Estimators
// are never blended and a rejected one is never revisited.
func predictAuto(start time.Time, series []models.PaymentDay, totalAmount, totalPaid float64, rules Rules, asOf time.Time) estimate {
	// A zero-target contract has no meaningful trend to fit.
	if totalAmount > 0 {
		fit := FitCumulative(start, series, totalAmount, rules, asOf)
		if fit.Valid && fit.Slope > 0 && fit.R2 >= regressionMinR2 {
			confidence := 3
			if fit.R2 >= highConfidenceR2 {
				confidence = 2
			}
			r2 := fit.R2
			return estimate{
				model:      ModelRegression,
				r2:         &r2,
				needDays:   fit.NeedIncludedDays,
				confidence: &confidence,
			}
		}

		if rate := EWMARate(series, asOf); rate > 0 {
			remaining := math.Max(totalAmount-totalPaid, 0)
			return estimate{
				model:    ModelEWMA,
				needDays: int(math.Ceil(remaining / rate)),
			}
		}
	}

	return estimate{
		model:    ModelAverage,
		needDays: averageNeedDays(start, totalAmount, totalPaid, rules, asOf),
	}
}

// averageNeedDays is the simplest fallback: remaining amount over the
// lifetime average per included day. A fully paid obligation or a
// non-positive rate predicts "today".
func averageNeedDays(start time.Time, totalAmount, totalPaid float64, rules Rules, asOf time.Time) int {
	if totalAmount <= totalPaid {
		return 0
	}
	rate := totalPaid / float64(rules.CountInclusive(start, asOf))
	if rate <= 0 {
		return 0
	}
	return int(math.Ceil((totalAmount - totalPaid) / rate))
}

// calendarDaysBetween returns the plain calendar-day gap between two
// midnight-normalized dates, a on or before b.
func calendarDaysBetween(a, b time.Time) int {
	return int(math.Round(b.Sub(a).Hours() / 24))
}
