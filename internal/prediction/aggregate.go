package prediction

import (
	"sort"
	"time"

	"github.com/samwelmagaiwa/mobile-app-sub001/internal/models"
)

// AggregateByDay reduces a driver's raw payment history to a per-calendar-day
// series of summed amounts, ordered ascending by day. Records with a missing
// date or amount are skipped rather than aborting the computation.
func AggregateByDay(payments []models.PaymentRecord) []models.PaymentDay {
	totals := make(map[time.Time]float64, len(payments))
	for _, p := range payments {
		if p.PaidAt == nil || p.Amount == nil {
			continue
		}
		totals[Midnight(*p.PaidAt)] += *p.Amount
	}

	series := make([]models.PaymentDay, 0, len(totals))
	for day, amount := range totals {
		series = append(series, models.PaymentDay{Date: day, Amount: amount})
	}
	sort.Slice(series, func(i, j int) bool {
		return series[i].Date.Before(series[j].Date)
	})
	return series
}
