package prediction

import (
	"math"
	"time"

	"github.com/samwelmagaiwa/mobile-app-sub001/internal/models"
)

const (
	ewmaLookbackDays = 60
	ewmaAlpha        = 0.3
)

// EWMARate estimates a smoothed recent daily payment rate from the per-day
// series. Only entries within the lookback window of asOf are considered:
// none yields 0, a single entry yields that entry's value, and otherwise the
// estimate is seeded with the earliest kept value and folded forward
// chronologically. The result is floored at 0.
func EWMARate(series []models.PaymentDay, asOf time.Time) float64 {
	cutoff := Midnight(asOf).AddDate(0, 0, -ewmaLookbackDays)

	var kept []models.PaymentDay
	for _, p := range series {
		if !p.Date.Before(cutoff) {
			kept = append(kept, p)
		}
	}
	if len(kept) == 0 {
		return 0
	}

	ewma := kept[0].Amount
	for _, p := range kept[1:] {
		ewma = ewmaAlpha*p.Amount + (1-ewmaAlpha)*ewma
	}
	return math.Max(ewma, 0)
}
