package prediction

import (
	"math"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/samwelmagaiwa/mobile-app-sub001/internal/models"
)

// degenerateEps is the threshold below which the normal-equation denominator
// and the total sum of squares are treated as zero.
const degenerateEps = 1e-6

// FitResult is the outcome of fitting a linear trend to cumulative payments
// versus elapsed included days. An invalid fit still carries the coefficients
// and R2 for diagnostics when they were computable.
type FitResult struct {
	Valid          bool
	Slope          float64
	Intercept      float64
	R2             float64
	ResidualStdErr float64
	// NeedIncludedDays is how many more included days are needed for the
	// fitted trend to reach the obligation total.
	NeedIncludedDays int
	// SigmaDays converts the residual noise into a day-count band via the
	// slope: ceil(max(sigma/slope, 0)). Diagnostic only; the published
	// confidence band comes from the model selection step.
	SigmaDays int
}

// FitCumulative fits ordinary least squares y = slope*x + intercept over
// (elapsed included days, cumulative amount paid) pairs built from the per-day
// series, and solves for the included-day count at which the trend reaches
// totalAmount. The fit is invalid with fewer than two entries, a degenerate x
// spread, a non-positive slope, or a non-finite solve.
func FitCumulative(start time.Time, series []models.PaymentDay, totalAmount float64, rules Rules, asOf time.Time) FitResult {
	var res FitResult
	if len(series) < 2 {
		return res
	}

	xs := make([]float64, len(series))
	ys := make([]float64, len(series))
	cumulative := 0.0
	for i, p := range series {
		cumulative += p.Amount
		xs[i] = float64(rules.CountInclusive(start, p.Date))
		ys[i] = cumulative
	}

	n := float64(len(xs))
	var sumX, sumX2 float64
	for _, x := range xs {
		sumX += x
		sumX2 += x * x
	}
	// Collinear x (e.g. every payment landing on the same included-day
	// count) makes the normal equations degenerate.
	if math.Abs(n*sumX2-sumX*sumX) < degenerateEps {
		return res
	}

	intercept, slope := stat.LinearRegression(xs, ys, nil, false)
	res.Slope = slope
	res.Intercept = intercept

	meanY := stat.Mean(ys, nil)
	var ssTot, ssRes float64
	for i := range xs {
		dy := ys[i] - meanY
		ssTot += dy * dy
		residual := ys[i] - (slope*xs[i] + intercept)
		ssRes += residual * residual
	}
	if math.Abs(ssTot) < degenerateEps {
		res.R2 = 0
	} else {
		res.R2 = 1 - ssRes/ssTot
	}
	if len(xs) > 2 {
		res.ResidualStdErr = math.Sqrt(ssRes / math.Max(n-2, 1))
	}

	if slope <= 0 {
		// No forward payment trend; coefficients stay set for diagnostics.
		return res
	}

	xStar := (totalAmount - intercept) / slope
	if math.IsNaN(xStar) || math.IsInf(xStar, 0) {
		return res
	}
	xNow := float64(rules.CountInclusive(start, asOf))
	xStarCeil := math.Max(xNow, math.Ceil(xStar))
	need := int(xStarCeil - xNow)
	if need < 0 {
		need = 0
	}

	res.NeedIncludedDays = need
	res.SigmaDays = int(math.Ceil(math.Max(res.ResidualStdErr/slope, 0)))
	res.Valid = true
	return res
}
