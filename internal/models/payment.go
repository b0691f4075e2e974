package models

import "time"

// PaymentRecord represents a completed payment made by a driver.
// PaidAt and Amount are nullable because historical rows imported from the
// mobile app occasionally carry an unparseable date or a missing amount;
// such rows are skipped during aggregation instead of failing the whole
// computation.
type PaymentRecord struct {
	ID        int64      `json:"id"`
	DriverID  int64      `json:"driver_id"`
	PaidAt    *time.Time `json:"paid_at"`
	Amount    *float64   `json:"amount"`
	Reference string     `json:"reference"`
}

// PaymentDay is one entry of the per-calendar-day payment series: the summed
// amount paid on a given day.
type PaymentDay struct {
	Date   time.Time `json:"date"`
	Amount float64   `json:"amount"`
}
