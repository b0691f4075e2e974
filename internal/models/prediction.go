package models

import "time"

// PredictionResult is the output of the completion prediction engine for one
// driver. R2 is only set when the regression model was selected; PredictedDate
// is nil when the agreement has no usable start date.
type PredictionResult struct {
	Model              string     `json:"model"`
	R2                 *float64   `json:"r2,omitempty"`
	PredictedDate      *time.Time `json:"predicted_date"`
	OnTrack            bool       `json:"on_track"`
	EstimatedDelayDays int        `json:"estimated_delay_days"`
	ConfidenceDays     *int       `json:"confidence_days,omitempty"`
}

// Prediction is the full response envelope for a driver prediction query:
// the engine result plus the denormalized display aggregates.
type Prediction struct {
	PredictionResult
	TotalPaid         float64      `json:"total_paid"`
	TotalAmount       float64      `json:"total_amount"`
	Balance           float64      `json:"balance"`
	DaysPassed        int          `json:"days_passed"`
	TotalDays         int          `json:"total_days"`
	WeekendsCountable bool         `json:"weekends_countable"`
	SaturdayIncluded  bool         `json:"saturday_included"`
	SundayIncluded    bool         `json:"sunday_included"`
	PaymentHistory    []PaymentDay `json:"payment_history"`
	StartDate         *time.Time   `json:"start_date"`
	ContractEnd       *time.Time   `json:"contract_end"`
}

// PredictionCache is the persisted snapshot of the last computed result for a
// driver, one row per driver. A row is fresh while CalculatedAt falls on the
// same calendar day as the query; fresh rows win over recomputation for the
// model/r2/predicted_date/on_track/estimated_delay_days fields.
type PredictionCache struct {
	ID                 int64      `json:"id"`
	DriverID           int64      `json:"driver_id"`
	Model              string     `json:"model"`
	R2                 *float64   `json:"r2,omitempty"`
	PredictedDate      *time.Time `json:"predicted_date"`
	OnTrack            bool       `json:"on_track"`
	EstimatedDelayDays int        `json:"estimated_delay_days"`
	ConfidenceDays     *int       `json:"confidence_days,omitempty"`
	TotalPaid          float64    `json:"total_paid"`
	Balance            float64    `json:"balance"`
	DaysPassed         int        `json:"days_passed"`
	TotalDays          int        `json:"total_days"`
	CalculatedAt       time.Time  `json:"calculated_at"`
}
