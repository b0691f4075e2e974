package models

import "time"

// Agreement statuses as stored in fleet.agreements.
const (
	AgreementActive     = "active"
	AgreementInProgress = "in_progress"
	AgreementCompleted  = "completed"
)

// Agreement represents a driver's contractual obligation (lease, loan or
// buy-the-vehicle contract). StartDate and EndDate are nullable: an agreement
// without a start date has not begun, and open-ended contracts have no end.
type Agreement struct {
	ID                int64      `json:"id"`
	DriverID          int64      `json:"driver_id"`
	Status            string     `json:"status"`
	StartDate         *time.Time `json:"start_date"`
	EndDate           *time.Time `json:"end_date"`
	WeekendsCountable bool       `json:"weekends_countable"`
	SaturdayIncluded  bool       `json:"saturday_included"`
	SundayIncluded    bool       `json:"sunday_included"`
	TotalAmount       float64    `json:"total_amount"`
	CreatedAt         string     `json:"created_at"`
}
