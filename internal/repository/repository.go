package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/samwelmagaiwa/mobile-app-sub001/internal/models"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// Repository provides database operations
type Repository struct {
	db *sql.DB
}

// NewRepository initializes a new repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// CreateDriver creates a new driver account in the database
func (r *Repository) CreateDriver(driver *models.Driver) error {
	query := `
		INSERT INTO fleet.drivers (name, email, password_hash, created_at)
		VALUES ($1, $2, $3, CURRENT_TIMESTAMP)
		RETURNING id, created_at`
	err := r.db.QueryRow(query, driver.Name, driver.Email, driver.PasswordHash).
		Scan(&driver.ID, &driver.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create driver: %w", err)
	}
	return nil
}

// FindDriverByEmail retrieves a driver by email
func (r *Repository) FindDriverByEmail(email string) (*models.Driver, error) {
	driver := &models.Driver{}
	query := `
		SELECT id, name, email, password_hash, created_at
		FROM fleet.drivers
		WHERE email = $1`
	err := r.db.QueryRow(query, email).
		Scan(&driver.ID, &driver.Name, &driver.Email, &driver.PasswordHash, &driver.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("driver %s: %w", email, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find driver: %w", err)
	}
	return driver, nil
}

// FindDriverByID retrieves a driver by id
func (r *Repository) FindDriverByID(id int64) (*models.Driver, error) {
	driver := &models.Driver{}
	query := `
		SELECT id, name, email, password_hash, created_at
		FROM fleet.drivers
		WHERE id = $1`
	err := r.db.QueryRow(query, id).
		Scan(&driver.ID, &driver.Name, &driver.Email, &driver.PasswordHash, &driver.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("driver %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find driver: %w", err)
	}
	return driver, nil
}

// FindRelevantAgreement retrieves the agreement the prediction engine should
// use for a driver: an active one if present, otherwise the most recently
// created.
func (r *Repository) FindRelevantAgreement(driverID int64) (*models.Agreement, error) {
	agreement := &models.Agreement{}
	var startDate, endDate sql.NullTime
	query := `
		SELECT id, driver_id, status, start_date, end_date,
		       weekends_countable, saturday_included, sunday_included,
		       total_amount, created_at
		FROM fleet.agreements
		WHERE driver_id = $1
		ORDER BY (status = 'active') DESC, created_at DESC
		LIMIT 1`
	err := r.db.QueryRow(query, driverID).Scan(
		&agreement.ID, &agreement.DriverID, &agreement.Status,
		&startDate, &endDate,
		&agreement.WeekendsCountable, &agreement.SaturdayIncluded, &agreement.SundayIncluded,
		&agreement.TotalAmount, &agreement.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("agreement for driver %d: %w", driverID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find agreement: %w", err)
	}
	if startDate.Valid {
		agreement.StartDate = &startDate.Time
	}
	if endDate.Valid {
		agreement.EndDate = &endDate.Time
	}
	return agreement, nil
}

// ListCompletedPayments retrieves all completed payments for a driver.
// Nullable paid_at/amount columns are surfaced as nil pointers; the engine
// skips such rows during aggregation.
func (r *Repository) ListCompletedPayments(driverID int64) ([]models.PaymentRecord, error) {
	query := `
		SELECT id, driver_id, paid_at, amount, reference
		FROM fleet.payments
		WHERE driver_id = $1 AND status = 'completed'
		ORDER BY paid_at`
	rows, err := r.db.Query(query, driverID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	defer rows.Close()

	var payments []models.PaymentRecord
	for rows.Next() {
		var p models.PaymentRecord
		var paidAt sql.NullTime
		var amount sql.NullFloat64
		if err := rows.Scan(&p.ID, &p.DriverID, &paidAt, &amount, &p.Reference); err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		if paidAt.Valid {
			p.PaidAt = &paidAt.Time
		}
		if amount.Valid {
			p.Amount = &amount.Float64
		}
		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read payments: %w", err)
	}
	return payments, nil
}

// GetPredictionCache retrieves the cached prediction snapshot for a driver.
// A missing row is the normal "never computed" state and returns (nil, nil).
func (r *Repository) GetPredictionCache(driverID int64) (*models.PredictionCache, error) {
	cache := &models.PredictionCache{}
	var r2 sql.NullFloat64
	var predictedDate sql.NullTime
	var confidenceDays sql.NullInt64
	query := `
		SELECT id, driver_id, model, r2, predicted_date, on_track,
		       estimated_delay_days, confidence_days,
		       total_paid, balance, days_passed, total_days, calculated_at
		FROM fleet.prediction_cache
		WHERE driver_id = $1`
	err := r.db.QueryRow(query, driverID).Scan(
		&cache.ID, &cache.DriverID, &cache.Model, &r2, &predictedDate, &cache.OnTrack,
		&cache.EstimatedDelayDays, &confidenceDays,
		&cache.TotalPaid, &cache.Balance, &cache.DaysPassed, &cache.TotalDays, &cache.CalculatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get prediction cache: %w", err)
	}
	if r2.Valid {
		cache.R2 = &r2.Float64
	}
	if predictedDate.Valid {
		cache.PredictedDate = &predictedDate.Time
	}
	if confidenceDays.Valid {
		v := int(confidenceDays.Int64)
		cache.ConfidenceDays = &v
	}
	return cache, nil
}

// UpsertPredictionCache writes the prediction snapshot for a driver,
// overwriting any previous row. Last write wins; concurrent writers compute
// from the same facts and converge to the same answer.
func (r *Repository) UpsertPredictionCache(cache *models.PredictionCache) error {
	var r2 sql.NullFloat64
	if cache.R2 != nil {
		r2 = sql.NullFloat64{Float64: *cache.R2, Valid: true}
	}
	var predictedDate sql.NullTime
	if cache.PredictedDate != nil {
		predictedDate = sql.NullTime{Time: *cache.PredictedDate, Valid: true}
	}
	var confidenceDays sql.NullInt64
	if cache.ConfidenceDays != nil {
		confidenceDays = sql.NullInt64{Int64: int64(*cache.ConfidenceDays), Valid: true}
	}
	query := `
		INSERT INTO fleet.prediction_cache (
			driver_id, model, r2, predicted_date, on_track,
			estimated_delay_days, confidence_days,
			total_paid, balance, days_passed, total_days, calculated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (driver_id) DO UPDATE SET
			model = EXCLUDED.model,
			r2 = EXCLUDED.r2,
			predicted_date = EXCLUDED.predicted_date,
			on_track = EXCLUDED.on_track,
			estimated_delay_days = EXCLUDED.estimated_delay_days,
			confidence_days = EXCLUDED.confidence_days,
			total_paid = EXCLUDED.total_paid,
			balance = EXCLUDED.balance,
			days_passed = EXCLUDED.days_passed,
			total_days = EXCLUDED.total_days,
			calculated_at = EXCLUDED.calculated_at
		RETURNING id`
	err := r.db.QueryRow(query,
		cache.DriverID, cache.Model, r2, predictedDate, cache.OnTrack,
		cache.EstimatedDelayDays, confidenceDays,
		cache.TotalPaid, cache.Balance, cache.DaysPassed, cache.TotalDays, cache.CalculatedAt,
	).Scan(&cache.ID)
	if err != nil {
		return fmt.Errorf("failed to upsert prediction cache: %w", err)
	}
	return nil
}

// ListEligibleDriverIDs returns the ids of drivers with an active or
// in-progress agreement, the population swept by the nightly recomputation.
func (r *Repository) ListEligibleDriverIDs() ([]int64, error) {
	query := `
		SELECT DISTINCT driver_id
		FROM fleet.agreements
		WHERE status IN ('active', 'in_progress')
		ORDER BY driver_id`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list eligible drivers: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan driver id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read driver ids: %w", err)
	}
	return ids, nil
}
