package service

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/samwelmagaiwa/mobile-app-sub001/internal/config"
	"github.com/samwelmagaiwa/mobile-app-sub001/internal/models"
	"github.com/samwelmagaiwa/mobile-app-sub001/internal/prediction"
)

// Store is the persistence surface the service needs: driver accounts,
// agreement and payment reads, and the prediction cache.
type Store interface {
	CreateDriver(driver *models.Driver) error
	FindDriverByEmail(email string) (*models.Driver, error)
	FindDriverByID(id int64) (*models.Driver, error)
	FindRelevantAgreement(driverID int64) (*models.Agreement, error)
	ListCompletedPayments(driverID int64) ([]models.PaymentRecord, error)
	GetPredictionCache(driverID int64) (*models.PredictionCache, error)
	UpsertPredictionCache(cache *models.PredictionCache) error
	ListEligibleDriverIDs() ([]int64, error)
}

// Service handles business logic
type Service struct {
	repo   Store
	log    *logrus.Logger
	config *config.Config
	now    func() time.Time
}

// NewService initializes a new service
func NewService(repo Store, log *logrus.Logger, cfg *config.Config) *Service {
	return &Service{repo: repo, log: log, config: cfg, now: time.Now}
}

// Register creates a new driver account with hashed password
func (s *Service) Register(name, email, password string) (*models.Driver, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	driver := &models.Driver{
		Name:         name,
		Email:        email,
		PasswordHash: string(hashedPassword),
	}

	if err := s.repo.CreateDriver(driver); err != nil {
		return nil, err
	}

	s.log.Infof("Driver registered: %s", driver.Email)
	return driver, nil
}

// Login authenticates a driver and returns a JWT token
func (s *Service) Login(email, password string) (string, error) {
	driver, err := s.repo.FindDriverByEmail(email)
	if err != nil {
		return "", fmt.Errorf("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(driver.PasswordHash), []byte(password)); err != nil {
		return "", fmt.Errorf("invalid credentials")
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   fmt.Sprintf("%d", driver.ID),
		ExpiresAt: jwt.NewNumericDate(s.now().Add(24 * time.Hour)),
	})
	tokenString, err := token.SignedString([]byte(s.config.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}

	s.log.Infof("Driver logged in: %s", driver.Email)
	return tokenString, nil
}

// PredictForDriver returns the completion prediction for a driver. A cache
// row calculated on the same calendar day wins for the prediction fields
// (model, r2, predicted date, on-track, delay, confidence) while the display
// aggregates are always recomputed from live data; a stale or missing row
// triggers a full recomputation whose snapshot is persisted best-effort.
func (s *Service) PredictForDriver(ctx context.Context, driverID int64) (*models.Prediction, error) {
	agreement, err := s.repo.FindRelevantAgreement(driverID)
	if err != nil {
		return nil, err
	}
	payments, err := s.repo.ListCompletedPayments(driverID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	out := prediction.Predict(prediction.Facts{
		Agreement: *agreement,
		Payments:  payments,
		AsOf:      now,
	})

	cached, err := s.repo.GetPredictionCache(driverID)
	if err != nil {
		// A broken cache read must not break the computation.
		s.log.Warnf("Read prediction cache for driver %d: %v", driverID, err)
	} else if cached != nil && sameDay(cached.CalculatedAt, now) {
		out.Model = cached.Model
		out.R2 = cached.R2
		out.PredictedDate = cached.PredictedDate
		out.OnTrack = cached.OnTrack
		out.EstimatedDelayDays = cached.EstimatedDelayDays
		out.ConfidenceDays = cached.ConfidenceDays
		return &out, nil
	}

	if err := s.repo.UpsertPredictionCache(snapshot(driverID, &out, now)); err != nil {
		s.log.Errorf("Persist prediction for driver %d: %v", driverID, err)
	}
	return &out, nil
}

// DelayedDriver identifies a driver whose fresh prediction ran past the
// contract end by at least the alert threshold.
type DelayedDriver struct {
	DriverID      int64
	Email         string
	Name          string
	PredictedDate time.Time
	DelayDays     int
	Balance       float64
}

// SweepResult summarizes one batch recomputation run.
type SweepResult struct {
	Processed int
	Failed    int
	Duration  time.Duration
	Delayed   []DelayedDriver
}

// RunSweep recomputes and persists the prediction for every driver with an
// active or in-progress agreement. Per-driver failures are logged and
// skipped; the sweep never aborts. Freshness is deliberately ignored: the
// sweep always overwrites.
func (s *Service) RunSweep(ctx context.Context) (*SweepResult, error) {
	ids, err := s.repo.ListEligibleDriverIDs()
	if err != nil {
		return nil, fmt.Errorf("failed to list eligible drivers: %w", err)
	}

	started := s.now()
	result := &SweepResult{}
	for _, id := range ids {
		out, err := s.recomputeAndPersist(ctx, id)
		if err != nil {
			s.log.Errorf("Sweep: driver %d: %v", id, err)
			result.Failed++
			continue
		}
		result.Processed++
		s.collectDelayed(id, out, result)
	}
	result.Duration = s.now().Sub(started)
	s.log.Infof("Sweep finished: %d processed, %d failed in %s", result.Processed, result.Failed, result.Duration)
	return result, nil
}

// RunSweepForDriver recomputes and persists the prediction for one driver.
func (s *Service) RunSweepForDriver(ctx context.Context, driverID int64) (*models.Prediction, error) {
	return s.recomputeAndPersist(ctx, driverID)
}

func (s *Service) recomputeAndPersist(ctx context.Context, driverID int64) (*models.Prediction, error) {
	agreement, err := s.repo.FindRelevantAgreement(driverID)
	if err != nil {
		return nil, err
	}
	payments, err := s.repo.ListCompletedPayments(driverID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	out := prediction.Predict(prediction.Facts{
		Agreement: *agreement,
		Payments:  payments,
		AsOf:      now,
	})
	if err := s.repo.UpsertPredictionCache(snapshot(driverID, &out, now)); err != nil {
		return nil, fmt.Errorf("failed to persist prediction: %w", err)
	}
	return &out, nil
}

func (s *Service) collectDelayed(driverID int64, out *models.Prediction, result *SweepResult) {
	if out.OnTrack || out.EstimatedDelayDays < s.config.DelayAlertDays || out.PredictedDate == nil {
		return
	}
	driver, err := s.repo.FindDriverByID(driverID)
	if err != nil {
		s.log.Warnf("Sweep: lookup delayed driver %d: %v", driverID, err)
		return
	}
	result.Delayed = append(result.Delayed, DelayedDriver{
		DriverID:      driverID,
		Email:         driver.Email,
		Name:          driver.Name,
		PredictedDate: *out.PredictedDate,
		DelayDays:     out.EstimatedDelayDays,
		Balance:       out.Balance,
	})
}

func snapshot(driverID int64, out *models.Prediction, calculatedAt time.Time) *models.PredictionCache {
	return &models.PredictionCache{
		DriverID:           driverID,
		Model:              out.Model,
		R2:                 out.R2,
		PredictedDate:      out.PredictedDate,
		OnTrack:            out.OnTrack,
		EstimatedDelayDays: out.EstimatedDelayDays,
		ConfidenceDays:     out.ConfidenceDays,
		TotalPaid:          out.TotalPaid,
		Balance:            out.Balance,
		DaysPassed:         out.DaysPassed,
		TotalDays:          out.TotalDays,
		CalculatedAt:       calculatedAt,
	}
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
