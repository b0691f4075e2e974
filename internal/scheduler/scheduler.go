package scheduler

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/samwelmagaiwa/mobile-app-sub001/internal/config"
	"github.com/samwelmagaiwa/mobile-app-sub001/internal/service"
	"github.com/samwelmagaiwa/mobile-app-sub001/internal/utils/email"
)

// Scheduler runs the nightly prediction sweep on a cron schedule and sends
// the follow-up notifications.
type Scheduler struct {
	cron   *cron.Cron
	svc    *service.Service
	sender *email.Sender
	cfg    *config.Config
	log    *logrus.Logger
	ctx    context.Context
}

// NewScheduler creates a new Scheduler. sender may be nil when SMTP is not
// configured; notifications are then skipped.
func NewScheduler(ctx context.Context, svc *service.Service, sender *email.Sender, cfg *config.Config, log *logrus.Logger) *Scheduler {
	return &Scheduler{
		cron:   cron.New(cron.WithSeconds()),
		svc:    svc,
		sender: sender,
		cfg:    cfg,
		log:    log,
		ctx:    ctx,
	}
}

// Register registers the nightly sweep task.
func (s *Scheduler) Register() error {
	if _, err := s.cron.AddFunc(s.cfg.SweepCron, s.nightlySweep); err != nil {
		return fmt.Errorf("register sweep task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info("Scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	s.log.Info("Scheduler stopped")
}

// RunSweepNow executes the sweep immediately (for manual trigger / startup).
func (s *Scheduler) RunSweepNow() {
	s.nightlySweep()
}

func (s *Scheduler) nightlySweep() {
	s.log.Info("Running nightly prediction sweep")
	result, err := s.svc.RunSweep(s.ctx)
	if err != nil {
		s.log.Errorf("Nightly sweep: %v", err)
		return
	}

	if s.sender == nil {
		return
	}
	for _, d := range result.Delayed {
		if d.Email == "" {
			continue
		}
		if err := s.sender.SendDelayWarning(d.Email, d.Name, d.PredictedDate, d.DelayDays, d.Balance); err != nil {
			s.log.Errorf("Delay warning for driver %d: %v", d.DriverID, err)
		}
	}
	if s.cfg.AdminEmail != "" {
		if err := s.sender.SendSweepSummary(s.cfg.AdminEmail, result.Processed, result.Failed, result.Duration); err != nil {
			s.log.Errorf("Sweep summary: %v", err)
		}
	}
}
