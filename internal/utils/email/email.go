package email

import (
	"fmt"
	"net/smtp"
	"time"

	"github.com/jordan-wright/email"
	"github.com/sirupsen/logrus"

	"github.com/samwelmagaiwa/mobile-app-sub001/internal/config"
)

// Sender handles sending emails via SMTP
type Sender struct {
	cfg    *config.Config
	logger *logrus.Logger
}

// NewSender creates a new email sender
func NewSender(cfg *config.Config, logger *logrus.Logger) *Sender {
	return &Sender{
		cfg:    cfg,
		logger: logger,
	}
}

// SendDelayWarning notifies a driver that the projected completion date has
// run past the contract end date
func (s *Sender) SendDelayWarning(to, name string, predictedDate time.Time, delayDays int, balance float64) error {
	e := email.NewEmail()
	e.From = s.cfg.SenderEmail
	e.To = []string{to}
	e.Subject = "Payment Schedule Warning"

	body := fmt.Sprintf(
		"Dear %s,\n\n", name,
	)
	body += fmt.Sprintf(
		"At your current payment pace your agreement is projected to complete on %s, "+
			"which is %d days past your contract end date.\n"+
			"Outstanding balance: %.2f\n"+
			"Please consider increasing your payment frequency to finish on time.\n",
		predictedDate.Format("2006-01-02"), delayDays, balance,
	)
	body += "\nBest regards,\nFleet Service"
	e.Text = []byte(body)

	addr := fmt.Sprintf("%s:%s", s.cfg.SMTPHost, s.cfg.SMTPPort)
	auth := smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)
	if err := e.Send(addr, auth); err != nil {
		s.logger.Errorf("Failed to send delay warning to %s: %v", to, err)
		return fmt.Errorf("failed to send delay warning: %w", err)
	}

	s.logger.Infof("Email sent to %s: %s", to, e.Subject)
	return nil
}

// SendSweepSummary reports the outcome of a nightly recomputation sweep to
// the operations address
func (s *Sender) SendSweepSummary(to string, processed, failed int, duration time.Duration) error {
	e := email.NewEmail()
	e.From = s.cfg.SenderEmail
	e.To = []string{to}
	e.Subject = "Nightly Prediction Sweep Summary"

	body := fmt.Sprintf(
		"Nightly prediction sweep finished at %s.\n\n"+
			"Drivers processed: %d\n"+
			"Drivers failed: %d\n"+
			"Duration: %s\n",
		time.Now().Format("2006-01-02 15:04:05"), processed, failed, duration,
	)
	body += "\nBest regards,\nFleet Service"
	e.Text = []byte(body)

	addr := fmt.Sprintf("%s:%s", s.cfg.SMTPHost, s.cfg.SMTPPort)
	auth := smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)
	if err := e.Send(addr, auth); err != nil {
		s.logger.Errorf("Failed to send sweep summary to %s: %v", to, err)
		return fmt.Errorf("failed to send sweep summary: %w", err)
	}

	s.logger.Infof("Email sent to %s: %s", to, e.Subject)
	return nil
}
