package email

import (
	"fmt"
	"net/smtp"
	"time"

	"github.com/jordan-wright/email"
	"github.com/sirupsen/logrus"

	"github.com/finassist/finance-service/internal/config"
	"github.com/finassist/finance-service/internal/money"
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

// SendInstallmentReminder sends a reminder for an upcoming or overdue
// installment.
func (s *Sender) SendInstallmentReminder(to, name, liability string, dueDate time.Time, amountCents int64, overdue bool) error {
	e := email.NewEmail()
	e.From = s.cfg.SenderEmail
	e.To = []string{to}
	if overdue {
		e.Subject = "Overdue Installment Notification"
	} else {
		e.Subject = "Upcoming Installment Reminder"
	}

	body := fmt.Sprintf("Dear %s,\n\n", name)
	if overdue {
		body += fmt.Sprintf(
			"Your %s installment of %s was due on %s and is still unpaid.\n"+
				"Please make the payment as soon as possible.\n",
			liability, money.Format(amountCents), dueDate.Format("2006-01-02"),
		)
	} else {
		body += fmt.Sprintf(
			"This is a reminder that your %s installment of %s is due on %s.\n"+
				"Please ensure sufficient funds are available.\n",
			liability, money.Format(amountCents), dueDate.Format("2006-01-02"),
		)
	}
	body += "\nBest regards,\nFinance Assistant"
	e.Text = []byte(body)

	return s.send(e)
}

// SendShortfallAlert warns that the cash-flow projection found obligations
// that current and expected funds cannot cover.
func (s *Sender) SendShortfallAlert(to, name string, count int, horizonDays int) error {
	e := email.NewEmail()
	e.From = s.cfg.SenderEmail
	e.To = []string{to}
	e.Subject = "Cash-Flow Shortfall Warning"

	body := fmt.Sprintf(
		"Dear %s,\n\n"+
			"Your cash-flow projection for the next %d days shows %d obligation(s) that "+
			"current and expected funds cannot cover.\n"+
			"Open the recommendations view to see the details.\n"+
			"\nBest regards,\nFinance Assistant",
		name, horizonDays, count,
	)
	e.Text = []byte(body)

	return s.send(e)
}

func (s *Sender) send(e *email.Email) error {
	addr := fmt.Sprintf("%s:%s", s.cfg.SMTPHost, s.cfg.SMTPPort)
	auth := smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)
	if err := e.Send(addr, auth); err != nil {
		s.logger.Errorf("Failed to send email to %v: %v", e.To, err)
		return fmt.Errorf("failed to send email: %w", err)
	}
	s.logger.Infof("Email sent to %v: %s", e.To, e.Subject)
	return nil
}
