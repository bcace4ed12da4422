// Package scheduler runs the daily maintenance job: rolling liability due
// dates forward and emailing installment reminders and shortfall alerts.
package scheduler

import (
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/finassist/finance-service/internal/forecast"
	"github.com/finassist/finance-service/internal/models"
	"github.com/finassist/finance-service/internal/money"
	"github.com/finassist/finance-service/internal/repository"
	"github.com/finassist/finance-service/internal/utils/email"
)

// reminderWindowDays is how far ahead installment reminders look.
const reminderWindowDays = 3

// alertHorizonDays is the projection window for shortfall alerts.
const alertHorizonDays = 7

// Scheduler owns the cron instance and the daily job.
type Scheduler struct {
	repo   *repository.Repository
	sender *email.Sender
	log    *logrus.Logger
	cron   *cron.Cron
}

// NewScheduler creates a scheduler around the shared repository and sender.
func NewScheduler(repo *repository.Repository, sender *email.Sender, log *logrus.Logger) *Scheduler {
	return &Scheduler{
		repo:   repo,
		sender: sender,
		log:    log,
		cron:   cron.New(),
	}
}

// Start registers the daily job and launches the cron loop.
func (s *Scheduler) Start(spec string) error {
	if _, err := s.cron.AddFunc(spec, s.RunDaily); err != nil {
		return err
	}
	s.cron.Start()
	s.log.Infof("Scheduler started with spec %q", spec)
	return nil
}

// Stop halts the cron loop.
func (s *Scheduler) Stop() {
	s.cron.Stop()
}

// RunDaily processes every user: rolls due dates, sends reminders for
// installments due within the window or overdue, and alerts on projected
// shortfalls.
func (s *Scheduler) RunDaily() {
	users, err := s.repo.ListUsers()
	if err != nil {
		s.log.Errorf("Scheduler failed to list users: %v", err)
		return
	}

	today := money.DateOnly(time.Now())
	for _, user := range users {
		if err := s.processUser(&user, today); err != nil {
			s.log.Errorf("Scheduler failed for user %d: %v", user.ID, err)
		}
	}
}

func (s *Scheduler) processUser(user *models.User, today time.Time) error {
	if err := s.rollDueDates(user.ID); err != nil {
		return err
	}
	if err := s.sendReminders(user, today); err != nil {
		return err
	}
	return s.sendShortfallAlert(user, today)
}

// rollDueDates points each open liability's next_due_date at its earliest
// unpaid installment.
func (s *Scheduler) rollDueDates(ownerID int64) error {
	liabilities, err := s.repo.LiabilitiesByOwner(ownerID)
	if err != nil {
		return err
	}
	for _, liability := range liabilities {
		if liability.Completed {
			continue
		}
		installments, err := s.repo.InstallmentsByLiability(ownerID, liability.ID)
		if err != nil {
			return err
		}
		for _, inst := range installments {
			if inst.Paid {
				continue
			}
			if !inst.DueDate.Equal(liability.NextDueDate) {
				if err := s.repo.UpdateNextDueDate(ownerID, liability.ID, inst.DueDate); err != nil {
					return err
				}
			}
			break
		}
	}
	return nil
}

func (s *Scheduler) sendReminders(user *models.User, today time.Time) error {
	window := today.AddDate(0, 0, reminderWindowDays)
	due, err := s.repo.UnpaidInstallments(user.ID, window)
	if err != nil {
		return err
	}
	for _, inst := range due {
		overdue := inst.DueDate.Before(today)
		if err := s.sender.SendInstallmentReminder(user.Email, user.Name, inst.Label, inst.DueDate, inst.AmountCents, overdue); err != nil {
			s.log.Errorf("Failed to send reminder for installment %d: %v", inst.ID, err)
		}
	}
	return nil
}

func (s *Scheduler) sendShortfallAlert(user *models.User, today time.Time) error {
	projection, err := forecast.Project(s.repo, user.ID, today, alertHorizonDays)
	if err != nil {
		return err
	}
	if len(projection.ShortfallNotes) == 0 {
		return nil
	}
	return s.sender.SendShortfallAlert(user.Email, user.Name, len(projection.ShortfallNotes), alertHorizonDays)
}
