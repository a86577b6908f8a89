package reminder

import (
	"context"
	"fmt"
	"log"
	"time"

	"loantrack/internal/clock"
	"loantrack/internal/models"
)

const (
	defaultLeadHours = 2
	defaultRecipient = "admin@loantrack.local"
	defaultCompany   = "LoanTrack"

	pollInterval = 30 * time.Minute
)

type SettingsSource interface {
	GetSettings(ctx context.Context) (models.Settings, error)
}

type FollowUpSource interface {
	GetPendingReminders(ctx context.Context, from, to time.Time) ([]models.ReminderFollowUp, error)
	MarkReminderSent(ctx context.Context, id int) error
}

// Scheduler polls for follow-ups due within the configured lead time
// and mails a reminder once per follow-up. reminder_sent is only set
// after a successful send, so a failed send is retried on the next
// poll.
type Scheduler struct {
	settings  SettingsSource
	followUps FollowUpSource
	mailer    Mailer
}

func NewScheduler(settings SettingsSource, followUps FollowUpSource, mailer Mailer) *Scheduler {
	return &Scheduler{
		settings:  settings,
		followUps: followUps,
		mailer:    mailer,
	}
}

// Run checks once immediately, then every half hour until ctx is
// cancelled. A failed cycle is logged and never kills the loop.
func (sc *Scheduler) Run(ctx context.Context) {
	op := "internal/reminder/scheduler.go Run"

	if err := sc.CheckFollowUpReminders(ctx); err != nil {
		log.Printf("%s: reminder check failed: %v", op, err)
	}

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := sc.CheckFollowUpReminders(ctx); err != nil {
				log.Printf("%s: reminder check failed: %v", op, err)
			}
		}
	}
}

// CheckFollowUpReminders runs one poll cycle: load settings, find
// follow-ups due in (now, now+lead], mail each one and mark it sent.
func (sc *Scheduler) CheckFollowUpReminders(ctx context.Context) error {
	op := "internal/reminder/scheduler.go CheckFollowUpReminders"

	settings := sc.loadSettings(ctx)

	from, to := reminderWindow(clock.Now(), settings.ReminderTimeBefore)

	pending, err := sc.followUps.GetPendingReminders(ctx, from, to)
	if err != nil {
		return fmt.Errorf("Failure to get pending reminders in %s: %w", op, err)
	}

	for _, followUp := range pending {
		subject, body, err := renderEmail(followUp, settings.CompanyName)
		if err != nil {
			log.Printf("%s: render e-mail for follow-up %d: %v", op, followUp.ID, err)
			continue
		}

		if err := sc.mailer.Send(settings.NotificationEmail, subject, body); err != nil {
			// Not marked as sent, so the next poll retries it.
			log.Printf("%s: send for follow-up %d: %v", op, followUp.ID, err)
			continue
		}

		if err := sc.followUps.MarkReminderSent(ctx, followUp.ID); err != nil {
			log.Printf("%s: mark sent for follow-up %d: %v", op, followUp.ID, err)
		}
	}

	return nil
}

// loadSettings falls back to hardcoded defaults when the settings row
// is missing or unreadable. notifications_enabled is loaded here but
// not consulted before sending; the frontend reads it for its badge.
func (sc *Scheduler) loadSettings(ctx context.Context) models.Settings {
	op := "internal/reminder/scheduler.go loadSettings"

	settings, err := sc.settings.GetSettings(ctx)
	if err != nil {
		log.Printf("%s: using default reminder settings: %v", op, err)
		settings = models.Settings{}
	}

	if settings.ReminderTimeBefore <= 0 {
		settings.ReminderTimeBefore = defaultLeadHours
	}
	if settings.NotificationEmail == "" {
		settings.NotificationEmail = defaultRecipient
	}
	if settings.CompanyName == "" {
		settings.CompanyName = defaultCompany
	}

	return settings
}

// reminderWindow is (now, now+lead hours]: a follow-up due exactly now
// is excluded, one due exactly at the window end is included.
func reminderWindow(now time.Time, leadHours int) (time.Time, time.Time) {
	return now, now.Add(time.Duration(leadHours) * time.Hour)
}
