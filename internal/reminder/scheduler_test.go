package reminder

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"loantrack/internal/clock"
	"loantrack/internal/models"
)

type fakeSettings struct {
	settings models.Settings
	err      error
}

func (f *fakeSettings) GetSettings(ctx context.Context) (models.Settings, error) {
	return f.settings, f.err
}

type fakeFollowUps struct {
	followUps []models.ReminderFollowUp
	markErr   error
}

// GetPendingReminders mirrors the SQL contract: strictly after from,
// at or before to, reminder not yet sent.
func (f *fakeFollowUps) GetPendingReminders(ctx context.Context, from, to time.Time) ([]models.ReminderFollowUp, error) {
	pending := []models.ReminderFollowUp{}
	for _, followUp := range f.followUps {
		if followUp.NextFollowUpDate == nil || followUp.ReminderSent {
			continue
		}
		due := *followUp.NextFollowUpDate
		if due.After(from) && !due.After(to) {
			pending = append(pending, followUp)
		}
	}
	return pending, nil
}

func (f *fakeFollowUps) MarkReminderSent(ctx context.Context, id int) error {
	if f.markErr != nil {
		return f.markErr
	}
	for i := range f.followUps {
		if f.followUps[i].ID == id {
			f.followUps[i].ReminderSent = true
		}
	}
	return nil
}

type sentMail struct {
	to      string
	subject string
	body    string
}

type fakeMailer struct {
	sent   []sentMail
	fail   bool
	failOn string
}

func (f *fakeMailer) Send(to, subject, htmlBody string) error {
	if f.fail || (f.failOn != "" && strings.Contains(subject, f.failOn)) {
		return errors.New("smtp unavailable")
	}
	f.sent = append(f.sent, sentMail{to: to, subject: subject, body: htmlBody})
	return nil
}

func pendingFollowUp(id int, due time.Time) models.ReminderFollowUp {
	return models.ReminderFollowUp{
		FollowUp: models.FollowUp{
			ID:               id,
			ClientID:         1,
			ClientName:       "Ravi Kumar",
			FollowUpType:     "Call",
			FollowUpDate:     due.Add(-72 * time.Hour),
			Notes:            "Discuss top-up",
			NextFollowUpDate: &due,
		},
		ClientBusiness: "Kumar Traders",
		ClientPhone:    "9876543210",
		ClientArea:     "Anna Nagar",
		ClientStatus:   "Interested",
	}
}

func TestReminderSentExactlyOnce(t *testing.T) {
	followUps := &fakeFollowUps{followUps: []models.ReminderFollowUp{
		pendingFollowUp(1, clock.Now().Add(time.Hour)),
	}}
	mailer := &fakeMailer{}
	scheduler := NewScheduler(&fakeSettings{settings: models.Settings{
		NotificationEmail:  "owner@example.com",
		ReminderTimeBefore: 2,
		CompanyName:        "Kumar Finance",
	}}, followUps, mailer)

	if err := scheduler.CheckFollowUpReminders(context.Background()); err != nil {
		t.Fatalf("first poll failed: %v", err)
	}
	if len(mailer.sent) != 1 {
		t.Fatalf("expected 1 mail after first poll, got %d", len(mailer.sent))
	}
	if !followUps.followUps[0].ReminderSent {
		t.Error("follow-up not marked sent after successful send")
	}

	if err := scheduler.CheckFollowUpReminders(context.Background()); err != nil {
		t.Fatalf("second poll failed: %v", err)
	}
	if len(mailer.sent) != 1 {
		t.Errorf("second poll resent the reminder, total %d mails", len(mailer.sent))
	}

	got := mailer.sent[0]
	if got.to != "owner@example.com" {
		t.Errorf("recipient = %q", got.to)
	}
	if got.subject != "Follow-up Reminder: Ravi Kumar - Kumar Traders" {
		t.Errorf("subject = %q", got.subject)
	}
}

func TestReminderWindowBounds(t *testing.T) {
	now, _ := time.Parse("2006-01-02 15:04", "2024-06-15 10:00")

	from, to := reminderWindow(now, 2)

	if !from.Equal(now) {
		t.Errorf("window start = %v, want %v", from, now)
	}
	if !to.Equal(now.Add(2 * time.Hour)) {
		t.Errorf("window end = %v, want %v", to, now.Add(2*time.Hour))
	}
}

func TestFollowUpDueNowIsExcluded(t *testing.T) {
	// The lower bound is strict, so a follow-up due at (or before) the
	// moment of the poll never fires.
	followUps := &fakeFollowUps{followUps: []models.ReminderFollowUp{
		pendingFollowUp(1, clock.Now()),
	}}
	mailer := &fakeMailer{}
	scheduler := NewScheduler(&fakeSettings{settings: models.Settings{
		NotificationEmail:  "owner@example.com",
		ReminderTimeBefore: 2,
	}}, followUps, mailer)

	if err := scheduler.CheckFollowUpReminders(context.Background()); err != nil {
		t.Fatalf("poll failed: %v", err)
	}
	if len(mailer.sent) != 0 {
		t.Errorf("follow-up due now should be excluded, got %d mails", len(mailer.sent))
	}
}

func TestFollowUpBeyondWindowIsExcluded(t *testing.T) {
	followUps := &fakeFollowUps{followUps: []models.ReminderFollowUp{
		pendingFollowUp(1, clock.Now().Add(3*time.Hour)),
	}}
	mailer := &fakeMailer{}
	scheduler := NewScheduler(&fakeSettings{settings: models.Settings{
		NotificationEmail:  "owner@example.com",
		ReminderTimeBefore: 2,
	}}, followUps, mailer)

	if err := scheduler.CheckFollowUpReminders(context.Background()); err != nil {
		t.Fatalf("poll failed: %v", err)
	}
	if len(mailer.sent) != 0 {
		t.Errorf("follow-up beyond lead window should be excluded, got %d mails", len(mailer.sent))
	}
}

func TestSettingsDefaultsWhenRowMissing(t *testing.T) {
	// First follow-up sits inside the default 2h lead, second outside.
	followUps := &fakeFollowUps{followUps: []models.ReminderFollowUp{
		pendingFollowUp(1, clock.Now().Add(time.Hour)),
		pendingFollowUp(2, clock.Now().Add(3*time.Hour)),
	}}
	mailer := &fakeMailer{}
	scheduler := NewScheduler(&fakeSettings{err: errors.New("no settings row")}, followUps, mailer)

	if err := scheduler.CheckFollowUpReminders(context.Background()); err != nil {
		t.Fatalf("poll failed: %v", err)
	}

	if len(mailer.sent) != 1 {
		t.Fatalf("expected 1 mail with default 2h lead, got %d", len(mailer.sent))
	}
	if mailer.sent[0].to != defaultRecipient {
		t.Errorf("recipient = %q, want fallback %q", mailer.sent[0].to, defaultRecipient)
	}
}

func TestSendFailureLeavesFollowUpUnmarked(t *testing.T) {
	followUps := &fakeFollowUps{followUps: []models.ReminderFollowUp{
		pendingFollowUp(1, clock.Now().Add(time.Hour)),
	}}
	mailer := &fakeMailer{fail: true}
	scheduler := NewScheduler(&fakeSettings{settings: models.Settings{
		NotificationEmail:  "owner@example.com",
		ReminderTimeBefore: 2,
	}}, followUps, mailer)

	if err := scheduler.CheckFollowUpReminders(context.Background()); err != nil {
		t.Fatalf("poll failed: %v", err)
	}
	if followUps.followUps[0].ReminderSent {
		t.Fatal("failed send must not mark the follow-up sent")
	}

	// Next poll retries and succeeds.
	mailer.fail = false
	if err := scheduler.CheckFollowUpReminders(context.Background()); err != nil {
		t.Fatalf("retry poll failed: %v", err)
	}
	if len(mailer.sent) != 1 {
		t.Fatalf("expected the retry to send 1 mail, got %d", len(mailer.sent))
	}
	if !followUps.followUps[0].ReminderSent {
		t.Error("follow-up not marked sent after successful retry")
	}
}

func TestOneFailureDoesNotBlockOthers(t *testing.T) {
	due := clock.Now().Add(time.Hour)
	first := pendingFollowUp(1, due)
	second := pendingFollowUp(2, due)
	second.ClientName = "Meena S"
	second.ClientBusiness = "Meena Textiles"

	followUps := &fakeFollowUps{
		followUps: []models.ReminderFollowUp{first, second},
	}
	mailer := &fakeMailer{failOn: "Ravi Kumar"}
	scheduler := NewScheduler(&fakeSettings{settings: models.Settings{
		NotificationEmail:  "owner@example.com",
		ReminderTimeBefore: 2,
	}}, followUps, mailer)

	if err := scheduler.CheckFollowUpReminders(context.Background()); err != nil {
		t.Fatalf("poll failed: %v", err)
	}

	if len(mailer.sent) != 1 {
		t.Fatalf("expected the non-failing reminder to go out, got %d mails", len(mailer.sent))
	}
	if !strings.Contains(mailer.sent[0].subject, "Meena S") {
		t.Errorf("sent subject = %q", mailer.sent[0].subject)
	}
	if followUps.followUps[0].ReminderSent {
		t.Error("failed reminder must stay unmarked")
	}
	if !followUps.followUps[1].ReminderSent {
		t.Error("successful reminder must be marked sent")
	}
}
