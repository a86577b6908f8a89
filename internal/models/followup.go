package models

import (
	"time"
)

type FollowUp struct {
	ID               int        `json:"id" db:"id"`
	ClientID         int        `json:"client_id" db:"client_id"`
	ClientName       string     `json:"client_name,omitempty" db:"client_name"`
	FollowUpType     string     `json:"follow_up_type" db:"follow_up_type"`
	FollowUpDate     time.Time  `json:"follow_up_date" db:"follow_up_date"`
	Notes            string     `json:"notes" db:"notes"`
	NextFollowUpDate *time.Time `json:"next_follow_up_date,omitempty" db:"next_follow_up_date"`
	ReminderSent     bool       `json:"reminder_sent" db:"reminder_sent"`
	CreatedAt        time.Time  `json:"created_at" db:"created_at"`
}

// ReminderFollowUp is a follow-up joined with the client fields the
// reminder e-mail needs.
type ReminderFollowUp struct {
	FollowUp
	ClientBusiness string `json:"client_business" db:"business_name"`
	ClientPhone    string `json:"client_phone" db:"phone"`
	ClientArea     string `json:"client_area" db:"area"`
	ClientStatus   string `json:"client_status" db:"status"`
}
