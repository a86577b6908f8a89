package models

type Settings struct {
	ID                   int    `json:"id" db:"id"`
	NotificationEmail    string `json:"notification_email" db:"notification_email"`
	ReminderTimeBefore   int    `json:"reminder_time_before" db:"reminder_time_before"`
	NotificationsEnabled bool   `json:"notifications_enabled" db:"notifications_enabled"`
	CompanyName          string `json:"company_name" db:"company_name"`
}
