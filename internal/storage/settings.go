package storage

import (
	"context"
	"fmt"
	"github.com/jackc/pgx/v5/pgxpool"
	"loantrack/internal/models"
	"log"
)

type SettingsStorage struct {
	pool *pgxpool.Pool
}

func NewSettingsStorage(pool *pgxpool.Pool) *SettingsStorage {
	return &SettingsStorage{
		pool: pool,
	}
}

// GetSettings reads the single settings row (id = 1).
func (db_st *SettingsStorage) GetSettings(ctx context.Context) (models.Settings, error) {
	op := "internal/storage/settings.go GetSettings"

	sql_query := `
	SELECT id, notification_email, reminder_time_before, notifications_enabled, company_name
	FROM settings
	WHERE id = 1;
	`

	settings := models.Settings{}

	err := db_st.pool.QueryRow(ctx, sql_query).Scan(
		&settings.ID,
		&settings.NotificationEmail,
		&settings.ReminderTimeBefore,
		&settings.NotificationsEnabled,
		&settings.CompanyName,
	)

	if err != nil {
		log.Println("Error with QueryRow method in ", op, " with error: ", err)
		return models.Settings{}, err
	}

	return settings, nil
}

func (db_st *SettingsStorage) SaveSettings(ctx context.Context, settings *models.Settings) error {
	op := "internal/storage/settings.go SaveSettings"

	sql_query := `
	INSERT INTO settings (id, notification_email, reminder_time_before, notifications_enabled, company_name)
	VALUES (1, $1, $2, $3, $4)
	ON CONFLICT (id) DO UPDATE SET
	notification_email = EXCLUDED.notification_email,
	reminder_time_before = EXCLUDED.reminder_time_before,
	notifications_enabled = EXCLUDED.notifications_enabled,
	company_name = EXCLUDED.company_name;
	`

	_, err := db_st.pool.Exec(ctx, sql_query,
		settings.NotificationEmail,
		settings.ReminderTimeBefore,
		settings.NotificationsEnabled,
		settings.CompanyName,
	)

	if err != nil {
		log.Println("Error with Exec method in ", op, " with error: ", err)
		return fmt.Errorf("%s: failed to save settings: %w", op, err)
	}

	return nil
}
