package storage

import (
	"context"
	"errors"
	"fmt"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"loantrack/internal/clock"
	"loantrack/internal/faults"
	"loantrack/internal/models"
	"time"
)

type FollowUpStorage struct {
	pool *pgxpool.Pool
}

func NewFollowUpStorage(pool *pgxpool.Pool) *FollowUpStorage {
	return &FollowUpStorage{
		pool: pool,
	}
}

func (db_fs *FollowUpStorage) CreateFollowUp(ctx context.Context, followUp *models.FollowUp) error {
	op := "internal/storage/followups.go CreateFollowUp"

	followUp.CreatedAt = clock.Now()

	sql_query := `
	INSERT INTO follow_ups
	(client_id, follow_up_type, follow_up_date, notes, next_follow_up_date, reminder_sent, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	RETURNING id;
	`

	err := db_fs.pool.QueryRow(
		ctx,
		sql_query,
		followUp.ClientID,
		followUp.FollowUpType,
		followUp.FollowUpDate,
		followUp.Notes,
		followUp.NextFollowUpDate,
		followUp.ReminderSent,
		followUp.CreatedAt,
	).Scan(&followUp.ID)

	if err != nil {
		return fmt.Errorf("Failure to create follow-up in %s: %w", op, err)
	}

	return nil
}

// GetFollowUps returns all follow-ups joined with the owning client's
// name, in the order the backup sheet expects.
func (db_fs *FollowUpStorage) GetFollowUps(ctx context.Context) ([]models.FollowUp, error) {
	op := "internal/storage/followups.go GetFollowUps"

	sql_query := `
	SELECT f.id, f.client_id, c.name, f.follow_up_type, f.follow_up_date, f.notes, f.next_follow_up_date, f.reminder_sent, f.created_at
	FROM follow_ups f
	JOIN clients c ON c.id = f.client_id
	ORDER BY f.id;
	`

	rows, err := db_fs.pool.Query(ctx, sql_query)

	if err != nil {
		return nil, fmt.Errorf("Failure to get follow-ups in %s: %w", op, err)
	}
	defer rows.Close()

	return scanFollowUps(rows, op)
}

func (db_fs *FollowUpStorage) GetFollowUpsByClient(ctx context.Context, clientID int) ([]models.FollowUp, error) {
	op := "internal/storage/followups.go GetFollowUpsByClient"

	sql_query := `
	SELECT f.id, f.client_id, c.name, f.follow_up_type, f.follow_up_date, f.notes, f.next_follow_up_date, f.reminder_sent, f.created_at
	FROM follow_ups f
	JOIN clients c ON c.id = f.client_id
	WHERE f.client_id = $1
	ORDER BY f.follow_up_date DESC;
	`

	rows, err := db_fs.pool.Query(ctx, sql_query, clientID)

	if err != nil {
		return nil, fmt.Errorf("Failure to get follow-ups in %s: %w", op, err)
	}
	defer rows.Close()

	return scanFollowUps(rows, op)
}

func scanFollowUps(rows pgx.Rows, op string) ([]models.FollowUp, error) {
	followUps := []models.FollowUp{}

	for rows.Next() {
		followUp := models.FollowUp{}

		err := rows.Scan(
			&followUp.ID,
			&followUp.ClientID,
			&followUp.ClientName,
			&followUp.FollowUpType,
			&followUp.FollowUpDate,
			&followUp.Notes,
			&followUp.NextFollowUpDate,
			&followUp.ReminderSent,
			&followUp.CreatedAt,
		)

		if err != nil {
			return nil, fmt.Errorf("Failure to Scan follow-ups in %s: %w", op, err)
		}

		followUps = append(followUps, followUp)
	}

	return followUps, nil
}

func (db_fs *FollowUpStorage) GetFollowUpByID(ctx context.Context, id int) (models.FollowUp, error) {
	op := "internal/storage/followups.go GetFollowUpByID"

	sql_query := `
	SELECT f.id, f.client_id, c.name, f.follow_up_type, f.follow_up_date, f.notes, f.next_follow_up_date, f.reminder_sent, f.created_at
	FROM follow_ups f
	JOIN clients c ON c.id = f.client_id
	WHERE f.id = $1;
	`

	followUp := models.FollowUp{}

	err := db_fs.pool.QueryRow(ctx, sql_query, id).Scan(
		&followUp.ID,
		&followUp.ClientID,
		&followUp.ClientName,
		&followUp.FollowUpType,
		&followUp.FollowUpDate,
		&followUp.Notes,
		&followUp.NextFollowUpDate,
		&followUp.ReminderSent,
		&followUp.CreatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return models.FollowUp{}, faults.Wrap(faults.NotFound, "follow-up %d not found in %s", id, op)
	}
	if err != nil {
		return models.FollowUp{}, fmt.Errorf("Failure to get follow-up in %s: %w", op, err)
	}

	return followUp, nil
}

func (db_fs *FollowUpStorage) UpdateFollowUp(ctx context.Context, followUp *models.FollowUp) error {
	op := "internal/storage/followups.go UpdateFollowUp"

	sql_query := `
	UPDATE follow_ups SET
	follow_up_type = $1, follow_up_date = $2, notes = $3, next_follow_up_date = $4, reminder_sent = $5
	WHERE id = $6;
	`

	_, err := db_fs.pool.Exec(
		ctx,
		sql_query,
		followUp.FollowUpType,
		followUp.FollowUpDate,
		followUp.Notes,
		followUp.NextFollowUpDate,
		followUp.ReminderSent,
		followUp.ID,
	)

	if err != nil {
		return fmt.Errorf("Failure to update follow-up in %s: %w", op, err)
	}

	return nil
}

func (db_fs *FollowUpStorage) DeleteFollowUp(ctx context.Context, id int) error {
	op := "internal/storage/followups.go DeleteFollowUp"

	sql_query := `
	DELETE FROM follow_ups WHERE id = $1;
	`

	_, err := db_fs.pool.Exec(ctx, sql_query, id)

	if err != nil {
		return fmt.Errorf("Failure to delete follow-up in %s: %w", op, err)
	}

	return nil
}

// GetPendingReminders returns follow-ups due in (from, to] that have
// not had a reminder sent yet, joined with the client fields the
// reminder e-mail shows. Lower bound is strict, upper bound inclusive.
func (db_fs *FollowUpStorage) GetPendingReminders(ctx context.Context, from, to time.Time) ([]models.ReminderFollowUp, error) {
	op := "internal/storage/followups.go GetPendingReminders"

	sql_query := `
	SELECT f.id, f.client_id, c.name, f.follow_up_type, f.follow_up_date, f.notes, f.next_follow_up_date, f.reminder_sent, f.created_at,
	       c.business_name, c.phone, c.area, c.status
	FROM follow_ups f
	JOIN clients c ON c.id = f.client_id
	WHERE f.next_follow_up_date > $1
	  AND f.next_follow_up_date <= $2
	  AND f.reminder_sent = false
	ORDER BY f.next_follow_up_date;
	`

	rows, err := db_fs.pool.Query(ctx, sql_query, from, to)

	if err != nil {
		return nil, fmt.Errorf("Failure to get pending reminders in %s: %w", op, err)
	}
	defer rows.Close()
	reminders := []models.ReminderFollowUp{}

	for rows.Next() {
		reminder := models.ReminderFollowUp{}

		err := rows.Scan(
			&reminder.ID,
			&reminder.ClientID,
			&reminder.ClientName,
			&reminder.FollowUpType,
			&reminder.FollowUpDate,
			&reminder.Notes,
			&reminder.NextFollowUpDate,
			&reminder.ReminderSent,
			&reminder.CreatedAt,
			&reminder.ClientBusiness,
			&reminder.ClientPhone,
			&reminder.ClientArea,
			&reminder.ClientStatus,
		)

		if err != nil {
			return nil, fmt.Errorf("Failure to Scan pending reminders in %s: %w", op, err)
		}

		reminders = append(reminders, reminder)
	}

	return reminders, nil
}

func (db_fs *FollowUpStorage) MarkReminderSent(ctx context.Context, id int) error {
	op := "internal/storage/followups.go MarkReminderSent"

	sql_query := `
	UPDATE follow_ups SET reminder_sent = true WHERE id = $1;
	`

	_, err := db_fs.pool.Exec(ctx, sql_query, id)

	if err != nil {
		return fmt.Errorf("Failure to mark reminder sent in %s: %w", op, err)
	}

	return nil
}
