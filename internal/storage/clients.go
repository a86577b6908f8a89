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

type ClientStorage struct {
	pool *pgxpool.Pool
}

func NewClientStorage(pool *pgxpool.Pool) *ClientStorage {
	return &ClientStorage{
		pool: pool,
	}
}

func (db_cs *ClientStorage) CreateClient(ctx context.Context, client *models.Client) error {
	op := "internal/storage/clients.go CreateClient"

	client.CreatedAt = clock.Now()

	sql_query := `
	INSERT INTO clients
	(name, business_name, phone, email, area, loan_amount, funded_amount, status, last_follow_up, next_follow_up, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	RETURNING id;
	`

	err := db_cs.pool.QueryRow(
		ctx,
		sql_query,
		client.Name,
		client.BusinessName,
		client.Phone,
		client.Email,
		client.Area,
		client.LoanAmount,
		client.FundedAmount,
		client.Status,
		client.LastFollowUp,
		client.NextFollowUp,
		client.CreatedAt,
	).Scan(&client.ID)

	if err != nil {
		return fmt.Errorf("Failure to create client in %s: %w", op, err)
	}

	return nil
}

func (db_cs *ClientStorage) GetClients(ctx context.Context) ([]models.Client, error) {
	op := "internal/storage/clients.go GetClients"

	sql_query := `
	SELECT id, name, business_name, phone, email, area, loan_amount, funded_amount, status, last_follow_up, next_follow_up, created_at
	FROM clients
	ORDER BY id;
	`

	rows, err := db_cs.pool.Query(ctx, sql_query)

	if err != nil {
		return nil, fmt.Errorf("Failure to get clients in %s: %w", op, err)
	}
	defer rows.Close()
	clients := []models.Client{}

	for rows.Next() {
		client := models.Client{}

		err := rows.Scan(
			&client.ID,
			&client.Name,
			&client.BusinessName,
			&client.Phone,
			&client.Email,
			&client.Area,
			&client.LoanAmount,
			&client.FundedAmount,
			&client.Status,
			&client.LastFollowUp,
			&client.NextFollowUp,
			&client.CreatedAt,
		)

		if err != nil {
			return nil, fmt.Errorf("Failure to Scan clients in %s: %w", op, err)
		}

		clients = append(clients, client)
	}

	return clients, nil
}

func (db_cs *ClientStorage) GetClientByID(ctx context.Context, id int) (models.Client, error) {
	op := "internal/storage/clients.go GetClientByID"

	sql_query := `
	SELECT id, name, business_name, phone, email, area, loan_amount, funded_amount, status, last_follow_up, next_follow_up, created_at
	FROM clients
	WHERE id = $1;
	`

	client := models.Client{}

	err := db_cs.pool.QueryRow(ctx, sql_query, id).Scan(
		&client.ID,
		&client.Name,
		&client.BusinessName,
		&client.Phone,
		&client.Email,
		&client.Area,
		&client.LoanAmount,
		&client.FundedAmount,
		&client.Status,
		&client.LastFollowUp,
		&client.NextFollowUp,
		&client.CreatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return models.Client{}, faults.Wrap(faults.NotFound, "client %d not found in %s", id, op)
	}
	if err != nil {
		return models.Client{}, fmt.Errorf("Failure to get client in %s: %w", op, err)
	}

	return client, nil
}

func (db_cs *ClientStorage) UpdateClient(ctx context.Context, client *models.Client) error {
	op := "internal/storage/clients.go UpdateClient"

	sql_query := `
	UPDATE clients SET
	name = $1, business_name = $2, phone = $3, email = $4, area = $5,
	loan_amount = $6, funded_amount = $7, status = $8, last_follow_up = $9, next_follow_up = $10
	WHERE id = $11;
	`

	_, err := db_cs.pool.Exec(
		ctx,
		sql_query,
		client.Name,
		client.BusinessName,
		client.Phone,
		client.Email,
		client.Area,
		client.LoanAmount,
		client.FundedAmount,
		client.Status,
		client.LastFollowUp,
		client.NextFollowUp,
		client.ID,
	)

	if err != nil {
		return fmt.Errorf("Failure to update client in %s: %w", op, err)
	}

	return nil
}

func (db_cs *ClientStorage) DeleteClient(ctx context.Context, id int) error {
	op := "internal/storage/clients.go DeleteClient"

	sql_query := `
	DELETE FROM clients WHERE id = $1;
	`

	_, err := db_cs.pool.Exec(ctx, sql_query, id)

	if err != nil {
		return fmt.Errorf("Failure to delete client in %s: %w", op, err)
	}

	return nil
}

// TouchFollowUpDates bumps the denormalized follow-up columns after a
// follow-up is logged for the client.
func (db_cs *ClientStorage) TouchFollowUpDates(ctx context.Context, clientID int, last time.Time, next *time.Time) error {
	op := "internal/storage/clients.go TouchFollowUpDates"

	sql_query := `
	UPDATE clients SET last_follow_up = $1, next_follow_up = $2
	WHERE id = $3;
	`

	_, err := db_cs.pool.Exec(ctx, sql_query, last, next, clientID)

	if err != nil {
		return fmt.Errorf("Failure to touch follow-up dates in %s: %w", op, err)
	}

	return nil
}
