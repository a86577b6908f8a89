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
)

type LoanStorage struct {
	pool *pgxpool.Pool
}

func NewLoanStorage(pool *pgxpool.Pool) *LoanStorage {
	return &LoanStorage{
		pool: pool,
	}
}

func (db_ls *LoanStorage) CreateLoan(ctx context.Context, loan *models.Loan) error {
	op := "internal/storage/loans.go CreateLoan"

	loan.CreatedAt = clock.Now()

	sql_query := `
	INSERT INTO loans
	(client_id, amount, interest_rate, disbursed_on, proof_file_path, proof_file_name, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	RETURNING id;
	`

	err := db_ls.pool.QueryRow(
		ctx,
		sql_query,
		loan.ClientID,
		loan.Amount,
		loan.InterestRate,
		loan.DisbursedOn,
		loan.ProofFilePath,
		loan.ProofFileName,
		loan.CreatedAt,
	).Scan(&loan.ID)

	if err != nil {
		return fmt.Errorf("Failure to create loan in %s: %w", op, err)
	}

	return nil
}

// GetLoans returns all loans joined with the owning client's name, in
// the order the backup sheet expects.
func (db_ls *LoanStorage) GetLoans(ctx context.Context) ([]models.Loan, error) {
	op := "internal/storage/loans.go GetLoans"

	sql_query := `
	SELECT l.id, l.client_id, c.name, l.amount, l.interest_rate, l.disbursed_on, l.proof_file_path, l.proof_file_name, l.created_at
	FROM loans l
	JOIN clients c ON c.id = l.client_id
	ORDER BY l.id;
	`

	rows, err := db_ls.pool.Query(ctx, sql_query)

	if err != nil {
		return nil, fmt.Errorf("Failure to get loans in %s: %w", op, err)
	}
	defer rows.Close()
	loans := []models.Loan{}

	for rows.Next() {
		loan := models.Loan{}

		err := rows.Scan(
			&loan.ID,
			&loan.ClientID,
			&loan.ClientName,
			&loan.Amount,
			&loan.InterestRate,
			&loan.DisbursedOn,
			&loan.ProofFilePath,
			&loan.ProofFileName,
			&loan.CreatedAt,
		)

		if err != nil {
			return nil, fmt.Errorf("Failure to Scan loans in %s: %w", op, err)
		}

		loans = append(loans, loan)
	}

	return loans, nil
}

func (db_ls *LoanStorage) GetLoansByClient(ctx context.Context, clientID int) ([]models.Loan, error) {
	op := "internal/storage/loans.go GetLoansByClient"

	sql_query := `
	SELECT l.id, l.client_id, c.name, l.amount, l.interest_rate, l.disbursed_on, l.proof_file_path, l.proof_file_name, l.created_at
	FROM loans l
	JOIN clients c ON c.id = l.client_id
	WHERE l.client_id = $1
	ORDER BY l.id;
	`

	rows, err := db_ls.pool.Query(ctx, sql_query, clientID)

	if err != nil {
		return nil, fmt.Errorf("Failure to get loans in %s: %w", op, err)
	}
	defer rows.Close()
	loans := []models.Loan{}

	for rows.Next() {
		loan := models.Loan{}

		err := rows.Scan(
			&loan.ID,
			&loan.ClientID,
			&loan.ClientName,
			&loan.Amount,
			&loan.InterestRate,
			&loan.DisbursedOn,
			&loan.ProofFilePath,
			&loan.ProofFileName,
			&loan.CreatedAt,
		)

		if err != nil {
			return nil, fmt.Errorf("Failure to Scan loans in %s: %w", op, err)
		}

		loans = append(loans, loan)
	}

	return loans, nil
}

func (db_ls *LoanStorage) GetLoanByID(ctx context.Context, id int) (models.Loan, error) {
	op := "internal/storage/loans.go GetLoanByID"

	sql_query := `
	SELECT l.id, l.client_id, c.name, l.amount, l.interest_rate, l.disbursed_on, l.proof_file_path, l.proof_file_name, l.created_at
	FROM loans l
	JOIN clients c ON c.id = l.client_id
	WHERE l.id = $1;
	`

	loan := models.Loan{}

	err := db_ls.pool.QueryRow(ctx, sql_query, id).Scan(
		&loan.ID,
		&loan.ClientID,
		&loan.ClientName,
		&loan.Amount,
		&loan.InterestRate,
		&loan.DisbursedOn,
		&loan.ProofFilePath,
		&loan.ProofFileName,
		&loan.CreatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return models.Loan{}, faults.Wrap(faults.NotFound, "loan %d not found in %s", id, op)
	}
	if err != nil {
		return models.Loan{}, fmt.Errorf("Failure to get loan in %s: %w", op, err)
	}

	return loan, nil
}

func (db_ls *LoanStorage) UpdateLoan(ctx context.Context, loan *models.Loan) error {
	op := "internal/storage/loans.go UpdateLoan"

	sql_query := `
	UPDATE loans SET
	amount = $1, interest_rate = $2, disbursed_on = $3, proof_file_path = $4, proof_file_name = $5
	WHERE id = $6;
	`

	_, err := db_ls.pool.Exec(
		ctx,
		sql_query,
		loan.Amount,
		loan.InterestRate,
		loan.DisbursedOn,
		loan.ProofFilePath,
		loan.ProofFileName,
		loan.ID,
	)

	if err != nil {
		return fmt.Errorf("Failure to update loan in %s: %w", op, err)
	}

	return nil
}

func (db_ls *LoanStorage) DeleteLoan(ctx context.Context, id int) error {
	op := "internal/storage/loans.go DeleteLoan"

	sql_query := `
	DELETE FROM loans WHERE id = $1;
	`

	_, err := db_ls.pool.Exec(ctx, sql_query, id)

	if err != nil {
		return fmt.Errorf("Failure to delete loan in %s: %w", op, err)
	}

	return nil
}
