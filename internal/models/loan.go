package models

import (
	"time"
)

type Loan struct {
	ID            int        `json:"id" db:"id"`
	ClientID      int        `json:"client_id" db:"client_id"`
	ClientName    string     `json:"client_name,omitempty" db:"client_name"`
	Amount        float64    `json:"amount" db:"amount"`
	InterestRate  float64    `json:"interest_rate" db:"interest_rate"`
	DisbursedOn   *time.Time `json:"disbursed_on,omitempty" db:"disbursed_on"`
	ProofFilePath string     `json:"proof_file_path,omitempty" db:"proof_file_path"`
	ProofFileName string     `json:"proof_file_name,omitempty" db:"proof_file_name"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
}
