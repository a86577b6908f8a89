package models

import (
	"time"
)

type Client struct {
	ID           int        `json:"id" db:"id"`
	Name         string     `json:"name" db:"name"`
	BusinessName string     `json:"business_name" db:"business_name"`
	Phone        string     `json:"phone" db:"phone"`
	Email        string     `json:"email" db:"email"`
	Area         string     `json:"area" db:"area"`
	LoanAmount   float64    `json:"loan_amount" db:"loan_amount"`
	FundedAmount float64    `json:"funded_amount" db:"funded_amount"`
	Status       string     `json:"status" db:"status"`
	LastFollowUp *time.Time `json:"last_follow_up,omitempty" db:"last_follow_up"`
	NextFollowUp *time.Time `json:"next_follow_up,omitempty" db:"next_follow_up"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
}
