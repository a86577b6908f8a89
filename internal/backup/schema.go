package backup

import (
	"strconv"

	"github.com/shopspring/decimal"
	"loantrack/internal/clock"
	"loantrack/internal/models"
)

// Column binds a database field to its sheet header. Header order in
// the slice is the column order in the sheet; data starts at row 2.
type Column struct {
	DBField string
	Header  string
}

// SheetSchema is the single source of truth for one sheet. Both the
// full rebuild and the patch path consume it, so the two cannot drift.
type SheetSchema struct {
	Name    string
	Columns []Column
}

// Headers returns the header row in column order.
func (s SheetSchema) Headers() []interface{} {
	headers := make([]interface{}, len(s.Columns))
	for i, col := range s.Columns {
		headers[i] = col.Header
	}
	return headers
}

// RowValues orders a field->value map by the schema's columns. Fields
// absent from the map come out as empty cells.
func (s SheetSchema) RowValues(fields map[string]string) []interface{} {
	values := make([]interface{}, len(s.Columns))
	for i, col := range s.Columns {
		values[i] = fields[col.DBField]
	}
	return values
}

var clientSheet = SheetSchema{
	Name: "Clients",
	Columns: []Column{
		{"id", "ID"},
		{"name", "Name"},
		{"business_name", "Business Name"},
		{"phone", "Phone"},
		{"email", "Email"},
		{"area", "Area"},
		{"loan_amount", "Loan Amount"},
		{"funded_amount", "Funded Amount"},
		{"status", "Status"},
		{"last_follow_up", "Last Follow Up"},
		{"next_follow_up", "Next Follow Up"},
		{"created_at", "Created At"},
	},
}

var loanSheet = SheetSchema{
	Name: "Loans",
	Columns: []Column{
		{"id", "ID"},
		{"client_id", "Client ID"},
		{"client_name", "Client Name"},
		{"amount", "Amount"},
		{"interest_rate", "Interest %"},
		{"disbursed_on", "Disbursed On"},
		{"proof_file_name", "Proof File"},
		{"created_at", "Created At"},
	},
}

var followUpSheet = SheetSchema{
	Name: "Follow-ups",
	Columns: []Column{
		{"id", "ID"},
		{"client_id", "Client ID"},
		{"client_name", "Client Name"},
		{"follow_up_type", "Type"},
		{"follow_up_date", "Follow Up Date"},
		{"notes", "Notes"},
		{"next_follow_up_date", "Next Follow Up"},
		{"reminder_sent", "Reminder Sent"},
	},
}

func clientRow(client models.Client) map[string]string {
	return map[string]string{
		"id":             strconv.Itoa(client.ID),
		"name":           client.Name,
		"business_name":  client.BusinessName,
		"phone":          client.Phone,
		"email":          client.Email,
		"area":           client.Area,
		"loan_amount":    money(client.LoanAmount),
		"funded_amount":  money(client.FundedAmount),
		"status":         client.Status,
		"last_follow_up": clock.FormatDisplay(client.LastFollowUp),
		"next_follow_up": clock.FormatDisplay(client.NextFollowUp),
		"created_at":     clock.FormatDisplay(&client.CreatedAt),
	}
}

func loanRow(loan models.Loan) map[string]string {
	return map[string]string{
		"id":              strconv.Itoa(loan.ID),
		"client_id":       strconv.Itoa(loan.ClientID),
		"client_name":     loan.ClientName,
		"amount":          money(loan.Amount),
		"interest_rate":   decimal.NewFromFloat(loan.InterestRate).StringFixed(2),
		"disbursed_on":    clock.FormatDisplay(loan.DisbursedOn),
		"proof_file_name": loan.ProofFileName,
		"created_at":      clock.FormatDisplay(&loan.CreatedAt),
	}
}

func followUpRow(followUp models.FollowUp) map[string]string {
	return map[string]string{
		"id":                  strconv.Itoa(followUp.ID),
		"client_id":           strconv.Itoa(followUp.ClientID),
		"client_name":         followUp.ClientName,
		"follow_up_type":      followUp.FollowUpType,
		"follow_up_date":      clock.FormatDisplay(&followUp.FollowUpDate),
		"notes":               followUp.Notes,
		"next_follow_up_date": clock.FormatDisplay(followUp.NextFollowUpDate),
		"reminder_sent":       yesNo(followUp.ReminderSent),
	}
}

func money(amount float64) string {
	return decimal.NewFromFloat(amount).StringFixed(2)
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
