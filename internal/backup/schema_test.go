package backup

import (
	"testing"
	"time"

	"loantrack/internal/models"
)

func TestRowValuesFollowColumnOrder(t *testing.T) {
	schema := SheetSchema{
		Name: "Test",
		Columns: []Column{
			{"b", "B"},
			{"a", "A"},
			{"missing", "M"},
		},
	}

	values := schema.RowValues(map[string]string{"a": "1", "b": "2"})

	if values[0] != "2" || values[1] != "1" {
		t.Errorf("values out of column order: %v", values)
	}
	if values[2] != "" {
		t.Errorf("missing field should be empty, got %v", values[2])
	}
}

func TestSheetHeaders(t *testing.T) {
	headers := followUpSheet.Headers()

	want := []string{"ID", "Client ID", "Client Name", "Type", "Follow Up Date", "Notes", "Next Follow Up", "Reminder Sent"}
	if len(headers) != len(want) {
		t.Fatalf("header count = %d, want %d", len(headers), len(want))
	}
	for i := range want {
		if headers[i] != want[i] {
			t.Errorf("header %d = %v, want %q", i, headers[i], want[i])
		}
	}
}

func TestClientRowFormatting(t *testing.T) {
	when, _ := time.Parse("2006-01-02 15:04", "2024-03-01 18:45")

	row := clientRow(models.Client{
		ID:         7,
		Name:       "Ravi",
		LoanAmount: 12345.5,
		CreatedAt:  when,
	})

	if row["id"] != "7" {
		t.Errorf("id = %q", row["id"])
	}
	if row["loan_amount"] != "12345.50" {
		t.Errorf("loan_amount = %q, want 12345.50", row["loan_amount"])
	}
	if row["created_at"] != "01-03-2024 06:45 PM" {
		t.Errorf("created_at = %q, want 01-03-2024 06:45 PM", row["created_at"])
	}
	if row["last_follow_up"] != "" {
		t.Errorf("nil date should render empty, got %q", row["last_follow_up"])
	}
}

func TestYesNo(t *testing.T) {
	if yesNo(true) != "Yes" || yesNo(false) != "No" {
		t.Error("yesNo tokens wrong")
	}
}

func TestMoney(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0.00"},
		{100, "100.00"},
		{99.999, "100.00"},
		{12.5, "12.50"},
	}

	for _, tt := range tests {
		if got := money(tt.in); got != tt.want {
			t.Errorf("money(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
