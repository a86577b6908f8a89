package reminder

import (
	"fmt"
	"html/template"
	"strings"

	"loantrack/internal/clock"
	"loantrack/internal/models"
)

const reminderEmailBody = `
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
	<h2 style="color: #4167B8;">Follow-up Reminder</h2>
	<p>A follow-up is coming up for the client below.</p>
	<table cellpadding="6" style="border-collapse: collapse;">
		<tr><td><b>Client</b></td><td>{{.ClientName}}</td></tr>
		<tr><td><b>Business</b></td><td>{{.Business}}</td></tr>
		<tr><td><b>Phone</b></td><td>{{.Phone}}</td></tr>
		<tr><td><b>Area</b></td><td>{{.Area}}</td></tr>
		<tr><td><b>Status</b></td><td>{{.Status}}</td></tr>
		<tr><td><b>Follow-up Type</b></td><td>{{.FollowUpType}}</td></tr>
		<tr><td><b>Last Follow-up</b></td><td>{{.LastFollowUp}}</td></tr>
		<tr><td><b>Next Follow-up</b></td><td>{{.NextFollowUp}}</td></tr>
		<tr><td><b>Notes</b></td><td>{{.Notes}}</td></tr>
	</table>
	<p style="color: #888; font-size: 12px;">{{.CompanyName}} CRM</p>
</body>
</html>
`

var emailTemplate = template.Must(template.New("reminder").Parse(reminderEmailBody))

type emailData struct {
	ClientName   string
	Business     string
	Phone        string
	Area         string
	Status       string
	FollowUpType string
	LastFollowUp string
	NextFollowUp string
	Notes        string
	CompanyName  string
}

// renderEmail builds the subject and HTML body for one pending
// reminder.
func renderEmail(followUp models.ReminderFollowUp, companyName string) (subject, body string, err error) {
	subject = fmt.Sprintf("Follow-up Reminder: %s - %s", followUp.ClientName, followUp.ClientBusiness)

	data := emailData{
		ClientName:   followUp.ClientName,
		Business:     followUp.ClientBusiness,
		Phone:        followUp.ClientPhone,
		Area:         followUp.ClientArea,
		Status:       followUp.ClientStatus,
		FollowUpType: followUp.FollowUpType,
		LastFollowUp: followUp.FollowUpDate.Format(clock.DisplayFormat),
		NextFollowUp: clock.FormatDisplay(followUp.NextFollowUpDate),
		Notes:        followUp.Notes,
		CompanyName:  companyName,
	}

	var sb strings.Builder
	if err := emailTemplate.Execute(&sb, data); err != nil {
		return "", "", err
	}

	return subject, sb.String(), nil
}
