package reminder

import (
	"gopkg.in/gomail.v2"
	"loantrack/internal/faults"
)

// Mailer sends one HTML message. Production uses SMTP via gomail;
// tests swap in a fake.
type Mailer interface {
	Send(to, subject, htmlBody string) error
}

type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPMailer(host string, port int, user, password, from string) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(host, port, user, password),
		from:   from,
	}
}

func (m *SMTPMailer) Send(to, subject, htmlBody string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return faults.Wrap(faults.ExternalServiceFailure, "smtp send to %s: %w", to, err)
	}
	return nil
}
