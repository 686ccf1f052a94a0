package mail

import (
	"fmt"
	"net/smtp"

	"github.com/somsu123/peerpath-final/internal/config"
)

// smtpMailer delivers through a plain SMTP relay. Used in development
// (MailHog and friends) when no Brevo API key is configured.
type smtpMailer struct {
	host     string
	port     string
	from     string
	username string
	password string
}

// NewSMTPMailer builds the SMTP driver from configuration.
func NewSMTPMailer(cfg *config.Config) Mailer {
	return &smtpMailer{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		from:     cfg.SenderEmail,
		username: cfg.SMTPUsername,
		password: cfg.SMTPPassword,
	}
}

func (m *smtpMailer) SendEmail(to, subject, body string) error {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s", m.from, to, subject, body)
	addr := fmt.Sprintf("%s:%s", m.host, m.port)

	var auth smtp.Auth
	if m.username != "" {
		auth = smtp.PlainAuth("", m.username, m.password, m.host)
	}

	return smtp.SendMail(addr, auth, m.from, []string{to}, []byte(msg))
}
