// Package mail delivers transactional e-mail. Two drivers are available:
// the Brevo HTTP API (production) and plain SMTP (local development).
package mail

// Mailer sends a plain-text e-mail. Implementations make a single
// best-effort attempt; retry policy is the caller's concern (there is none).
type Mailer interface {
	SendEmail(to, subject, body string) error
}
