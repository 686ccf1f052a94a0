package mail

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/somsu123/peerpath-final/internal/config"
)

// brevoMailer sends mail through the Brevo transactional-email API
// (POST /v3/smtp/email with an api-key header and a fixed sender identity).
type brevoMailer struct {
	apiKey     string
	apiURL     string
	sender     brevoAddress
	httpClient *http.Client
}

type brevoAddress struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email"`
}

type brevoSendRequest struct {
	Sender      brevoAddress   `json:"sender"`
	To          []brevoAddress `json:"to"`
	Subject     string         `json:"subject"`
	TextContent string         `json:"textContent"`
}

// NewBrevoMailer builds the Brevo driver from configuration.
func NewBrevoMailer(cfg *config.Config) Mailer {
	return &brevoMailer{
		apiKey: cfg.BrevoAPIKey,
		apiURL: cfg.BrevoAPIURL,
		sender: brevoAddress{Name: cfg.SenderName, Email: cfg.SenderEmail},
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (m *brevoMailer) SendEmail(to, subject, body string) error {
	payload, err := json.Marshal(brevoSendRequest{
		Sender:      m.sender,
		To:          []brevoAddress{{Email: to}},
		Subject:     subject,
		TextContent: body,
	})
	if err != nil {
		return fmt.Errorf("marshal brevo request: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, m.apiURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build brevo request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("api-key", m.apiKey)

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send brevo request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("brevo responded %d: %s", resp.StatusCode, msg)
	}
	return nil
}
