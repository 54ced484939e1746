package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/mailersend/mailersend-go"
)

// Mailer sends transactional email through an external gateway
type Mailer interface {
	Send(ctx context.Context, toEmail, toName, subject, html, text string) (messageID string, err error)
}

// MailerSendMailer delivers through the MailerSend API
type MailerSendMailer struct {
	client  *mailersend.Mailersend
	from    mailersend.From
	timeout time.Duration
	enabled bool
}

// NewMailerSendMailer creates a MailerSend-backed mailer. The mailer is
// disabled when the API key or sender address is missing, and Send fails
// fast in that case.
func NewMailerSendMailer(apiKey, fromName, fromEmail string) *MailerSendMailer {
	m := &MailerSendMailer{
		enabled: apiKey != "" && fromEmail != "",
		timeout: 10 * time.Second,
		from: mailersend.From{
			Name:  fromName,
			Email: fromEmail,
		},
	}
	if m.enabled {
		m.client = mailersend.NewMailersend(apiKey)
	}
	return m
}

func (m *MailerSendMailer) Send(ctx context.Context, toEmail, toName, subject, html, text string) (string, error) {
	if !m.enabled {
		return "", errors.New("mailer disabled (missing API key or sender address)")
	}

	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	msg := m.client.Email.NewMessage()
	msg.SetFrom(m.from)
	msg.SetRecipients([]mailersend.Recipient{{Name: toName, Email: toEmail}})
	msg.SetSubject(subject)
	if strings.TrimSpace(text) != "" {
		msg.SetText(text)
	}
	if strings.TrimSpace(html) != "" {
		msg.SetHTML(html)
	}

	res, err := m.client.Email.Send(ctx, msg)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		body, _ := io.ReadAll(res.Body)
		return "", fmt.Errorf("mailersend error: status=%d body=%s", res.StatusCode, strings.TrimSpace(string(body)))
	}

	return res.Header.Get("X-Message-Id"), nil
}

// MockMailer logs instead of delivering. Used in development and tests.
type MockMailer struct{}

func NewMockMailer() *MockMailer {
	return &MockMailer{}
}

func (m *MockMailer) Send(ctx context.Context, toEmail, toName, subject, html, text string) (string, error) {
	log.Printf("[MOCK MAILER] to=%s subject=%q", toEmail, subject)
	return "mock-message-id", nil
}
