package services

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

type SendGridMailer struct {
	apiKey  string
	from    *mail.Email
	baseURL string
}

func NewSendGridMailer(apiKey, fromEmail, fromName string) *SendGridMailer {
	if fromName == "" {
		fromName = "Undergraduation"
	}
	return &SendGridMailer{
		apiKey: apiKey,
		from:   mail.NewEmail(fromName, fromEmail),
	}
}

func (m *SendGridMailer) Name() string { return "sendgrid" }

func (m *SendGridMailer) Send(ctx context.Context, msg Message) error {
	if m.apiKey == "" {
		return fmt.Errorf("sendgrid API key is not configured")
	}

	html := msg.HTML
	if html == "" {
		html = msg.Text
	}
	message := mail.NewSingleEmail(m.from, msg.Subject, mail.NewEmail(msg.To, msg.To), msg.Text, html)

	// Send stores the body on the client, so each message gets its own.
	client := sendgrid.NewSendClient(m.apiKey)
	if m.baseURL != "" {
		client.BaseURL = m.baseURL
	}
	resp, err := client.SendWithContext(ctx, message)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("sendgrid API error (status %d): %s", resp.StatusCode, resp.Body)
	}
	return nil
}
