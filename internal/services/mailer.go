package services

import (
	"context"
	"fmt"
	"strings"

	"undergraduation-admin/config"
	"undergraduation-admin/internal/logger"

	"go.uber.org/zap"
)

// Mail provider names accepted by NewMailer.
const (
	ProviderLog        = "log"
	ProviderCustomerIO = "customerio"
	ProviderSendGrid   = "sendgrid"
	ProviderGmail      = "gmail"
)

// Message is a single outbound e-mail. CustomerID identifies the recipient
// at the provider; we use the student id.
type Message struct {
	CustomerID string
	To         string
	Subject    string
	Text       string
	HTML       string
}

// Mailer delivers messages through an external provider.
type Mailer interface {
	// Name is recorded as the author of persisted communications.
	Name() string
	Send(ctx context.Context, msg Message) error
}

// NewMailer builds the mailer selected by MAIL_PROVIDER.
func NewMailer(cfg *config.Config) (Mailer, error) {
	switch strings.ToLower(cfg.MailProvider) {
	case ProviderLog, "":
		return LogMailer{}, nil
	case ProviderCustomerIO:
		return NewCustomerIOMailer(cfg.CustomerIOSiteID, cfg.CustomerIOAPIKey, cfg.CustomerIORegion), nil
	case ProviderSendGrid:
		return NewSendGridMailer(cfg.SendGridAPIKey, cfg.SendGridFromEmail, cfg.SendGridFromName), nil
	case ProviderGmail:
		m, err := NewGmailMailer(context.Background(), cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GmailRefreshToken, cfg.GmailSender)
		if err != nil {
			return nil, err
		}
		return m, nil
	default:
		return nil, fmt.Errorf("unknown mail provider %q", cfg.MailProvider)
	}
}

// LogMailer only logs messages. It is the default for local development.
type LogMailer struct{}

func (LogMailer) Name() string { return "log" }

func (LogMailer) Send(_ context.Context, msg Message) error {
	logger.Log.Info("mail (log provider)",
		zap.String("to", msg.To),
		zap.String("customer", msg.CustomerID),
		zap.String("subject", msg.Subject),
		zap.Int("bytes", len(msg.Text)),
	)
	return nil
}
